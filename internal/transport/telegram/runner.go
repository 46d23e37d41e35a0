package telegram

import (
	"context"
	"log/slog"

	"orderbot/internal/chat"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

// API は使っている BotAPI のメソッドだけ
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler はイベントを返答に変える（chat.Dispatcher）
type Handler interface {
	Handle(ctx context.Context, ev chat.Event) chat.Reply
}

// Runner はロングポーリングで更新を受け取り、ワーカーに配る。
// 同じユーザーの更新は必ず同じワーカーに入るので、順番どおりに処理される。
type Runner struct {
	api     API
	handler Handler
	workers int
	timeout int
	log     *slog.Logger
}

func NewRunner(api API, handler Handler, workers int, log *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{api: api, handler: handler, workers: workers, timeout: 60, log: log}
}

type inbound struct {
	event      chat.Event
	chatID     int64
	callbackID string
}

// Run は ctx が終わるか更新チャネルが閉じるまで動く
func (r *Runner) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = r.timeout
	updates := r.api.GetUpdatesChan(u)

	queues := make([]chan inbound, r.workers)
	for i := range queues {
		queues[i] = make(chan inbound, 64)
	}

	//受け取り済みの更新は止める時も最後まで処理する
	workCtx := context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	for _, q := range queues {
		g.Go(func() error {
			for in := range q {
				r.handle(workCtx, in)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				r.api.StopReceivingUpdates()
				return nil
			case upd, ok := <-updates:
				if !ok {
					return nil
				}
				in, ok := toInbound(upd)
				if !ok {
					continue
				}
				queues[shard(in.event.UserID, r.workers)] <- in
			}
		}
	})

	err := g.Wait()
	r.log.Info("telegram runner stopped")
	return err
}

func shard(userID int64, n int) int {
	s := int(userID % int64(n))
	if s < 0 {
		s = -s
	}
	return s
}

func toInbound(upd tgbotapi.Update) (inbound, bool) {
	if cq := upd.CallbackQuery; cq != nil && cq.From != nil {
		chatID := cq.From.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		return inbound{
			event:      chat.ParseButton(cq.From.ID, cq.Data),
			chatID:     chatID,
			callbackID: cq.ID,
		}, true
	}

	if m := upd.Message; m != nil && m.From != nil && m.Chat != nil {
		return inbound{
			event:  chat.ParseMessage(m.From.ID, m.Text),
			chatID: m.Chat.ID,
		}, true
	}
	return inbound{}, false
}

func (r *Runner) handle(ctx context.Context, in inbound) {
	reply := r.handler.Handle(ctx, in.event)

	for _, m := range reply.Messages {
		if _, err := r.api.Send(toMessageConfig(in.chatID, m)); err != nil {
			r.log.Error("send message failed", "chat_id", in.chatID, "error", err)
		}
	}

	if in.callbackID == "" {
		return
	}
	//ボタンには必ず応答する（くるくるを止める）
	cb := tgbotapi.NewCallback(in.callbackID, reply.Toast)
	if reply.Alert {
		cb = tgbotapi.NewCallbackWithAlert(in.callbackID, reply.Toast)
	}
	if _, err := r.api.Request(cb); err != nil {
		r.log.Error("answer callback failed", "callback_id", in.callbackID, "error", err)
	}
}

func toMessageConfig(chatID int64, m chat.Message) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, m.Text)
	if len(m.Buttons) == 0 {
		return msg
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Payload))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return msg
}
