package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"orderbot/internal/domain/model"
	"orderbot/internal/orderform"
	"orderbot/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService はカートとカタログの操作
type CartService interface {
	AddItem(userID, itemID int64) (model.CatalogItem, error)
	Clear(userID int64)
	CartText(userID int64) (string, decimal.Decimal)
	Menu() []model.CatalogItem
}

// Form は注文フォーム
type Form interface {
	Begin(userID int64) error
	State(userID int64) orderform.State
	Cancel(userID int64) bool
	Receive(ctx context.Context, userID int64, text string) orderform.Result
}

// Dispatcher はイベントを振り分けて返答を作る。
// 同じユーザーのイベントは1つずつ処理し、別ユーザーは並行に進む。
type Dispatcher struct {
	carts CartService
	form  Form
	log   *slog.Logger

	// ユーザーごとのロック。使っている間だけ持ち、誰も待っていなければ消す
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewDispatcher(carts CartService, form Form, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{carts: carts, form: form, log: log, locks: map[int64]*userLock{}}
}

func (d *Dispatcher) lock(userID int64) func() {
	d.mu.Lock()
	l, ok := d.locks[userID]
	if !ok {
		l = &userLock{}
		d.locks[userID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, userID)
		}
		d.mu.Unlock()
	}
}

// Handle はイベントを1つ処理する
func (d *Dispatcher) Handle(ctx context.Context, ev Event) Reply {
	unlock := d.lock(ev.UserID)
	defer unlock()

	eventID := uuid.NewString()
	state := d.form.State(ev.UserID)
	log := d.log.With("event_id", eventID, "user_id", ev.UserID, "kind", ev.Kind.String())

	reply := d.route(ctx, log, ev, state)

	log.Info("event handled",
		"form_state", state.String(),
		"next_state", d.form.State(ev.UserID).String(),
		"messages", len(reply.Messages),
	)
	return reply
}

func (d *Dispatcher) route(ctx context.Context, log *slog.Logger, ev Event, state orderform.State) Reply {
	// フォーム入力中: 閲覧コマンド以外のテキストはすべてフォームへ
	if state != orderform.Idle && ev.Source == FromMessage {
		switch ev.Kind {
		case ShowCatalog, ShowCart:
		default:
			return d.formInput(ctx, log, ev)
		}
	}

	switch ev.Kind {
	case Start:
		return textReply(MsgGreeting)
	case ShowCatalog:
		return d.abandon(ev.UserID, state, Reply{Messages: menuMessages(d.carts.Menu())})
	case ShowCart:
		text, _ := d.carts.CartText(ev.UserID)
		return d.abandon(ev.UserID, state, Reply{Messages: []Message{cartMessage(text)}})
	case ClearCart:
		d.carts.Clear(ev.UserID)
		return textReply(MsgCartCleared)
	case BeginCheckout:
		return d.beginCheckout(ev.UserID)
	case AddItem:
		return d.addItem(log, ev)
	case Text:
		return textReply(MsgHelp)
	}

	log.Warn("invalid selection", "payload", ev.Text)
	return Reply{Toast: ToastInvalidSelection, Alert: true}
}

// abandon は入力中のフォームを捨てて、その旨を先頭に付ける
func (d *Dispatcher) abandon(userID int64, state orderform.State, r Reply) Reply {
	if state == orderform.Idle {
		return r
	}
	if d.form.Cancel(userID) {
		return r.prepend(MsgCheckoutAbandon)
	}
	return r
}

func (d *Dispatcher) beginCheckout(userID int64) Reply {
	if err := d.form.Begin(userID); err != nil {
		if errors.Is(err, usecase.ErrEmptyCart) {
			return textReply(MsgEmptyCartNotice)
		}
		return textReply(MsgOrderFailed)
	}
	return textReply(MsgAskPhone)
}

func (d *Dispatcher) addItem(log *slog.Logger, ev Event) Reply {
	it, err := d.carts.AddItem(ev.UserID, ev.ItemID)
	if errors.Is(err, usecase.ErrUnknownItem) {
		log.Info("unknown item", "item_id", ev.ItemID)
		return Reply{Toast: ToastItemNotFound, Alert: true}
	}
	if err != nil {
		log.Error("add item failed", "item_id", ev.ItemID, "error", err)
		return Reply{Toast: ToastInvalidSelection, Alert: true}
	}
	log.Debug("item added", "item_id", it.ID)
	return Reply{Toast: ToastAdded}
}

func (d *Dispatcher) formInput(ctx context.Context, log *slog.Logger, ev Event) Reply {
	res := d.form.Receive(ctx, ev.UserID, ev.Text)

	switch res.Outcome {
	case orderform.Reprompt:
		if res.State == orderform.AwaitingAddress {
			return textReply(MsgAskAddress)
		}
		return textReply(MsgAskPhone)
	case orderform.AskAddress:
		return textReply(MsgAskAddress)
	case orderform.Completed:
		log.Info("order placed", "order_id", res.Order.ID, "total", res.Order.Total.StringFixed(2))
		return textReply(confirmation(res.Order))
	case orderform.Aborted:
		return textReply(MsgOrderAborted)
	case orderform.Failed:
		log.Error("checkout failed", "error", res.Err)
		return textReply(MsgOrderFailed)
	}

	// セッションが直前に消えていた
	return textReply(MsgHelp)
}
