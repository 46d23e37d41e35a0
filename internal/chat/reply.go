package chat

// Button はインラインボタン
type Button struct {
	Text    string
	Payload string
}

// Message はユーザーに送る1通
type Message struct {
	Text    string
	Buttons [][]Button
}

// Reply はイベント1つへの返答。
// Toast はボタン押下への短い応答（Alert ならダイアログ表示）。
type Reply struct {
	Messages []Message
	Toast    string
	Alert    bool
}

func textReply(text string) Reply {
	return Reply{Messages: []Message{{Text: text}}}
}

func (r Reply) prepend(text string) Reply {
	r.Messages = append([]Message{{Text: text}}, r.Messages...)
	return r
}

// Texts はテスト・ログ用
func (r Reply) Texts() []string {
	out := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		out = append(out, m.Text)
	}
	return out
}
