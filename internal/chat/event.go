package chat

import (
	"strconv"
	"strings"
)

// Kind はイベントの種類
type Kind int

const (
	Unknown Kind = iota
	Start
	ShowCatalog
	ShowCart
	ClearCart
	BeginCheckout
	AddItem
	Text
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case ShowCatalog:
		return "show_catalog"
	case ShowCart:
		return "show_cart"
	case ClearCart:
		return "clear_cart"
	case BeginCheckout:
		return "begin_checkout"
	case AddItem:
		return "add_item"
	case Text:
		return "text"
	}
	return "unknown"
}

// Source はイベントがどこから来たか
type Source int

const (
	FromMessage Source = iota
	FromButton
)

// ボタンのpayload
const (
	PayloadAddPrefix = "add:"
	PayloadCart      = "cart"
	PayloadClear     = "clear"
	PayloadOrder     = "order"
	PayloadMenu      = "menu"
)

// Event はトランスポートから来た入力
type Event struct {
	UserID int64
	Kind   Kind
	Source Source

	ItemID int64  // AddItem
	Text   string // Message のときは元の文字列
}

// ParseMessage はテキストメッセージを解釈する。
// 知らないコマンドは Text（フォーム入力になりうる）。
func ParseMessage(userID int64, text string) Event {
	ev := Event{UserID: userID, Kind: Text, Source: FromMessage, Text: text}

	cmd, ok := command(text)
	if !ok {
		return ev
	}
	switch cmd {
	case "start":
		ev.Kind = Start
	case "menu":
		ev.Kind = ShowCatalog
	case "cart":
		ev.Kind = ShowCart
	case "order":
		ev.Kind = BeginCheckout
	}
	return ev
}

// ParseButton はボタンのpayloadを解釈する。不正なら Unknown
func ParseButton(userID int64, payload string) Event {
	ev := Event{UserID: userID, Kind: Unknown, Source: FromButton, Text: payload}

	switch payload {
	case PayloadCart:
		ev.Kind = ShowCart
		return ev
	case PayloadClear:
		ev.Kind = ClearCart
		return ev
	case PayloadOrder:
		ev.Kind = BeginCheckout
		return ev
	case PayloadMenu:
		ev.Kind = ShowCatalog
		return ev
	}

	if rest, ok := strings.CutPrefix(payload, PayloadAddPrefix); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id < 1 {
			return ev
		}
		ev.Kind = AddItem
		ev.ItemID = id
	}
	return ev
}

func AddPayload(itemID int64) string {
	return PayloadAddPrefix + strconv.FormatInt(itemID, 10)
}

// "/menu@my_bot args" -> "menu"
func command(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text[1:])
	if len(name) == 0 {
		return "", false
	}
	cmd, _, _ := strings.Cut(name[0], "@")
	return strings.ToLower(cmd), cmd != ""
}
