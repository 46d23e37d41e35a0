package chat

import (
	"fmt"
	"strings"

	"orderbot/internal/cart"
	"orderbot/internal/domain/model"
	"orderbot/internal/usecase"
)

const (
	MsgGreeting        = "Hi! I'm the pizzeria bot 🍕 Ready to take your order.\nSend /menu"
	MsgHelp            = "Send /menu to see the menu, /cart to open your cart or /order to check out."
	MsgMenuEmpty       = "The menu is empty right now."
	MsgMenuFooter      = "When you're ready, open your cart:"
	MsgCartCleared     = "Cart cleared 🧹"
	MsgEmptyCartNotice = cart.EmptyText
	MsgAskPhone        = "Enter your phone number (for example, +44 7000 000000):"
	MsgAskAddress      = "Enter the delivery address:"
	MsgOrderAborted    = "Your cart is empty. Order cancelled."
	MsgOrderFailed     = "Sorry, we could not place your order. Send the address again to retry."
	MsgCheckoutAbandon = "Checkout cancelled."

	ToastAdded            = "Added to cart ✅"
	ToastItemNotFound     = "Item not found"
	ToastInvalidSelection = "Invalid selection"
)

func menuMessages(items []model.CatalogItem) []Message {
	if len(items) == 0 {
		return []Message{{Text: MsgMenuEmpty}}
	}

	out := make([]Message, 0, len(items)+1)
	for _, it := range items {
		out = append(out, Message{
			Text: fmt.Sprintf("%s\n%s\nPrice: %s", it.Name, it.Description, cart.FormatPrice(it.Price)),
			Buttons: [][]Button{
				{{Text: "➕ Add to cart", Payload: AddPayload(it.ID)}},
			},
		})
	}
	out = append(out, Message{
		Text:    MsgMenuFooter,
		Buttons: [][]Button{{{Text: "🧺 Open cart", Payload: PayloadCart}}},
	})
	return out
}

func cartMessage(text string) Message {
	return Message{
		Text: text,
		Buttons: [][]Button{
			{{Text: "🧹 Clear", Payload: PayloadClear}},
			{{Text: "✅ Checkout", Payload: PayloadOrder}},
		},
	}
}

// 注文確定メッセージ
func confirmation(o usecase.OrderOutput) string {
	lines := make([]cart.Line, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, cart.Line{
			Item:     model.CatalogItem{ID: l.ItemID, Name: l.Name, Price: l.UnitPrice},
			Quantity: l.Quantity,
			Subtotal: l.Subtotal,
		})
	}

	var b strings.Builder
	b.WriteString("✅ Order placed!\n")
	fmt.Fprintf(&b, "Number: %d\n", o.ID)
	fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "Address: %s\n\n", o.Address)
	b.WriteString(cart.FormatLines(lines))
	fmt.Fprintf(&b, "\n\nTotal: %s", cart.FormatPrice(o.Total))
	return b.String()
}
