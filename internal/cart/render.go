package cart

import (
	"fmt"
	"strings"

	"orderbot/internal/domain/model"

	"github.com/shopspring/decimal"
)

// カートが空のときの固定メッセージ（空文字は返さない）
const EmptyText = "Your cart is empty. Send /menu and add some items first."

// Lookup はカタログから商品を引く
type Lookup func(id int64) (model.CatalogItem, bool)

// 同じ商品をまとめた1行
type Line struct {
	Item     model.CatalogItem
	Quantity int64
	Subtotal decimal.Decimal
}

// Group は最初に出てきた順で商品IDをまとめる。
// カタログに無いIDは黙って捨てる。
func Group(items []int64, lookup Lookup) []Line {
	lines := make([]Line, 0, len(items))
	pos := make(map[int64]int, len(items))

	for _, id := range items {
		if i, ok := pos[id]; ok {
			lines[i].Quantity++
			continue
		}
		it, ok := lookup(id)
		if !ok {
			continue
		}
		pos[id] = len(lines)
		lines = append(lines, Line{Item: it, Quantity: 1})
	}

	for i := range lines {
		lines[i].Subtotal = lines[i].Item.Price.Mul(decimal.NewFromInt(lines[i].Quantity))
	}
	return lines
}

func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2) + "$"
}

// FormatLines は「名前 × 数量 — 小計」の行を返す
func FormatLines(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s × %d — %s", l.Item.Name, l.Quantity, FormatPrice(l.Subtotal))
	}
	return b.String()
}

// Text はカートの表示文字列と合計を返す。
func Text(items []int64, lookup Lookup) (string, decimal.Decimal) {
	if len(items) == 0 {
		return EmptyText, decimal.Zero
	}

	lines := Group(items, lookup)
	total := Total(lines)

	var b strings.Builder
	b.WriteString("Cart")
	if len(lines) > 0 {
		b.WriteByte('\n')
		b.WriteString(FormatLines(lines))
	}
	b.WriteString("\n\nTotal: ")
	b.WriteString(FormatPrice(total))
	return b.String(), total
}
