package model

import "github.com/shopspring/decimal"

// 注文明細
// 価格は注文確定時点のスナップショット。後でカタログが変わっても更新しない。
type OrderLine struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64  `gorm:"not null;index" json:"order_id"`
	Order   *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`

	//catalog_itemsへのFKは張らない（商品が消えても明細は読める）
	ItemID            int64           `gorm:"not null;index" json:"item_id"`
	ItemNameSnapshot  string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity          int64           `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:numeric(12,2);not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
}

// 明細の小計
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPriceSnapshot.Mul(decimal.NewFromInt(l.Quantity))
}
