package model

import "github.com/shopspring/decimal"

// メニューの商品。IDは外部カタログのIDをそのまま使う（自動採番しない）
type CatalogItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}
