package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 確定した注文（作成後は変更しない）
type Order struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64  `gorm:"not null;index" json:"user_id"`
	Phone   string `gorm:"type:text;not null" json:"phone"`
	Address string `gorm:"type:text;not null" json:"address"`

	//明細の unit_price_snapshot × quantity の合計
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime;index" json:"created_at"`
}
