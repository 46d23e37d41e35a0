package usecase

import (
	"context"
	"time"

	"orderbot/internal/cart"
	"orderbot/internal/domain/model"
)

// メモリ上のカタログ
type CatalogReader interface {
	All() []model.CatalogItem
	ByID(id int64) (model.CatalogItem, bool)
}

// ユーザーごとのカート
type CartStore interface {
	Add(userID, itemID int64)
	Clear(userID int64)
	Snapshot(userID int64) []int64
	IsEmpty(userID int64) bool
	Checkpoint(userID int64) cart.Checkpoint
	ClearThrough(cp cart.Checkpoint)
}

// 注文確定の通知先（失敗しても注文は成功扱い）
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order model.Order, lines []model.OrderLine) error
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
