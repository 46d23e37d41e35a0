package repository

import (
	"context"

	"orderbot/internal/domain/model"
)

type OrderLineRepository interface {
	CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	// 複数注文の明細をまとめて取る（order_id -> 明細）
	ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderLine, error)
}
