package repository

import (
	"context"

	"orderbot/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	UserID *int64
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//新しい順の一覧と総件数
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
}
