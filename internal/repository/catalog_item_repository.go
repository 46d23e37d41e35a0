package repository

import (
	"context"
	"errors"

	"orderbot/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログ商品の永続化（保存・取得）だけを約束。
type CatalogItemRepository interface {
	//IDで上書き保存（カタログ読み込み時に同期）
	UpsertAll(ctx context.Context, items []model.CatalogItem) error
	List(ctx context.Context) ([]model.CatalogItem, error)
	FindByID(ctx context.Context, id int64) (model.CatalogItem, error)
}
