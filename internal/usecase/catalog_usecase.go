package usecase

import (
	"context"
	"net/http"

	"orderbot/internal/domain/model"
	repo "orderbot/internal/repository"
)

type CatalogUsecase struct {
	itemRepo repo.CatalogItemRepository
}

// DI
func NewCatalogUsecase(itemRepo repo.CatalogItemRepository) *CatalogUsecase {
	return &CatalogUsecase{itemRepo: itemRepo}
}

// Sync はメモリのカタログを catalog_items に反映する（IDで上書き）
func (u *CatalogUsecase) Sync(ctx context.Context, items []model.CatalogItem) error {
	if err := u.itemRepo.UpsertAll(ctx, items); err != nil {
		return &PersistenceError{Op: "sync catalog", Err: err}
	}
	return nil
}

func (u *CatalogUsecase) ListItems(ctx context.Context) ([]model.CatalogItem, error) {
	items, err := u.itemRepo.List(ctx)
	if err != nil {
		return []model.CatalogItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CatalogUsecase) GetItem(ctx context.Context, id int64) (model.CatalogItem, error) {
	if id <= 0 {
		return model.CatalogItem{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	it, err := u.itemRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.CatalogItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.CatalogItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return it, nil
}

// CatalogSource は読み直せるカタログ（catalog.Store）
type CatalogSource interface {
	Reload() ([]model.CatalogItem, error)
}

// Reload はカタログを読み直して catalog_items にも反映する。
// 読み込みに失敗したらメモリのカタログは前のまま。
func (u *CatalogUsecase) Reload(ctx context.Context, src CatalogSource) (int, error) {
	items, err := src.Reload()
	if err != nil {
		return 0, err
	}
	if err := u.Sync(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}
