package repository

import (
	"context"
	"errors"

	"orderbot/internal/domain/model"
	repo "orderbot/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCatalogItemGormRepository(db *gorm.DB) *CatalogItemGormRepository {
	return &CatalogItemGormRepository{db: db}
}

// 同じIDがあれば name/description/price を上書き
func (r *CatalogItemGormRepository) UpsertAll(ctx context.Context, items []model.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "price"}),
		}).
		Create(&items).Error
}

func (r *CatalogItemGormRepository) List(ctx context.Context) ([]model.CatalogItem, error) {
	items := []model.CatalogItem{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return []model.CatalogItem{}, err
	}
	return items, nil
}

// IDで商品を取得
func (r *CatalogItemGormRepository) FindByID(ctx context.Context, id int64) (model.CatalogItem, error) {
	var it model.CatalogItem
	err := r.db.WithContext(ctx).First(&it, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CatalogItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CatalogItem{}, err
	}
	return it, nil
}
