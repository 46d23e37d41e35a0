package usecase

import (
	"orderbot/internal/cart"
	"orderbot/internal/domain/model"

	"github.com/shopspring/decimal"
)

// CartUsecase はチャットのカート操作。
// 商品の存在チェックはここで行い、Registry自体は何でも受け付ける。
type CartUsecase struct {
	carts   CartStore
	catalog CatalogReader
}

func NewCartUsecase(carts CartStore, catalog CatalogReader) *CartUsecase {
	return &CartUsecase{carts: carts, catalog: catalog}
}

// AddItem はカートに1つ追加（同じ商品を続けて追加すると数量になる）
func (u *CartUsecase) AddItem(userID, itemID int64) (model.CatalogItem, error) {
	it, ok := u.catalog.ByID(itemID)
	if !ok {
		return model.CatalogItem{}, ErrUnknownItem
	}
	u.carts.Add(userID, itemID)
	return it, nil
}

func (u *CartUsecase) Clear(userID int64) {
	u.carts.Clear(userID)
}

func (u *CartUsecase) IsEmpty(userID int64) bool {
	return u.carts.IsEmpty(userID)
}

// CartText はカートの表示と合計。空文字は返さない
func (u *CartUsecase) CartText(userID int64) (string, decimal.Decimal) {
	return cart.Text(u.carts.Snapshot(userID), u.catalog.ByID)
}

// カタログ一覧（表示順）
func (u *CartUsecase) Menu() []model.CatalogItem {
	return u.catalog.All()
}
