package usecase

import (
	"context"
	"log/slog"
	"strings"

	"orderbot/internal/cart"
	"orderbot/internal/domain/model"
	repo "orderbot/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutUsecase はカート＋入力済みの連絡先から注文を作る。
// orders / order_lines を作るのはここだけ。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	carts     CartStore
	catalog   CatalogReader
	publisher OrderPublisher
	clock     Clock
	log       *slog.Logger
}

func NewCheckoutUsecase(tx repo.TransactionManager, carts CartStore, catalog CatalogReader) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:      tx,
		carts:   carts,
		catalog: catalog,
		clock:   systemClock{},
		log:     slog.Default(),
	}
}

// WithPublisher は注文確定後の通知先を設定する
func (u *CheckoutUsecase) WithPublisher(p OrderPublisher) *CheckoutUsecase {
	u.publisher = p
	return u
}

func (u *CheckoutUsecase) WithClock(c Clock) *CheckoutUsecase {
	u.clock = c
	return u
}

type CheckoutInput struct {
	Phone   string
	Address string
}

// Commit は注文を確定する。
//  1. カートの中身を取る
//  2. カタログで引き直し、無い商品は捨てる
//  3. 同じ商品をまとめて、今のカタログ価格をスナップショットする
//  4. orders と order_lines を1トランザクションで保存
//  5. 保存できたら、取った分だけカートを消す
func (u *CheckoutUsecase) Commit(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	cp := u.carts.Checkpoint(userID)
	if len(cp.Items) == 0 {
		return OrderOutput{}, ErrEmptyCart
	}

	grouped := cart.Group(cp.Items, u.catalog.ByID)
	if len(grouped) == 0 {
		//全部カタログから消えていた
		return OrderOutput{}, ErrEmptyCart
	}

	lines := make([]model.OrderLine, 0, len(grouped))
	total := decimal.Zero
	for _, g := range grouped {
		lines = append(lines, model.OrderLine{
			ItemID:            g.Item.ID,
			ItemNameSnapshot:  g.Item.Name,
			Quantity:          g.Quantity,
			UnitPriceSnapshot: g.Item.Price,
		})
		total = total.Add(g.Subtotal)
	}

	order := model.Order{
		UserID:    userID,
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Total:     total,
		CreatedAt: u.clock.Now(),
	}

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return &PersistenceError{Op: "create order", Err: err}
		}
		order.ID = orderID

		if err := r.OrderLines().CreateBulk(ctx, orderID, lines); err != nil {
			return &PersistenceError{Op: "create order lines", Err: err}
		}
		return nil
	})
	if err != nil {
		if !IsPersistenceError(err) {
			//commit失敗など
			err = &PersistenceError{Op: "commit", Err: err}
		}
		return OrderOutput{}, err
	}

	u.carts.ClearThrough(cp)

	if u.publisher != nil {
		if perr := u.publisher.PublishOrderPlaced(ctx, order, lines); perr != nil {
			u.log.Warn("order notification failed", "order_id", order.ID, "error", perr)
		}
	}

	return toOrderOutput(order, lines), nil
}
