package usecase_test

import (
	"context"
	"time"

	"orderbot/internal/domain/model"
	repo "orderbot/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderLines repo.OrderLineRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderLines() repo.OrderLineRepository { return r.orderLines }

// トランザクションで触るのは注文と明細だけ
var _ repo.TxRepos = (*TxReposMock)(nil)

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderLineRepoMock struct{ mock.Mock }

func (m *OrderLineRepoMock) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error {
	args := m.Called(ctx, orderID, lines)
	return args.Error(0)
}

func (m *OrderLineRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

func (m *OrderLineRepoMock) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderLine, error) {
	args := m.Called(ctx, orderIDs)
	lines, _ := args.Get(0).(map[int64][]model.OrderLine)
	return lines, args.Error(1)
}

type CatalogItemRepoMock struct{ mock.Mock }

func (m *CatalogItemRepoMock) UpsertAll(ctx context.Context, items []model.CatalogItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *CatalogItemRepoMock) List(ctx context.Context) ([]model.CatalogItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.CatalogItem)
	return items, args.Error(1)
}

func (m *CatalogItemRepoMock) FindByID(ctx context.Context, id int64) (model.CatalogItem, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(model.CatalogItem)
	return it, args.Error(1)
}

// =====================
// その他
// =====================

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderPlaced(ctx context.Context, order model.Order, lines []model.OrderLine) error {
	args := m.Called(ctx, order, lines)
	return args.Error(0)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
