package orderform_test

import (
	"context"
	"errors"
	"testing"

	"orderbot/internal/cart"
	"orderbot/internal/orderform"
	"orderbot/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type CommitterMock struct{ mock.Mock }

func (m *CommitterMock) Commit(ctx context.Context, userID int64, in usecase.CheckoutInput) (usecase.OrderOutput, error) {
	args := m.Called(ctx, userID, in)
	out, _ := args.Get(0).(usecase.OrderOutput)
	return out, args.Error(1)
}

func newMachine() (*orderform.Machine, *cart.Registry, *CommitterMock) {
	carts := cart.NewRegistry()
	c := new(CommitterMock)
	return orderform.NewMachine(carts, c), carts, c
}

func TestBegin_EmptyCartCreatesNoSession(t *testing.T) {
	m, _, _ := newMachine()

	err := m.Begin(1)
	assert.ErrorIs(t, err, usecase.ErrEmptyCart)
	assert.Equal(t, orderform.Idle, m.State(1))
	_, ok := m.Session(1)
	assert.False(t, ok)
}

func TestHappyPath(t *testing.T) {
	m, carts, c := newMachine()
	ctx := context.Background()
	carts.Add(1, 1)

	require.NoError(t, m.Begin(1))
	assert.Equal(t, orderform.AwaitingPhone, m.State(1))

	res := m.Receive(ctx, 1, "  +1 555 0100 ")
	assert.Equal(t, orderform.AskAddress, res.Outcome)
	s, ok := m.Session(1)
	require.True(t, ok)
	assert.Equal(t, orderform.AwaitingAddress, s.State)
	assert.Equal(t, "+1 555 0100", s.Phone)

	c.On("Commit", ctx, int64(1), usecase.CheckoutInput{Phone: "+1 555 0100", Address: "221B Baker St"}).
		Return(usecase.OrderOutput{ID: 10}, nil).Once()

	res = m.Receive(ctx, 1, "221B Baker St")
	assert.Equal(t, orderform.Completed, res.Outcome)
	assert.Equal(t, int64(10), res.Order.ID)
	assert.Equal(t, orderform.Idle, m.State(1))
	c.AssertExpectations(t)
}

func TestReceive_NoSession(t *testing.T) {
	m, _, _ := newMachine()
	res := m.Receive(context.Background(), 1, "hello")
	assert.Equal(t, orderform.Ignored, res.Outcome)
}

func TestReceive_BlankInputReprompts(t *testing.T) {
	m, carts, _ := newMachine()
	carts.Add(1, 1)
	require.NoError(t, m.Begin(1))

	res := m.Receive(context.Background(), 1, "   ")
	assert.Equal(t, orderform.Reprompt, res.Outcome)
	assert.Equal(t, orderform.AwaitingPhone, res.State)
	assert.Equal(t, orderform.AwaitingPhone, m.State(1))
}

func TestBegin_OverwritesExistingSession(t *testing.T) {
	m, carts, _ := newMachine()
	carts.Add(1, 1)
	require.NoError(t, m.Begin(1))
	m.Receive(context.Background(), 1, "123")
	require.Equal(t, orderform.AwaitingAddress, m.State(1))

	require.NoError(t, m.Begin(1))
	s, _ := m.Session(1)
	assert.Equal(t, orderform.AwaitingPhone, s.State)
	assert.Empty(t, s.Phone)
}

func TestReceive_CartClearedDuringForm(t *testing.T) {
	m, carts, c := newMachine()
	ctx := context.Background()
	carts.Add(1, 1)
	require.NoError(t, m.Begin(1))
	m.Receive(ctx, 1, "123")

	carts.Clear(1)

	res := m.Receive(ctx, 1, "addr")
	assert.Equal(t, orderform.Aborted, res.Outcome)
	assert.ErrorIs(t, res.Err, usecase.ErrEmptyCart)
	assert.Equal(t, orderform.Idle, m.State(1))
	c.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceive_CommitEmptyCartAborts(t *testing.T) {
	m, carts, c := newMachine()
	ctx := context.Background()
	carts.Add(1, 404)
	require.NoError(t, m.Begin(1))
	m.Receive(ctx, 1, "123")

	c.On("Commit", ctx, int64(1), mock.Anything).Return(nil, usecase.ErrEmptyCart)

	res := m.Receive(ctx, 1, "addr")
	assert.Equal(t, orderform.Aborted, res.Outcome)
	assert.Equal(t, orderform.Idle, m.State(1))
}

func TestReceive_PersistenceFailureKeepsSession(t *testing.T) {
	m, carts, c := newMachine()
	ctx := context.Background()
	carts.Add(1, 1)
	require.NoError(t, m.Begin(1))
	m.Receive(ctx, 1, "123")

	c.On("Commit", ctx, int64(1), mock.Anything).
		Return(nil, &usecase.PersistenceError{Op: "create order", Err: errors.New("down")}).Once()

	res := m.Receive(ctx, 1, "addr")
	assert.Equal(t, orderform.Failed, res.Outcome)
	assert.True(t, usecase.IsPersistenceError(res.Err))
	assert.Equal(t, orderform.AwaitingAddress, m.State(1))

	// 同じ住所を送り直すとやり直せる
	c.On("Commit", ctx, int64(1), usecase.CheckoutInput{Phone: "123", Address: "addr"}).
		Return(usecase.OrderOutput{ID: 2}, nil).Once()
	res = m.Receive(ctx, 1, "addr")
	assert.Equal(t, orderform.Completed, res.Outcome)
	assert.Equal(t, orderform.Idle, m.State(1))
}

func TestCancel(t *testing.T) {
	m, carts, _ := newMachine()
	carts.Add(1, 1)
	require.NoError(t, m.Begin(1))

	assert.True(t, m.Cancel(1))
	assert.False(t, m.Active(1))
	assert.False(t, m.Cancel(1))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", orderform.Idle.String())
	assert.Equal(t, "awaiting_phone", orderform.AwaitingPhone.String())
	assert.Equal(t, "awaiting_address", orderform.AwaitingAddress.String())
}
