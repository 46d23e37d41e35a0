package orderform

import (
	"context"
	"errors"
	"strings"
	"sync"

	"orderbot/internal/usecase"
)

// State はフォームの段階
type State int

const (
	Idle State = iota
	AwaitingPhone
	AwaitingAddress
)

func (s State) String() string {
	switch s {
	case AwaitingPhone:
		return "awaiting_phone"
	case AwaitingAddress:
		return "awaiting_address"
	}
	return "idle"
}

// Session は入力中の注文フォーム。値は作り直すだけで書き換えない。
type Session struct {
	UserID int64
	State  State
	Phone  string
}

// Cart はフォーム開始・確定前に空かどうかを見る
type Cart interface {
	IsEmpty(userID int64) bool
}

// Committer は住所まで揃ったら注文を確定する
type Committer interface {
	Commit(ctx context.Context, userID int64, in usecase.CheckoutInput) (usecase.OrderOutput, error)
}

// Outcome は Receive の結果
type Outcome int

const (
	// セッションが無い（フォーム入力ではない）
	Ignored Outcome = iota
	// 空入力。同じ段階をもう一度聞く
	Reprompt
	// 電話番号を受け取った。次は住所
	AskAddress
	// 注文確定
	Completed
	// カートが空になっていた。セッションは破棄
	Aborted
	// 保存失敗。セッションは住所待ちのまま
	Failed
)

type Result struct {
	Outcome Outcome
	State   State
	Order   usecase.OrderOutput
	Err     error
}

// Machine はユーザーごとの注文フォーム。
// 1ユーザー1セッションで、Begin は既存のセッションを上書きする。
type Machine struct {
	sessions  sync.Map // int64 -> *Session
	cart      Cart
	committer Committer
}

func NewMachine(cart Cart, committer Committer) *Machine {
	return &Machine{cart: cart, committer: committer}
}

// Begin は電話番号待ちから始める。カートが空ならセッションは作らない。
func (m *Machine) Begin(userID int64) error {
	if m.cart.IsEmpty(userID) {
		return usecase.ErrEmptyCart
	}
	m.sessions.Store(userID, &Session{UserID: userID, State: AwaitingPhone})
	return nil
}

func (m *Machine) Session(userID int64) (Session, bool) {
	v, ok := m.sessions.Load(userID)
	if !ok {
		return Session{}, false
	}
	return *v.(*Session), true
}

func (m *Machine) State(userID int64) State {
	s, ok := m.Session(userID)
	if !ok {
		return Idle
	}
	return s.State
}

// Active はフォーム入力中か
func (m *Machine) Active(userID int64) bool {
	return m.State(userID) != Idle
}

// Cancel はセッションを捨てる。あったら true
func (m *Machine) Cancel(userID int64) bool {
	_, ok := m.sessions.LoadAndDelete(userID)
	return ok
}

// Receive はフォームの入力を1つ受け取る
func (m *Machine) Receive(ctx context.Context, userID int64, text string) Result {
	text = strings.TrimSpace(text)

	for {
		v, ok := m.sessions.Load(userID)
		if !ok {
			return Result{Outcome: Ignored, State: Idle}
		}
		cur := v.(*Session)

		if text == "" {
			return Result{Outcome: Reprompt, State: cur.State}
		}

		switch cur.State {
		case AwaitingPhone:
			//形式チェックはしない
			next := &Session{UserID: userID, State: AwaitingAddress, Phone: text}
			if !m.sessions.CompareAndSwap(userID, cur, next) {
				continue
			}
			return Result{Outcome: AskAddress, State: AwaitingAddress}

		case AwaitingAddress:
			return m.complete(ctx, cur, text)

		default:
			m.sessions.CompareAndDelete(userID, cur)
			return Result{Outcome: Ignored, State: Idle}
		}
	}
}

func (m *Machine) complete(ctx context.Context, cur *Session, address string) Result {
	userID := cur.UserID

	//フォーム入力中にカートが消された
	if m.cart.IsEmpty(userID) {
		m.sessions.CompareAndDelete(userID, cur)
		return Result{Outcome: Aborted, State: Idle, Err: usecase.ErrEmptyCart}
	}

	order, err := m.committer.Commit(ctx, userID, usecase.CheckoutInput{Phone: cur.Phone, Address: address})
	if errors.Is(err, usecase.ErrEmptyCart) {
		m.sessions.CompareAndDelete(userID, cur)
		return Result{Outcome: Aborted, State: Idle, Err: err}
	}
	if err != nil {
		//住所をもう一度送ればやり直せる
		return Result{Outcome: Failed, State: AwaitingAddress, Err: err}
	}

	m.sessions.CompareAndDelete(userID, cur)
	return Result{Outcome: Completed, State: Idle, Order: order}
}
