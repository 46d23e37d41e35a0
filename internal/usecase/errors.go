package usecase

import (
	"errors"
	"fmt"
)

var (
	// カートが空（注文開始・確定とも）
	ErrEmptyCart = errors.New("cart is empty")

	// カタログに無い商品が指定された
	ErrUnknownItem = errors.New("unknown catalog item")
)

// 保存に失敗した（カートは消さない・注文は残らない）
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// 読み取りAPI用
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
