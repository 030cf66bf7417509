package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrConflict          = errors.New("order state conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidTenant     = errors.New("invalid tenant")
	ErrInvalidTable      = errors.New("table does not belong to tenant")
	ErrTooManyItems      = fmt.Errorf("too many items (max %d)", MaxItems)
	ErrInvalidItem       = errors.New("invalid item")
)

// TransitionError reports the rejected edge so staff UIs can say
// "cannot move ready -> preparing".
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
