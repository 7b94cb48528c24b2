package inventory

import (
	"errors"
	"fmt"

	"canteen-api/models"
)

var (
	// ErrOrderNotFound means the order id resolved to nothing.
	ErrOrderNotFound = errors.New("order not found")
	// ErrForbidden means the requesting user does not own the order.
	ErrForbidden = errors.New("order does not belong to the requesting user")
	// ErrNoFields means an edit request carried nothing to change.
	ErrNoFields = errors.New("no valid fields to update")
)

// NotPendingError rejects stock-affecting operations on an order that
// already left Pending. It carries the current status for diagnostics.
type NotPendingError struct {
	Status models.OrderStatus
}

func (e *NotPendingError) Error() string {
	return fmt.Sprintf("only orders with 'Pending' status can be modified. Current status: %s", e.Status)
}

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InvalidTransitionError rejects a status change the state machine
// does not allow.
type InvalidTransitionError struct {
	From   models.OrderStatus
	To     models.OrderStatus
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return e.Reason
}
