package custom_error

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing entity (request, product, location).
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidState signals a transition attempted on a request that is
	// no longer pending. Retried approvals land here instead of deducting
	// stock a second time.
	ErrInvalidState = errors.New("request is not in a pending state")

	// ErrConcurrencyConflict signals an aborted conditional write after the
	// internal retry budget was exhausted. Callers may retry.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// ValidationError reports a missing or malformed field on a caller request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientStockError reports an adjustment that would drive a quantity
// negative. It carries the offending product so the caller can explain
// which line item blocked the approval.
type InsufficientStockError struct {
	ProductID  int
	LocationID int // 0 for aggregate adjustments
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	if e.LocationID != 0 {
		return fmt.Sprintf("insufficient stock for product %d at location %d: requested %d, available %d",
			e.ProductID, e.LocationID, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
