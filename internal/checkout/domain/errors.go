package domain

import (
	"errors"
	"fmt"
)

// Input errors: rejected before any external call, no side effects.
var ErrEmptyCart = errors.New("cart is empty")
var ErrInvalidAmount = errors.New("amount must be positive")

// Dependency errors: the attempt may be retried with the same payment
// reference, no second charge is created.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")
var ErrPersistence = errors.New("order store unavailable")

// ProductNotFoundError aborts a whole quote: a cart line references a
// product that has been removed from the catalog. The caller must refresh
// the cart; no partial quote is returned.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type InvalidQuantityError struct {
	ProductID int64
	Qty       int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", e.Qty, e.ProductID)
}

// PaymentVerificationError means the referenced intent does not prove the
// freshly computed total was paid. Retrying with a new charge would risk
// billing the buyer twice; the same intent id must be investigated instead.
type PaymentVerificationError struct {
	IntentID string
	Reason   string
}

func (e *PaymentVerificationError) Error() string {
	return fmt.Sprintf("payment verification failed for intent %s: %s", e.IntentID, e.Reason)
}

// Retryable reports whether the failure is a dependency outage that the
// caller may retry with the same payment reference.
func Retryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable) || errors.Is(err, ErrPersistence)
}
