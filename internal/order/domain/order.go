package domain

import (
	"errors"
	"time"

	checkout "github.com/avrele/storefront/internal/checkout/domain"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Order is the durable record that a purchase happened. Lines are a frozen
// snapshot of the re-priced cart; the store serializes them as JSON so later
// catalog edits cannot rewrite history. Immutable after creation except for
// the status transition pending -> confirmed -> failed.
type Order struct {
	ID              string                `json:"id"`
	BuyerID         string                `json:"buyerId"`
	Lines           []checkout.PricedLine `json:"lines"`
	Total           decimal.Decimal       `json:"totalAmount"`
	Status          Status                `json:"status"`
	PaymentIntentID string                `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}
