package domain

import (
	checkout "github.com/avrele/storefront/internal/checkout/domain"
	"github.com/shopspring/decimal"
)

const EventOrderConfirmed = "OrderConfirmed"

// OrderConfirmed is written to the outbox in the same transaction as the
// order row. The notify worker consumes it to send the buyer confirmation.
type OrderConfirmed struct {
	OrderID    string                `json:"orderId"`
	BuyerID    string                `json:"buyerId"`
	BuyerEmail string                `json:"buyerEmail,omitempty"`
	BuyerPhone string                `json:"buyerPhone,omitempty"`
	Total      decimal.Decimal       `json:"total"`
	Lines      []checkout.PricedLine `json:"lines"`
}
