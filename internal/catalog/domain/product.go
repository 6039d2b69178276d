package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a product id does not exist in the catalog.
var ErrNotFound = errors.New("product not found")

// Product is the authoritative catalog record. Price and Inventory are only
// ever read from here during checkout, never from client input.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Inventory   int             `json:"inventory"`
	Image       string          `json:"image,omitempty"`
}
