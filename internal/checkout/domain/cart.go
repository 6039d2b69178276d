package domain

import "github.com/shopspring/decimal"

// CartLine is the client-proposed cart entry. Only the product id and the
// requested quantity are trusted; any price the client sends never reaches
// this type.
type CartLine struct {
	ProductID int64 `json:"productId"`
	Qty       int   `json:"qty"`
}

// PricedLine is a server-computed line, derived fresh from the catalog on
// every checkout attempt. Once embedded in an order it is a frozen snapshot:
// later catalog price changes do not alter it.
type PricedLine struct {
	ProductID int64           `json:"productId"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Quote struct {
	Lines    []PricedLine    `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}
