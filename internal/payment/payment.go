package payment

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnavailable marks transport-level gateway failures. They are retryable;
// the caller must reuse the same intent rather than create a new charge.
var ErrUnavailable = errors.New("gateway unreachable")

const StatusSucceeded = "succeeded"

// Intent is the service-side view of a gateway payment intent. The client
// secret is only present right after creation and is handed to the buyer's
// device for confirmation; the server never sees card data.
type Intent struct {
	ID           string
	ClientSecret string
	AmountMinor  int64
	Status       string
}

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a major-unit amount to the gateway's minor unit
// (cents). This is the single place the x100 conversion happens; applying it
// anywhere else risks double conversion.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
