package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(12000), MinorUnits(decimal.NewFromInt(120)))
	assert.Equal(t, int64(9999), MinorUnits(decimal.RequireFromString("99.99")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}
