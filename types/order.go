package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingOrder is a limit order waiting for its price condition to be met.
// Orders are evaluated in the order they were placed.
type PendingOrder struct {
	ID         int64
	Symbol     string
	Side       Side
	Quantity   int64
	LimitPrice decimal.Decimal
	PlacedAt   time.Time
}

// LimitValue is the order's notional at its limit price.
func (o PendingOrder) LimitValue() decimal.Decimal {
	return o.LimitPrice.Mul(decimal.NewFromInt(o.Quantity))
}
