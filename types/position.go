package types

import "github.com/shopspring/decimal"

// Position is a single holding. Quantity is always positive: a position that
// reaches zero quantity is removed from the holdings, never kept at zero.
type Position struct {
	Symbol   string
	Quantity int64
	AvgCost  decimal.Decimal
}

// PositionReport is one row of a portfolio valuation. CurrentPrice is zero
// when no quote was available for the symbol.
type PositionReport struct {
	Symbol       string
	Quantity     int64
	AvgCost      decimal.Decimal
	CurrentPrice decimal.Decimal
	MarketValue  decimal.Decimal
	UnrealizedPL decimal.Decimal
}
