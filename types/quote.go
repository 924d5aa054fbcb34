package types

import "github.com/shopspring/decimal"

// Quote is a point-in-time snapshot of a symbol's market data.
type Quote struct {
	Symbol        string
	Name          string
	LastPrice     decimal.Decimal
	PreviousClose decimal.Decimal
	DayHigh       decimal.Decimal
	DayLow        decimal.Decimal
	Week52High    decimal.Decimal
	Week52Low     decimal.Decimal
}

// HasPrice reports whether the quote carries a usable last traded price.
func (q Quote) HasPrice() bool {
	return q.LastPrice.IsPositive()
}

// IndexSummary is a market index overview row: last price with absolute and
// percentage change against the previous close.
type IndexSummary struct {
	Name      string
	Symbol    string
	Price     decimal.Decimal
	Change    decimal.Decimal
	ChangePct decimal.Decimal
	Available bool
}
