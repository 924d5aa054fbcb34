package types

import "github.com/shopspring/decimal"

// DefaultStartingBalance is the free cash a fresh ledger starts with, and the
// amount a reset restores.
var DefaultStartingBalance = decimal.NewFromInt(1_000_000)

// LedgerSnapshot is the complete persisted state of a trading session: free
// cash, holdings keyed by symbol, pending limit orders in placement order,
// and the next order ID so IDs stay unique across restarts.
type LedgerSnapshot struct {
	Balance     decimal.Decimal
	Holdings    map[string]Position
	Orders      []PendingOrder
	NextOrderID int64
}

// NewLedgerSnapshot returns the state of a session that has never traded.
func NewLedgerSnapshot(startingBalance decimal.Decimal) LedgerSnapshot {
	return LedgerSnapshot{
		Balance:     startingBalance,
		Holdings:    make(map[string]Position),
		NextOrderID: 1,
	}
}
