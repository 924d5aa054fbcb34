package engine

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"papertrade/types"
)

var InvalidOrderErr = errors.New("order quantity and price must be positive")
var InsufficientFundsErr = errors.New("insufficient funds to cover buy")
var InsufficientSharesErr = errors.New("insufficient shares to cover sell")

// QuoteFunc fetches a fresh quote for a symbol. Implementations return an
// error when no quote is available; callers decide whether that is fatal.
type QuoteFunc func(symbol string) (types.Quote, error)

// Ledger owns the cash balance and the holdings. A failed execution leaves
// both untouched.
type Ledger struct {
	balance  decimal.Decimal
	holdings map[string]*types.Position
	starting decimal.Decimal
}

func NewLedger(startingBalance decimal.Decimal) *Ledger {
	return &Ledger{
		balance:  startingBalance,
		holdings: make(map[string]*types.Position),
		starting: startingBalance,
	}
}

// RestoreLedger rebuilds a ledger from persisted state.
func RestoreLedger(startingBalance, balance decimal.Decimal, holdings map[string]types.Position) *Ledger {
	l := NewLedger(startingBalance)
	l.balance = balance
	for sym, pos := range holdings {
		p := pos
		l.holdings[sym] = &p
	}
	return l
}

func (l *Ledger) Balance() decimal.Decimal {
	return l.balance
}

func (l *Ledger) Position(symbol string) (types.Position, bool) {
	pos, ok := l.holdings[symbol]
	if !ok {
		return types.Position{}, false
	}
	return *pos, true
}

// Holdings returns a copy of the current positions keyed by symbol.
func (l *Ledger) Holdings() map[string]types.Position {
	out := make(map[string]types.Position, len(l.holdings))
	for sym, pos := range l.holdings {
		out[sym] = *pos
	}
	return out
}

// ExecuteBuy settles a buy fill: debits quantity*price from the balance and
// folds the fill into the position's volume-weighted average cost.
func (l *Ledger) ExecuteBuy(symbol string, quantity int64, price decimal.Decimal) error {
	if quantity <= 0 || !price.IsPositive() {
		return InvalidOrderErr
	}
	qty := decimal.NewFromInt(quantity)
	cost := price.Mul(qty)
	if cost.GreaterThan(l.balance) {
		return InsufficientFundsErr
	}

	pos := l.holdings[symbol]
	if pos == nil {
		pos = &types.Position{Symbol: symbol}
		l.holdings[symbol] = pos
	}
	oldQty := decimal.NewFromInt(pos.Quantity)
	pos.AvgCost = weightedAvg(pos.AvgCost, oldQty, price, qty)
	pos.Quantity += quantity
	l.balance = l.balance.Sub(cost)
	return nil
}

// ExecuteSell settles a sell fill: credits quantity*price to the balance and
// reduces the position. Selling the full quantity deletes the position; the
// average cost of any remaining quantity is unchanged.
func (l *Ledger) ExecuteSell(symbol string, quantity int64, price decimal.Decimal) error {
	if quantity <= 0 || !price.IsPositive() {
		return InvalidOrderErr
	}
	pos := l.holdings[symbol]
	if pos == nil || pos.Quantity < quantity {
		return InsufficientSharesErr
	}

	pos.Quantity -= quantity
	if pos.Quantity == 0 {
		delete(l.holdings, symbol)
	}
	l.balance = l.balance.Add(price.Mul(decimal.NewFromInt(quantity)))
	return nil
}

// Valuation prices every holding through lookup and reports market value and
// unrealized P/L per position, ordered by symbol. A failed lookup prices the
// position at zero instead of failing the report.
func (l *Ledger) Valuation(lookup QuoteFunc) []types.PositionReport {
	reports := make([]types.PositionReport, 0, len(l.holdings))
	for sym, pos := range l.holdings {
		current := decimal.Zero
		if q, err := lookup(sym); err == nil && q.HasPrice() {
			current = q.LastPrice
		}
		qty := decimal.NewFromInt(pos.Quantity)
		reports = append(reports, types.PositionReport{
			Symbol:       sym,
			Quantity:     pos.Quantity,
			AvgCost:      pos.AvgCost,
			CurrentPrice: current,
			MarketValue:  current.Mul(qty),
			UnrealizedPL: current.Sub(pos.AvgCost).Mul(qty),
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Symbol < reports[j].Symbol })
	return reports
}

// Reset empties the holdings and restores the starting balance.
func (l *Ledger) Reset() {
	l.balance = l.starting
	l.holdings = make(map[string]*types.Position)
}

func weightedAvg(existingAvgPrice, existingQty, newPrice, newQty decimal.Decimal) decimal.Decimal {
	if existingQty.IsZero() {
		return newPrice
	}
	return existingAvgPrice.Mul(existingQty).
		Add(newPrice.Mul(newQty)).
		Div(existingQty.Add(newQty))
}
