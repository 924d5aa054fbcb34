package engine

import (
	"errors"
	"time"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

var OrderNotFoundErr = errors.New("no pending order with that id")

// Execution is one order filled during a settlement sweep, together with the
// observed market price it filled at.
type Execution struct {
	Order     types.PendingOrder
	FillPrice decimal.Decimal
}

// SettlementReport is the outcome of one sweep over the book.
type SettlementReport struct {
	Executed []Execution
	Pending  []types.PendingOrder
}

// Book holds pending limit orders keyed by ID, insertion-ordered so that a
// sweep evaluates orders in the sequence they were placed. Two orders
// competing for the same scarce balance therefore settle predictably.
type Book struct {
	orders *linkedhashmap.Map
	nextID int64
}

func NewBook() *Book {
	return &Book{orders: linkedhashmap.New(), nextID: 1}
}

// RestoreBook rebuilds a book from persisted state, preserving order.
func RestoreBook(nextID int64, orders []types.PendingOrder) *Book {
	b := NewBook()
	if nextID > 0 {
		b.nextID = nextID
	}
	for _, o := range orders {
		ord := o
		b.orders.Put(ord.ID, &ord)
		if ord.ID >= b.nextID {
			b.nextID = ord.ID + 1
		}
	}
	return b
}

// Submit appends a limit order. Affordability and holdings are deliberately
// not checked here: the condition may only become satisfiable later, so both
// are verified lazily at settlement time.
func (b *Book) Submit(symbol string, side types.Side, quantity int64, limitPrice decimal.Decimal) (types.PendingOrder, error) {
	if quantity <= 0 || !limitPrice.IsPositive() {
		return types.PendingOrder{}, InvalidOrderErr
	}
	if side != types.SideTypeBuy && side != types.SideTypeSell {
		return types.PendingOrder{}, InvalidOrderErr
	}
	order := types.PendingOrder{
		ID:         b.nextID,
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		LimitPrice: limitPrice,
		PlacedAt:   time.Now(),
	}
	b.nextID++
	b.orders.Put(order.ID, &order)
	return order, nil
}

// Cancel removes a pending order by ID and returns it.
func (b *Book) Cancel(id int64) (types.PendingOrder, error) {
	v, ok := b.orders.Get(id)
	if !ok {
		return types.PendingOrder{}, OrderNotFoundErr
	}
	b.orders.Remove(id)
	return *v.(*types.PendingOrder), nil
}

func (b *Book) Len() int {
	return b.orders.Size()
}

// Pending returns the orders still waiting, in placement order.
func (b *Book) Pending() []types.PendingOrder {
	return lo.Map(b.orders.Values(), func(v interface{}, _ int) types.PendingOrder {
		return *v.(*types.PendingOrder)
	})
}

// NextOrderID exposes the ID counter for persistence.
func (b *Book) NextOrderID() int64 {
	return b.nextID
}

// Settle sweeps the whole book once. For each order it fetches a fresh quote
// and checks the trigger: a buy triggers when the live price is at or below
// the limit, a sell when it is at or above. Triggered orders fill at the
// observed live price, not the limit price. An order stays pending when its
// quote is unavailable, its condition is unmet, or the ledger rejects the
// execution (condition met but not yet fundable). A failure on one order
// never aborts evaluation of the rest.
func (b *Book) Settle(lookup QuoteFunc, ledger *Ledger) SettlementReport {
	var report SettlementReport
	surviving := linkedhashmap.New()

	it := b.orders.Iterator()
	for it.Next() {
		order := it.Value().(*types.PendingOrder)

		quote, err := lookup(order.Symbol)
		if err != nil || !quote.HasPrice() {
			surviving.Put(order.ID, order)
			continue
		}
		live := quote.LastPrice

		triggered := (order.Side == types.SideTypeBuy && live.LessThanOrEqual(order.LimitPrice)) ||
			(order.Side == types.SideTypeSell && live.GreaterThanOrEqual(order.LimitPrice))
		if !triggered {
			surviving.Put(order.ID, order)
			continue
		}

		var execErr error
		if order.Side == types.SideTypeBuy {
			execErr = ledger.ExecuteBuy(order.Symbol, order.Quantity, live)
		} else {
			execErr = ledger.ExecuteSell(order.Symbol, order.Quantity, live)
		}
		if execErr != nil {
			surviving.Put(order.ID, order)
			continue
		}
		report.Executed = append(report.Executed, Execution{Order: *order, FillPrice: live})
	}

	b.orders = surviving
	report.Pending = b.Pending()
	return report
}

// Reset drops every pending order. The ID counter is not rewound, so IDs of
// previously settled orders are never reused within a process.
func (b *Book) Reset() {
	b.orders = linkedhashmap.New()
}
