package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade/internal/store"
	"papertrade/types"
)

var QuoteUnavailableErr = errors.New("no live price available for symbol")
var PersistenceErr = errors.New("persistence failure")

// QuoteSource fetches live quotes. The error return marks unavailability;
// callers choose whether to fail, skip or keep waiting.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (types.Quote, error)
}

// Placement is the immediate outcome of placing an order: a market order
// executes right away at the live price, a limit order goes on the book.
type Placement struct {
	Status    types.OrderStatus
	Symbol    string
	Side      types.Side
	Quantity  int64
	Order     types.PendingOrder // set when Status is OrderPending
	FillPrice decimal.Decimal    // set when Status is OrderExecuted
}

// Session composes the ledger and the order book behind the operations an
// interactive caller invokes. Every mutating operation persists the complete
// snapshot before returning, so the store is never left mid-trade.
type Session struct {
	ledger *Ledger
	book   *Book
	store  store.Store
	quotes QuoteSource
}

// NewSession loads the persisted snapshot, or starts fresh with the given
// starting balance when none exists.
func NewSession(ctx context.Context, st store.Store, quotes QuoteSource, startingBalance decimal.Decimal) (*Session, error) {
	snap, err := st.Load(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		snap = types.NewLedgerSnapshot(startingBalance)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", PersistenceErr, err)
	}
	return &Session{
		ledger: RestoreLedger(startingBalance, snap.Balance, snap.Holdings),
		book:   RestoreBook(snap.NextOrderID, snap.Orders),
		store:  st,
		quotes: quotes,
	}, nil
}

// PlaceOrder dispatches a market order to an immediate ledger execution at
// the current quote, or appends a limit order to the book.
func (s *Session) PlaceOrder(ctx context.Context, symbol string, side types.Side, quantity int64, orderType types.OrderType, limitPrice decimal.Decimal) (Placement, error) {
	switch orderType {
	case types.TypeMarket:
		return s.placeMarket(ctx, symbol, side, quantity)
	case types.TypeLimit:
		return s.placeLimit(ctx, symbol, side, quantity, limitPrice)
	default:
		return Placement{}, InvalidOrderErr
	}
}

func (s *Session) placeMarket(ctx context.Context, symbol string, side types.Side, quantity int64) (Placement, error) {
	quote, err := s.quotes.Quote(ctx, symbol)
	if err != nil || !quote.HasPrice() {
		return Placement{}, fmt.Errorf("%w: %s", QuoteUnavailableErr, symbol)
	}

	switch side {
	case types.SideTypeBuy:
		err = s.ledger.ExecuteBuy(symbol, quantity, quote.LastPrice)
	case types.SideTypeSell:
		err = s.ledger.ExecuteSell(symbol, quantity, quote.LastPrice)
	default:
		err = InvalidOrderErr
	}
	if err != nil {
		return Placement{}, err
	}
	if err := s.persist(ctx); err != nil {
		return Placement{}, err
	}
	return Placement{
		Status:    types.OrderExecuted,
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		FillPrice: quote.LastPrice,
	}, nil
}

func (s *Session) placeLimit(ctx context.Context, symbol string, side types.Side, quantity int64, limitPrice decimal.Decimal) (Placement, error) {
	order, err := s.book.Submit(symbol, side, quantity, limitPrice)
	if err != nil {
		return Placement{}, err
	}
	if err := s.persist(ctx); err != nil {
		return Placement{}, err
	}
	return Placement{
		Status:   types.OrderPending,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Order:    order,
	}, nil
}

// Cancel removes a pending limit order by ID.
func (s *Session) Cancel(ctx context.Context, id int64) (types.PendingOrder, error) {
	order, err := s.book.Cancel(id)
	if err != nil {
		return types.PendingOrder{}, err
	}
	if err := s.persist(ctx); err != nil {
		return types.PendingOrder{}, err
	}
	return order, nil
}

// Settle runs one settlement sweep over all pending orders and persists the
// resulting state.
func (s *Session) Settle(ctx context.Context) (SettlementReport, error) {
	report := s.book.Settle(s.lookup(ctx), s.ledger)
	if err := s.persist(ctx); err != nil {
		return report, err
	}
	return report, nil
}

// Reset restores the starting balance, empties holdings and pending orders,
// and removes the persisted snapshot.
func (s *Session) Reset(ctx context.Context) error {
	s.ledger.Reset()
	s.book.Reset()
	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("%w: %v", PersistenceErr, err)
	}
	return nil
}

func (s *Session) Balance() decimal.Decimal {
	return s.ledger.Balance()
}

func (s *Session) Position(symbol string) (types.Position, bool) {
	return s.ledger.Position(symbol)
}

func (s *Session) Pending() []types.PendingOrder {
	return s.book.Pending()
}

// Valuation prices current holdings with live quotes.
func (s *Session) Valuation(ctx context.Context) []types.PositionReport {
	return s.ledger.Valuation(s.lookup(ctx))
}

func (s *Session) lookup(ctx context.Context) QuoteFunc {
	return func(symbol string) (types.Quote, error) {
		return s.quotes.Quote(ctx, symbol)
	}
}

func (s *Session) snapshot() types.LedgerSnapshot {
	return types.LedgerSnapshot{
		Balance:     s.ledger.Balance(),
		Holdings:    s.ledger.Holdings(),
		Orders:      s.book.Pending(),
		NextOrderID: s.book.NextOrderID(),
	}
}

func (s *Session) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.snapshot()); err != nil {
		return fmt.Errorf("%w: %v", PersistenceErr, err)
	}
	return nil
}
