package engine

import (
	"context"
	"errors"
	"testing"

	"papertrade/internal/quote"
	"papertrade/internal/store"
	"papertrade/types"
)

func quotesAt(prices map[string]string) quote.Static {
	src := make(quote.Static, len(prices))
	for sym, p := range prices {
		src[sym] = types.Quote{Symbol: sym, LastPrice: dec(p)}
	}
	return src
}

func newTestSession(t *testing.T, st store.Store, prices map[string]string) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), st, quotesAt(prices), dec("1000000"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSessionMarketOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newTestSession(t, st, map[string]string{"TCS.BO": "100"})

	placement, err := s.PlaceOrder(ctx, "TCS.BO", types.SideTypeBuy, 10, types.TypeMarket, dec("0"))
	if err != nil {
		t.Fatal(err)
	}
	if placement.Status != types.OrderExecuted || !placement.FillPrice.Equal(dec("100")) {
		t.Fatalf("placement = %+v", placement)
	}
	if !s.Balance().Equal(dec("999000")) {
		t.Errorf("balance = %s, want 999000", s.Balance())
	}

	// a fresh session over the same store resumes the persisted state
	resumed := newTestSession(t, st, map[string]string{"TCS.BO": "100"})
	if !resumed.Balance().Equal(dec("999000")) {
		t.Errorf("resumed balance = %s, want 999000", resumed.Balance())
	}
	pos, ok := resumed.Position("TCS.BO")
	if !ok || pos.Quantity != 10 || !pos.AvgCost.Equal(dec("100")) {
		t.Errorf("resumed position = %+v, ok = %v", pos, ok)
	}

	if _, err := resumed.PlaceOrder(ctx, "TCS.BO", types.SideTypeSell, 10, types.TypeMarket, dec("0")); err != nil {
		t.Fatal(err)
	}
	if !resumed.Balance().Equal(dec("1000000")) {
		t.Errorf("balance after round trip = %s, want 1000000", resumed.Balance())
	}
}

func TestSessionMarketOrderWithoutQuote(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, store.NewMemoryStore(), nil)

	_, err := s.PlaceOrder(ctx, "TCS.BO", types.SideTypeBuy, 10, types.TypeMarket, dec("0"))
	if !errors.Is(err, QuoteUnavailableErr) {
		t.Fatalf("error = %v, want QuoteUnavailableErr", err)
	}
	if !s.Balance().Equal(dec("1000000")) {
		t.Errorf("failed order must not move the balance, got %s", s.Balance())
	}
}

func TestSessionLimitOrderSettles(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newTestSession(t, st, map[string]string{"TCS.BO": "95"})

	placement, err := s.PlaceOrder(ctx, "TCS.BO", types.SideTypeBuy, 10, types.TypeLimit, dec("100"))
	if err != nil {
		t.Fatal(err)
	}
	if placement.Status != types.OrderPending || placement.Order.ID != 1 {
		t.Fatalf("placement = %+v", placement)
	}
	if len(s.Pending()) != 1 {
		t.Fatalf("pending = %d, want 1", len(s.Pending()))
	}

	report, err := s.Settle(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Executed) != 1 || !report.Executed[0].FillPrice.Equal(dec("95")) {
		t.Fatalf("report = %+v", report)
	}
	if !s.Balance().Equal(dec("999050")) {
		t.Errorf("balance = %s, want 999050", s.Balance())
	}

	// the settled state is what a restart sees
	resumed := newTestSession(t, st, nil)
	if len(resumed.Pending()) != 0 {
		t.Errorf("settled order resurfaced after resume: %v", resumed.Pending())
	}
	if _, ok := resumed.Position("TCS.BO"); !ok {
		t.Errorf("position missing after resume")
	}
}

func TestSessionCancel(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newTestSession(t, st, nil)

	placement, err := s.PlaceOrder(ctx, "TCS.BO", types.SideTypeBuy, 10, types.TypeLimit, dec("100"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Cancel(ctx, placement.Order.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Pending()) != 0 {
		t.Errorf("pending = %v, want empty", s.Pending())
	}
	if _, err := s.Cancel(ctx, placement.Order.ID); !errors.Is(err, OrderNotFoundErr) {
		t.Errorf("error = %v, want OrderNotFoundErr", err)
	}

	resumed := newTestSession(t, st, nil)
	if len(resumed.Pending()) != 0 {
		t.Errorf("cancelled order resurfaced after resume: %v", resumed.Pending())
	}
}

func TestSessionReset(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newTestSession(t, st, map[string]string{"TCS.BO": "100"})

	if _, err := s.PlaceOrder(ctx, "TCS.BO", types.SideTypeBuy, 10, types.TypeMarket, dec("0")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlaceOrder(ctx, "TCS.BO", types.SideTypeSell, 5, types.TypeLimit, dec("150")); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if !s.Balance().Equal(dec("1000000")) {
		t.Errorf("balance = %s, want 1000000", s.Balance())
	}
	if len(s.Pending()) != 0 {
		t.Errorf("pending = %v, want empty", s.Pending())
	}

	if _, err := st.Load(ctx); !errors.Is(err, store.ErrNoSnapshot) {
		t.Errorf("Load() error = %v, want ErrNoSnapshot", err)
	}
}

type brokenStore struct {
	store.Store
	err error
}

func (s brokenStore) Save(context.Context, types.LedgerSnapshot) error { return s.err }

func TestSessionSaveFailure(t *testing.T) {
	ctx := context.Background()
	st := brokenStore{Store: store.NewMemoryStore(), err: errors.New("disk gone")}
	s, err := NewSession(ctx, st, quotesAt(map[string]string{"TCS.BO": "100"}), dec("1000000"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.PlaceOrder(ctx, "TCS.BO", types.SideTypeBuy, 10, types.TypeMarket, dec("0"))
	if !errors.Is(err, PersistenceErr) {
		t.Fatalf("error = %v, want PersistenceErr", err)
	}
}
