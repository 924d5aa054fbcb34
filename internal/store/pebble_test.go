package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSnapshot() types.LedgerSnapshot {
	placed := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	return types.LedgerSnapshot{
		Balance: dec("998400.50"),
		Holdings: map[string]types.Position{
			"TCS.BO":  {Symbol: "TCS.BO", Quantity: 15, AvgCost: dec("106.666667")},
			"INFY.BO": {Symbol: "INFY.BO", Quantity: 2, AvgCost: dec("1500")},
		},
		Orders: []types.PendingOrder{
			{ID: 4, Symbol: "SBIN.BO", Side: types.SideTypeBuy, Quantity: 10, LimitPrice: dec("600"), PlacedAt: placed},
			{ID: 6, Symbol: "TCS.BO", Side: types.SideTypeSell, Quantity: 5, LimitPrice: dec("120"), PlacedAt: placed},
		},
		NextOrderID: 7,
	}
}

func newPebble(t *testing.T) *PebbleStore {
	t.Helper()
	st, err := NewPebbleStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func checkSnapshot(t *testing.T, got, want types.LedgerSnapshot) {
	t.Helper()
	if !got.Balance.Equal(want.Balance) {
		t.Errorf("balance = %s, want %s", got.Balance, want.Balance)
	}
	if got.NextOrderID != want.NextOrderID {
		t.Errorf("next order id = %d, want %d", got.NextOrderID, want.NextOrderID)
	}
	if len(got.Holdings) != len(want.Holdings) {
		t.Fatalf("holdings = %d entries, want %d", len(got.Holdings), len(want.Holdings))
	}
	for sym, w := range want.Holdings {
		g, ok := got.Holdings[sym]
		if !ok {
			t.Errorf("holding %s missing", sym)
			continue
		}
		if g.Quantity != w.Quantity || !g.AvgCost.Equal(w.AvgCost) {
			t.Errorf("holding %s = %+v, want %+v", sym, g, w)
		}
	}
	if len(got.Orders) != len(want.Orders) {
		t.Fatalf("orders = %d, want %d", len(got.Orders), len(want.Orders))
	}
	for i, w := range want.Orders {
		g := got.Orders[i]
		if g.ID != w.ID || g.Symbol != w.Symbol || g.Side != w.Side ||
			g.Quantity != w.Quantity || !g.LimitPrice.Equal(w.LimitPrice) || !g.PlacedAt.Equal(w.PlacedAt) {
			t.Errorf("order[%d] = %+v, want %+v", i, g, w)
		}
	}
}

func TestPebbleStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newPebble(t)
	want := sampleSnapshot()

	if err := st.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	checkSnapshot(t, got, want)
}

func TestPebbleStoreEmpty(t *testing.T) {
	st := newPebble(t)
	if _, err := st.Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load() error = %v, want ErrNoSnapshot", err)
	}
}

func TestPebbleStoreDelete(t *testing.T) {
	ctx := context.Background()
	st := newPebble(t)

	if err := st.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load() after Delete error = %v, want ErrNoSnapshot", err)
	}

	// deleting an already empty store is not an error
	if err := st.Delete(ctx); err != nil {
		t.Errorf("Delete() on empty store = %v", err)
	}
}

func TestPebbleStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	st := newPebble(t)

	if err := st.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	want := types.NewLedgerSnapshot(dec("500000"))
	if err := st.Save(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	checkSnapshot(t, got, want)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Load() on fresh store error = %v, want ErrNoSnapshot", err)
	}

	want := sampleSnapshot()
	if err := st.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	checkSnapshot(t, got, want)

	// mutating the loaded copy must not reach the stored snapshot
	got.Holdings["TCS.BO"] = types.Position{Symbol: "TCS.BO", Quantity: 999}
	again, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.Holdings["TCS.BO"].Quantity != 15 {
		t.Errorf("stored snapshot mutated through a loaded copy")
	}

	if err := st.Delete(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load() after Delete error = %v, want ErrNoSnapshot", err)
	}
}

func TestOrderCodecKeepsFileFieldNames(t *testing.T) {
	data, err := encodeOrders(sampleSnapshot().Orders)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"ticker"`, `"action"`, `"qty"`, `"target_price"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded orders missing %s field: %s", field, data)
		}
	}
	if !strings.Contains(string(data), `"action":"buy"`) || !strings.Contains(string(data), `"action":"sell"`) {
		t.Errorf("sides must encode as lowercase actions: %s", data)
	}
}
