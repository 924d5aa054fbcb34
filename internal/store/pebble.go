package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/pebble"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

// keys: bal, hold, ord, noid
func kBalance() []byte     { return []byte("bal") }
func kHoldings() []byte    { return []byte("hold") }
func kOrders() []byte      { return []byte("ord") }
func kNextOrderID() []byte { return []byte("noid") }

// PebbleStore keeps the snapshot in a local Pebble database. Each Save is a
// single synced batch, so the three records always commit together.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble store: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

func (s *PebbleStore) Load(_ context.Context) (types.LedgerSnapshot, error) {
	balRaw, err := s.get(kBalance())
	if err == pebble.ErrNotFound {
		return types.LedgerSnapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return types.LedgerSnapshot{}, err
	}
	balance, err := decimal.NewFromString(string(balRaw))
	if err != nil {
		return types.LedgerSnapshot{}, fmt.Errorf("decode balance: %w", err)
	}

	holdRaw, err := s.get(kHoldings())
	if err != nil {
		return types.LedgerSnapshot{}, err
	}
	holdings, err := decodeHoldings(holdRaw)
	if err != nil {
		return types.LedgerSnapshot{}, fmt.Errorf("decode holdings: %w", err)
	}

	ordRaw, err := s.get(kOrders())
	if err != nil {
		return types.LedgerSnapshot{}, err
	}
	orders, err := decodeOrders(ordRaw)
	if err != nil {
		return types.LedgerSnapshot{}, fmt.Errorf("decode orders: %w", err)
	}

	idRaw, err := s.get(kNextOrderID())
	if err != nil {
		return types.LedgerSnapshot{}, err
	}
	nextID, err := strconv.ParseInt(string(idRaw), 10, 64)
	if err != nil {
		return types.LedgerSnapshot{}, fmt.Errorf("decode next order id: %w", err)
	}

	return types.LedgerSnapshot{
		Balance:     balance,
		Holdings:    holdings,
		Orders:      orders,
		NextOrderID: nextID,
	}, nil
}

func (s *PebbleStore) Save(_ context.Context, snap types.LedgerSnapshot) error {
	holdings, err := encodeHoldings(snap.Holdings)
	if err != nil {
		return fmt.Errorf("encode holdings: %w", err)
	}
	orders, err := encodeOrders(snap.Orders)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(kBalance(), []byte(snap.Balance.String()), nil); err != nil {
		return err
	}
	if err := batch.Set(kHoldings(), holdings, nil); err != nil {
		return err
	}
	if err := batch.Set(kOrders(), orders, nil); err != nil {
		return err
	}
	if err := batch.Set(kNextOrderID(), []byte(strconv.FormatInt(snap.NextOrderID, 10)), nil); err != nil {
		return err
	}
	return s.db.Apply(batch, pebble.Sync)
}

func (s *PebbleStore) Delete(_ context.Context) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, key := range [][]byte{kBalance(), kHoldings(), kOrders(), kNextOrderID()} {
		if err := batch.Delete(key, nil); err != nil {
			return err
		}
	}
	return s.db.Apply(batch, pebble.Sync)
}

// get copies the value out before releasing pebble's closer.
func (s *PebbleStore) get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

var _ Store = (*PebbleStore)(nil)
