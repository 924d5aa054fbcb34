package store

import (
	"context"

	"papertrade/types"
)

// MemoryStore holds the snapshot in memory. Used in tests and as a throwaway
// backend when durability is not wanted.
type MemoryStore struct {
	snap  types.LedgerSnapshot
	saved bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (types.LedgerSnapshot, error) {
	if !s.saved {
		return types.LedgerSnapshot{}, ErrNoSnapshot
	}
	return copySnapshot(s.snap), nil
}

func (s *MemoryStore) Save(_ context.Context, snap types.LedgerSnapshot) error {
	s.snap = copySnapshot(snap)
	s.saved = true
	return nil
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.snap = types.LedgerSnapshot{}
	s.saved = false
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func copySnapshot(snap types.LedgerSnapshot) types.LedgerSnapshot {
	out := snap
	out.Holdings = make(map[string]types.Position, len(snap.Holdings))
	for sym, pos := range snap.Holdings {
		out.Holdings[sym] = pos
	}
	out.Orders = append([]types.PendingOrder(nil), snap.Orders...)
	return out
}

var _ Store = (*MemoryStore)(nil)
