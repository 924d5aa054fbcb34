// Package store persists the trading session snapshot. Every backend writes
// the balance, holdings and pending orders as one atomic unit per save, so a
// crash can never observe cash debited without the matching position.
package store

import (
	"context"
	"errors"

	"papertrade/types"
)

var ErrNoSnapshot = errors.New("no snapshot in store")

type Store interface {
	// Load returns the persisted snapshot, or ErrNoSnapshot when the store
	// has never been saved to (or was deleted).
	Load(ctx context.Context) (types.LedgerSnapshot, error)
	// Save replaces the persisted snapshot atomically.
	Save(ctx context.Context, snap types.LedgerSnapshot) error
	// Delete removes the persisted snapshot entirely.
	Delete(ctx context.Context) error
	Close() error
}
