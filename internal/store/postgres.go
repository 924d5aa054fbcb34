package store

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

const createSnapshotTable = `
CREATE TABLE IF NOT EXISTS ledger_snapshot (
	id            smallint PRIMARY KEY CHECK (id = 1),
	balance       numeric NOT NULL,
	holdings      jsonb NOT NULL,
	orders        jsonb NOT NULL,
	next_order_id bigint NOT NULL
)`

const upsertSnapshot = `
INSERT INTO ledger_snapshot (id, balance, holdings, orders, next_order_id)
VALUES (1, $1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
	balance = EXCLUDED.balance,
	holdings = EXCLUDED.holdings,
	orders = EXCLUDED.orders,
	next_order_id = EXCLUDED.next_order_id`

// PostgresStore keeps the snapshot as a single row, so every save is one
// atomic statement.
type PostgresStore struct {
	conn *pgxpool.Pool
}

// NewPostgresStore connects, verifies connectivity and ensures the snapshot
// table exists.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, createSnapshotTable); err != nil {
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &PostgresStore{conn: conn}, nil
}

func (s *PostgresStore) Close() error {
	s.conn.Close()
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (types.LedgerSnapshot, error) {
	var (
		balance decimal.Decimal
		holdRaw []byte
		ordRaw  []byte
		nextID  int64
	)
	row := s.conn.QueryRow(ctx, `SELECT balance, holdings, orders, next_order_id FROM ledger_snapshot WHERE id = 1`)
	if err := row.Scan(&balance, &holdRaw, &ordRaw, &nextID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.LedgerSnapshot{}, ErrNoSnapshot
		}
		return types.LedgerSnapshot{}, err
	}

	holdings, err := decodeHoldings(holdRaw)
	if err != nil {
		return types.LedgerSnapshot{}, fmt.Errorf("decode holdings: %w", err)
	}
	orders, err := decodeOrders(ordRaw)
	if err != nil {
		return types.LedgerSnapshot{}, fmt.Errorf("decode orders: %w", err)
	}

	return types.LedgerSnapshot{
		Balance:     balance,
		Holdings:    holdings,
		Orders:      orders,
		NextOrderID: nextID,
	}, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap types.LedgerSnapshot) error {
	holdings, err := encodeHoldings(snap.Holdings)
	if err != nil {
		return fmt.Errorf("encode holdings: %w", err)
	}
	orders, err := encodeOrders(snap.Orders)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	_, err = s.conn.Exec(ctx, upsertSnapshot, snap.Balance, holdings, orders, snap.NextOrderID)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, `DELETE FROM ledger_snapshot WHERE id = 1`)
	return err
}

var _ Store = (*PostgresStore)(nil)
