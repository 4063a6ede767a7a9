package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/partytreasury/internal/domain"
)

func TestTxManagerBeginSuccess(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mockPool.ExpectCommit()

	manager := newTxManagerWithPool(mockPool, pgx.Serializable)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx == nil {
		t.Fatalf("expected transaction")
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTxManagerBeginError(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("begin failed")
	mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted}).WillReturnError(mockErr)

	manager := newTxManagerWithPool(mockPool, pgx.ReadCommitted)
	tx, err := manager.Begin(context.Background())
	if !errors.Is(err, mockErr) || !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected wrapped begin error, got err=%v tx=%v", err, tx)
	}
}

func TestTxRollback(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool, pgx.Serializable)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestParseIsolation(t *testing.T) {
	tests := []struct {
		in   string
		want pgx.TxIsoLevel
		ok   bool
	}{
		{"", pgx.Serializable, true},
		{"SERIALIZABLE", pgx.Serializable, true},
		{"repeatable_read", pgx.RepeatableRead, true},
		{"read-committed", pgx.ReadCommitted, true},
		{"chaos", "", false},
	}

	for _, tt := range tests {
		got, err := ParseIsolation(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseIsolation(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseIsolation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

// beginTx opens a transaction against the mock pool.
func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	tx, err := newTxManagerWithPool(pool, pgx.Serializable).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx.(*Tx)
}
