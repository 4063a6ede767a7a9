package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

func TestVaultTransferRepositoryListByVault(t *testing.T) {
	pool := newMockPool(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "from_vault_id", "to_vault_id", "coins", "item_ids", "note", "created_by", "created_at"}
	pool.ExpectQuery("FROM vault_transfers").
		WithArgs("v1", 20, 0).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("t1", "v1", "v2", []byte(`[{"currency_id":"gp","value":"12.5"}]`), []string{"i1"}, "to the bank", "owner", now))

	transfers, err := NewVaultTransferRepository(pool).ListByVault(context.Background(), "v1", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
	tr := transfers[0]
	if len(tr.Coins) != 1 || !tr.Coins[0].Value.Equal(decimal.RequireFromString("12.5")) || tr.ItemIDs[0] != "i1" {
		t.Fatalf("unexpected transfer: %+v", tr)
	}

	assertExpectations(t, pool)
}
