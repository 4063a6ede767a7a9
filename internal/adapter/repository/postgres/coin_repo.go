package postgres

import (
	"context"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// CoinRepository implements usecase.CoinRepository.
type CoinRepository struct {
	queries *generated.Queries
}

// NewCoinRepository creates a new CoinRepository.
func NewCoinRepository(db generated.DBTX) *CoinRepository {
	return &CoinRepository{queries: generated.New(db)}
}

// Create appends a coin entry.
func (r *CoinRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CoinEntry) error {
	err := txQueries(tx).CreateCoinEntry(ctx, generated.CreateCoinEntryParams{
		ID:              entry.ID,
		VaultID:         entry.VaultID,
		CurrencyID:      entry.CurrencyID,
		Value:           decimalToNumeric(entry.Value),
		Kind:            string(entry.Kind),
		MemberID:        entry.MemberID,
		SplitID:         entry.SplitID,
		TransferID:      entry.TransferID,
		ArchivedBySplit: entry.ArchivedBySplit,
		Note:            entry.Note,
		Archived:        entry.Archived,
		CreatedBy:       entry.CreatedBy,
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
	})

	return storeErr("create coin entry", err)
}

// Balances sums the pooled, unarchived entries of a vault per currency.
func (r *CoinRepository) Balances(ctx context.Context, vaultID string) (domain.Balances, error) {
	return sumBalances(ctx, r.queries, vaultID)
}

// BalancesTx is Balances inside tx.
func (r *CoinRepository) BalancesTx(ctx context.Context, tx usecase.Transaction, vaultID string) (domain.Balances, error) {
	return sumBalances(ctx, txQueries(tx), vaultID)
}

// ListUnarchivedTx locks and returns the vault's pooled, unarchived entries.
func (r *CoinRepository) ListUnarchivedTx(ctx context.Context, tx usecase.Transaction, vaultID string) ([]*domain.CoinEntry, error) {
	rows, err := txQueries(tx).ListUnarchivedCoinEntriesForUpdate(ctx, vaultID)
	if err != nil {
		return nil, storeErr("list unarchived entries", err)
	}

	return rowsToCoinEntries(rows), nil
}

// Archive marks entries as consumed by splitID and returns how many changed.
func (r *CoinRepository) Archive(ctx context.Context, tx usecase.Transaction, ids []string, splitID string) (int64, error) {
	n, err := txQueries(tx).ArchiveCoinEntries(ctx, generated.ArchiveCoinEntriesParams{
		Column1:         ids,
		ArchivedBySplit: splitID,
	})
	if err != nil {
		return 0, storeErr("archive entries", err)
	}

	return n, nil
}

// List lists a vault's entries, oldest first.
func (r *CoinRepository) List(ctx context.Context, vaultID string, includeArchived bool, limit, offset int) ([]*domain.CoinEntry, error) {
	rows, err := r.queries.ListCoinEntries(ctx, generated.ListCoinEntriesParams{
		VaultID: vaultID,
		Column2: includeArchived,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, storeErr("list entries", err)
	}

	return rowsToCoinEntries(rows), nil
}

// MemberHoldings sums share entries per member and currency.
func (r *CoinRepository) MemberHoldings(ctx context.Context, vaultID string) (map[string]domain.Balances, error) {
	rows, err := r.queries.SumMemberHoldings(ctx, vaultID)
	if err != nil {
		return nil, storeErr("sum member holdings", err)
	}

	holdings := make(map[string]domain.Balances)
	for _, row := range rows {
		b, ok := holdings[row.MemberID]
		if !ok {
			b = domain.Balances{}
			holdings[row.MemberID] = b
		}
		b[row.CurrencyID] = numericToDecimal(row.Total)
	}

	return holdings, nil
}

// SplitFlows returns consumed and distributed totals per split and currency.
func (r *CoinRepository) SplitFlows(ctx context.Context, vaultID string) ([]domain.SplitFlow, error) {
	rows, err := r.queries.ListSplitFlows(ctx, vaultID)
	if err != nil {
		return nil, storeErr("list split flows", err)
	}

	flows := make([]domain.SplitFlow, 0, len(rows))
	for _, row := range rows {
		flows = append(flows, domain.SplitFlow{
			SplitID:     row.SplitID,
			CurrencyID:  row.CurrencyID,
			Consumed:    numericToDecimal(row.Consumed),
			Distributed: numericToDecimal(row.Distributed),
		})
	}

	return flows, nil
}

func sumBalances(ctx context.Context, queries *generated.Queries, vaultID string) (domain.Balances, error) {
	rows, err := queries.SumVaultBalances(ctx, vaultID)
	if err != nil {
		return nil, storeErr("sum balances", err)
	}

	balances := make(domain.Balances, len(rows))
	for _, row := range rows {
		balances[row.CurrencyID] = numericToDecimal(row.Total)
	}

	return balances, nil
}

func rowsToCoinEntries(rows []generated.CoinEntry) []*domain.CoinEntry {
	entries := make([]*domain.CoinEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.CoinEntry{
			ID:              row.ID,
			VaultID:         row.VaultID,
			CurrencyID:      row.CurrencyID,
			Value:           numericToDecimal(row.Value),
			Kind:            domain.EntryKind(row.Kind),
			MemberID:        row.MemberID,
			SplitID:         row.SplitID,
			TransferID:      row.TransferID,
			ArchivedBySplit: row.ArchivedBySplit,
			Note:            row.Note,
			Archived:        row.Archived,
			CreatedBy:       row.CreatedBy,
			CreatedAt:       row.CreatedAt.Time,
		})
	}

	return entries
}
