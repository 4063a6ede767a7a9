package usecase

import (
	"context"
	"time"

	"github.com/iho/partytreasury/internal/domain"
)

// ReconciliationUseCase checks that splits distributed what they consumed.
type ReconciliationUseCase struct {
	vaultRepo    VaultRepository
	currencyRepo CurrencyRepository
	coinRepo     CoinRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	vaultRepo VaultRepository,
	currencyRepo CurrencyRepository,
	coinRepo CoinRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		vaultRepo:    vaultRepo,
		currencyRepo: currencyRepo,
		coinRepo:     coinRepo,
	}
}

// ReconciliationReport is the outcome of checking every split of a vault.
// Amounts are in base units at current rates.
type ReconciliationReport struct {
	VaultID       string
	SplitsChecked int
	Discrepancies []domain.SplitDiscrepancy
	Consistent    bool
	CheckedAt     time.Time
}

// CheckVault reports every split of a vault whose distributed value differs
// from the value it archived. Discarded remainders show up here.
func (uc *ReconciliationUseCase) CheckVault(ctx context.Context, vaultID string) (*ReconciliationReport, error) {
	vault, err := uc.vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	currencies, err := uc.currencyRepo.ListByVault(ctx, vault.ID)
	if err != nil {
		return nil, err
	}

	flows, err := uc.coinRepo.SplitFlows(ctx, vault.ID)
	if err != nil {
		return nil, err
	}

	splits := make(map[string]struct{})
	for _, f := range flows {
		splits[f.SplitID] = struct{}{}
	}

	discrepancies := domain.ReconcileSplits(flows, currencies)

	return &ReconciliationReport{
		VaultID:       vault.ID,
		SplitsChecked: len(splits),
		Discrepancies: discrepancies,
		Consistent:    len(discrepancies) == 0,
		CheckedAt:     time.Now().UTC(),
	}, nil
}
