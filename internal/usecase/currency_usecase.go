package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
)

// CurrencyUseCase handles vault currencies.
type CurrencyUseCase struct {
	txManager    TransactionManager
	vaultRepo    VaultRepository
	currencyRepo CurrencyRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
}

// NewCurrencyUseCase creates a new CurrencyUseCase.
func NewCurrencyUseCase(
	txManager TransactionManager,
	vaultRepo VaultRepository,
	currencyRepo CurrencyRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *CurrencyUseCase {
	return &CurrencyUseCase{
		txManager:    txManager,
		vaultRepo:    vaultRepo,
		currencyRepo: currencyRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// CreateCurrencyInput represents input for creating a currency.
type CreateCurrencyInput struct {
	VaultID string
	Name    string
	Code    string
	Rate    decimal.Decimal
}

// CreateCurrency adds a currency to a vault. The first currency of a vault
// becomes its base currency with rate 1.
func (uc *CurrencyUseCase) CreateCurrency(ctx context.Context, input CreateCurrencyInput) (*domain.Currency, error) {
	rate := input.Rate
	if err := domain.ValidateCurrencyFields(input.Name, input.Code, rate); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.vaultRepo.GetByIDForUpdate(ctx, tx, input.VaultID); err != nil {
		return nil, err
	}

	existing, err := uc.currencyRepo.ListByVaultTx(ctx, tx, input.VaultID)
	if err != nil {
		return nil, err
	}

	code := domain.NormalizeCurrencyCode(input.Code)
	if domain.FindCurrencyByCode(existing, code) != nil {
		return nil, domain.ErrDuplicateCurrencyCode
	}

	one := decimal.NewFromInt(1)
	switch {
	case len(existing) == 0:
		rate = one
	case rate.Equal(one):
		return nil, domain.ErrDuplicateBaseCurrency
	}

	now := time.Now().UTC()
	currency := &domain.Currency{
		ID:        uc.idGen.Generate(),
		VaultID:   input.VaultID,
		Name:      strings.TrimSpace(input.Name),
		Code:      code,
		Rate:      rate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.currencyRepo.Create(ctx, tx, currency); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return currency, nil
}

// UpdateCurrencyInput represents input for updating a currency. Nil fields are
// left unchanged.
type UpdateCurrencyInput struct {
	VaultID    string
	CurrencyID string
	Name       *string
	Code       *string
	Rate       *decimal.Decimal
}

// UpdateCurrency edits a currency. The base rate can only change via Rebase.
func (uc *CurrencyUseCase) UpdateCurrency(ctx context.Context, input UpdateCurrencyInput) (*domain.Currency, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.vaultRepo.GetByIDForUpdate(ctx, tx, input.VaultID); err != nil {
		return nil, err
	}

	currencies, err := uc.currencyRepo.ListByVaultTx(ctx, tx, input.VaultID)
	if err != nil {
		return nil, err
	}

	current, ok := domain.CurrencyIndex(currencies)[input.CurrencyID]
	if !ok {
		return nil, domain.ErrCurrencyNotFound
	}
	updated := *current

	if input.Name != nil {
		updated.Name = strings.TrimSpace(*input.Name)
	}

	if input.Code != nil {
		updated.Code = domain.NormalizeCurrencyCode(*input.Code)
		if other := domain.FindCurrencyByCode(currencies, updated.Code); other != nil && other.ID != current.ID {
			return nil, domain.ErrDuplicateCurrencyCode
		}
	}

	if input.Rate != nil {
		one := decimal.NewFromInt(1)
		switch {
		case current.IsBase() && !input.Rate.Equal(one):
			return nil, domain.ErrBaseRateLocked
		case !current.IsBase() && input.Rate.Equal(one):
			return nil, domain.ErrDuplicateBaseCurrency
		}
		updated.Rate = *input.Rate
	}

	if err := domain.ValidateCurrencyFields(updated.Name, updated.Code, updated.Rate); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now().UTC()
	if err := uc.currencyRepo.Update(ctx, tx, &updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &updated, nil
}

// ListCurrencies lists the currencies of a vault.
func (uc *CurrencyUseCase) ListCurrencies(ctx context.Context, vaultID string) ([]*domain.Currency, error) {
	return uc.currencyRepo.ListByVault(ctx, vaultID)
}

// RebaseInput represents input for changing the base currency.
type RebaseInput struct {
	VaultID    string
	CurrencyID string
	ActorID    string
}

// Rebase makes another currency the base by dividing every rate of the vault
// by that currency's rate.
func (uc *CurrencyUseCase) Rebase(ctx context.Context, input RebaseInput) ([]*domain.Currency, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.vaultRepo.GetByIDForUpdate(ctx, tx, input.VaultID); err != nil {
		return nil, err
	}

	currencies, err := uc.currencyRepo.ListByVaultTx(ctx, tx, input.VaultID)
	if err != nil {
		return nil, err
	}

	rebased, err := domain.Rebase(currencies, input.CurrencyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, c := range rebased {
		c.UpdatedAt = now
		if err := uc.currencyRepo.Update(ctx, tx, c); err != nil {
			return nil, err
		}
	}

	event := domain.NewVaultEvent(uc.idGen.Generate(), input.VaultID, domain.EventTypeCurrencyRebased, map[string]any{
		"currency_id": input.CurrencyID,
		"actor_id":    input.ActorID,
	}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return rebased, nil
}
