package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
	"github.com/iho/partytreasury/internal/usecase/mocks"
)

func newCurrencyUseCase(currencies ...*domain.Currency) (*usecase.CurrencyUseCase, *mocks.MockCurrencyRepository, *mocks.MockOutboxRepository) {
	repo := mocks.NewMockCurrencyRepository(currencies...)
	outbox := mocks.NewMockOutboxRepository()
	uc := usecase.NewCurrencyUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockVaultRepository(&domain.Vault{ID: "v1", OwnerID: "owner"}),
		repo,
		outbox,
		mocks.NewMockIDGenerator(),
	)
	return uc, repo, outbox
}

func TestCurrencyUseCase_CreateCurrency_FirstBecomesBase(t *testing.T) {
	uc, _, _ := newCurrencyUseCase()
	ctx := context.Background()

	gold, err := uc.CreateCurrency(ctx, usecase.CreateCurrencyInput{VaultID: "v1", Name: "Gold", Code: "gp", Rate: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.True(t, gold.IsBase())
	assert.Equal(t, "GP", gold.Code)

	silver, err := uc.CreateCurrency(ctx, usecase.CreateCurrencyInput{VaultID: "v1", Name: "Silver", Code: "SP", Rate: decimal.RequireFromString("0.1")})
	require.NoError(t, err)
	assert.False(t, silver.IsBase())

	currencies, err := uc.ListCurrencies(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, currencies, 2)
}

func TestCurrencyUseCase_CreateCurrency_Rejects(t *testing.T) {
	base := &domain.Currency{ID: "cp", VaultID: "v1", Name: "Copper", Code: "CP", Rate: decimal.NewFromInt(1)}

	tests := []struct {
		name    string
		input   usecase.CreateCurrencyInput
		wantErr error
	}{
		{"second base", usecase.CreateCurrencyInput{VaultID: "v1", Name: "Token", Code: "TK", Rate: decimal.NewFromInt(1)}, domain.ErrDuplicateBaseCurrency},
		{"duplicate code", usecase.CreateCurrencyInput{VaultID: "v1", Name: "Copper 2", Code: " cp ", Rate: decimal.NewFromInt(2)}, domain.ErrDuplicateCurrencyCode},
		{"zero rate", usecase.CreateCurrencyInput{VaultID: "v1", Name: "Dust", Code: "DU", Rate: decimal.Zero}, domain.ErrInvalidRate},
		{"unknown vault", usecase.CreateCurrencyInput{VaultID: "v9", Name: "Gold", Code: "GP", Rate: decimal.NewFromInt(100)}, domain.ErrVaultNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newCurrencyUseCase(base)
			_, err := uc.CreateCurrency(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			all, _ := repo.ListByVault(context.Background(), "v1")
			assert.Len(t, all, 1)
		})
	}
}

func TestCurrencyUseCase_UpdateCurrency(t *testing.T) {
	cp := &domain.Currency{ID: "cp", VaultID: "v1", Name: "Copper", Code: "CP", Rate: decimal.NewFromInt(1)}
	gp := &domain.Currency{ID: "gp", VaultID: "v1", Name: "Gold", Code: "GP", Rate: decimal.NewFromInt(100)}
	ctx := context.Background()

	uc, _, _ := newCurrencyUseCase(cp, gp)

	two := decimal.NewFromInt(2)
	_, err := uc.UpdateCurrency(ctx, usecase.UpdateCurrencyInput{VaultID: "v1", CurrencyID: "cp", Rate: &two})
	assert.ErrorIs(t, err, domain.ErrBaseRateLocked)

	one := decimal.NewFromInt(1)
	_, err = uc.UpdateCurrency(ctx, usecase.UpdateCurrencyInput{VaultID: "v1", CurrencyID: "gp", Rate: &one})
	assert.ErrorIs(t, err, domain.ErrDuplicateBaseCurrency)

	code := "cp"
	_, err = uc.UpdateCurrency(ctx, usecase.UpdateCurrencyInput{VaultID: "v1", CurrencyID: "gp", Code: &code})
	assert.ErrorIs(t, err, domain.ErrDuplicateCurrencyCode)

	rate := decimal.NewFromInt(120)
	name := "Crown"
	updated, err := uc.UpdateCurrency(ctx, usecase.UpdateCurrencyInput{VaultID: "v1", CurrencyID: "gp", Rate: &rate, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Crown", updated.Name)
	assert.True(t, updated.Rate.Equal(rate))

	_, err = uc.UpdateCurrency(ctx, usecase.UpdateCurrencyInput{VaultID: "v1", CurrencyID: "nope", Name: &name})
	assert.ErrorIs(t, err, domain.ErrCurrencyNotFound)
}

func TestCurrencyUseCase_Rebase(t *testing.T) {
	uc, repo, outbox := newCurrencyUseCase(
		&domain.Currency{ID: "cp", VaultID: "v1", Code: "CP", Rate: decimal.NewFromInt(1)},
		&domain.Currency{ID: "sp", VaultID: "v1", Code: "SP", Rate: decimal.NewFromInt(10)},
		&domain.Currency{ID: "gp", VaultID: "v1", Code: "GP", Rate: decimal.NewFromInt(100)},
	)

	rebased, err := uc.Rebase(context.Background(), usecase.RebaseInput{VaultID: "v1", CurrencyID: "gp", ActorID: "owner"})
	require.NoError(t, err)
	require.Len(t, rebased, 3)

	stored, err := repo.ListByVault(context.Background(), "v1")
	require.NoError(t, err)
	rates := map[string]string{}
	for _, c := range stored {
		rates[c.ID] = c.Rate.String()
	}
	assert.Equal(t, map[string]string{"cp": "0.01", "sp": "0.1", "gp": "1"}, rates)

	require.Len(t, outbox.Events(), 1)
	assert.Equal(t, domain.EventTypeCurrencyRebased, outbox.Events()[0].EventType)

	_, err = uc.Rebase(context.Background(), usecase.RebaseInput{VaultID: "v1", CurrencyID: "pp"})
	assert.ErrorIs(t, err, domain.ErrCurrencyNotFound)
}

func TestCurrencyUseCase_Rebase_RefusesSecondBase(t *testing.T) {
	uc, repo, outbox := newCurrencyUseCase(
		&domain.Currency{ID: "cp", VaultID: "v1", Code: "CP", Rate: decimal.NewFromInt(1)},
		&domain.Currency{ID: "gp", VaultID: "v1", Code: "GP", Rate: decimal.NewFromInt(10)},
		&domain.Currency{ID: "pp", VaultID: "v1", Code: "PP", Rate: decimal.NewFromInt(10)},
	)

	_, err := uc.Rebase(context.Background(), usecase.RebaseInput{VaultID: "v1", CurrencyID: "gp"})
	assert.ErrorIs(t, err, domain.ErrDuplicateBaseCurrency)

	stored, err := repo.ListByVault(context.Background(), "v1")
	require.NoError(t, err)
	bases := 0
	for _, c := range stored {
		if c.IsBase() {
			bases++
		}
	}
	assert.Equal(t, 1, bases)
	assert.Empty(t, outbox.Events())
}
