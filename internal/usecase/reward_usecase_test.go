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

func newRewardUseCase(t *testing.T) (*usecase.RewardUseCase, *coinFixture) {
	t.Helper()
	f := newCoinFixture(t)
	uc := usecase.NewRewardUseCase(f.txManager, f.vaults, f.currencies, f.coins, f.items, f.outbox, mocks.NewMockIDGenerator(), f.cache, nil)
	return uc, f
}

func goblinReward(dryRun bool) usecase.PrepareRewardInput {
	return usecase.PrepareRewardInput{
		VaultID: "v1",
		Coins: []domain.CoinAmount{
			{CurrencyID: "gp", Value: decimal.NewFromInt(3)},
			{CurrencyID: "sp", Value: decimal.NewFromInt(5)},
		},
		Items: []usecase.RewardItem{
			{Kind: "valuable", Name: "Garnet", Quantity: 2, Value: decimal.NewFromInt(25)},
		},
		Note:      "goblin camp",
		DryRun:    dryRun,
		CreatedBy: "owner",
	}
}

func TestRewardUseCase_PrepareReward_DryRun(t *testing.T) {
	uc, f := newRewardUseCase(t)

	summary, err := uc.PrepareReward(context.Background(), goblinReward(true))
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.True(t, summary.CoinBase.Equal(decimal.NewFromInt(350)))
	assert.True(t, summary.ItemsBase.Equal(decimal.NewFromInt(50)))
	assert.True(t, summary.TotalBase.Equal(decimal.NewFromInt(400)))
	assert.True(t, summary.TotalCommon.Equal(decimal.NewFromInt(4)))
	assert.Len(t, summary.Entries, 2)

	assert.Empty(t, f.coins.Entries())
	assert.Empty(t, f.outbox.Events())
	assert.Equal(t, 0, f.txManager.Commits)
}

func TestRewardUseCase_PrepareReward_Commits(t *testing.T) {
	uc, f := newRewardUseCase(t)
	ctx := context.Background()

	_, err := uc.PrepareReward(ctx, goblinReward(false))
	require.NoError(t, err)
	assert.Equal(t, 1, f.txManager.Commits)

	balances, err := f.coins.Balances(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, balances.Get("gp").Equal(decimal.NewFromInt(3)))

	for _, e := range f.coins.Entries() {
		assert.Equal(t, domain.EntryKindReward, e.Kind)
		assert.Equal(t, "goblin camp", e.Note)
	}

	items, err := f.items.ListByVault(ctx, "v1", domain.ItemKindValuable)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Garnet", items[0].Name)

	require.Len(t, f.outbox.Events(), 1)
	assert.Equal(t, domain.EventTypeRewardPrepared, f.outbox.Events()[0].EventType)
}

func TestRewardUseCase_PrepareReward_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *usecase.PrepareRewardInput)
		wantErr error
	}{
		{"empty", func(in *usecase.PrepareRewardInput) { in.Coins, in.Items = nil, nil }, domain.ErrInvalidArgument},
		{"negative coin", func(in *usecase.PrepareRewardInput) { in.Coins[0].Value = decimal.NewFromInt(-1) }, domain.ErrInvalidAmount},
		{"unknown currency", func(in *usecase.PrepareRewardInput) { in.Coins[0].CurrencyID = "pp" }, domain.ErrCurrencyNotFound},
		{"bad item", func(in *usecase.PrepareRewardInput) { in.Items[0].Quantity = 0 }, domain.ErrInvalidQuantity},
		{"unknown vault", func(in *usecase.PrepareRewardInput) { in.VaultID = "v9" }, domain.ErrVaultNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, f := newRewardUseCase(t)
			input := goblinReward(false)
			tt.mutate(&input)

			_, err := uc.PrepareReward(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.coins.Entries())
		})
	}
}
