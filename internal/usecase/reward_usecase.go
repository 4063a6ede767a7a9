package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
)

// RewardUseCase prepares quest rewards for a vault.
type RewardUseCase struct {
	txManager    TransactionManager
	vaultRepo    VaultRepository
	currencyRepo CurrencyRepository
	coinRepo     CoinRepository
	itemRepo     ItemRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	balances     *balanceCache
	metrics      Metrics
}

// NewRewardUseCase creates a new RewardUseCase.
func NewRewardUseCase(
	txManager TransactionManager,
	vaultRepo VaultRepository,
	currencyRepo CurrencyRepository,
	coinRepo CoinRepository,
	itemRepo ItemRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	metrics Metrics,
) *RewardUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RewardUseCase{
		txManager:    txManager,
		vaultRepo:    vaultRepo,
		currencyRepo: currencyRepo,
		coinRepo:     coinRepo,
		itemRepo:     itemRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		balances:     newBalanceCache(cache, 0, nil, metrics),
		metrics:      metrics,
	}
}

// RewardItem is one item line of a reward.
type RewardItem struct {
	Kind        string
	Name        string
	Description string
	Quantity    int
	Value       decimal.Decimal
}

// PrepareRewardInput represents input for preparing a reward.
type PrepareRewardInput struct {
	VaultID   string
	Coins     []domain.CoinAmount
	Items     []RewardItem
	Note      string
	DryRun    bool
	CreatedBy string
}

// RewardSummary is the validated, valued reward.
type RewardSummary struct {
	VaultID     string
	Entries     []*domain.CoinEntry
	Items       []*domain.Item
	CoinBase    decimal.Decimal
	ItemsBase   decimal.Decimal
	TotalBase   decimal.Decimal
	TotalCommon decimal.Decimal
	DryRun      bool
}

// PrepareReward validates and values a reward. Unless DryRun is set the coin
// and items are added to the vault in one transaction.
func (uc *RewardUseCase) PrepareReward(ctx context.Context, input PrepareRewardInput) (*RewardSummary, error) {
	lines := len(input.Coins) + len(input.Items)
	if lines == 0 {
		return nil, fmt.Errorf("%w: reward is empty", domain.ErrInvalidArgument)
	}
	if lines > MaxRewardLines {
		return nil, fmt.Errorf("%w: reward has more than %d lines", domain.ErrInvalidArgument, MaxRewardLines)
	}
	if err := domain.ValidateNote(input.Note); err != nil {
		return nil, err
	}

	vault, err := uc.vaultRepo.GetByID(ctx, input.VaultID)
	if err != nil {
		return nil, err
	}

	currencies, err := uc.currencyRepo.ListByVault(ctx, vault.ID)
	if err != nil {
		return nil, err
	}
	idx := domain.CurrencyIndex(currencies)

	now := time.Now().UTC()
	summary := &RewardSummary{
		VaultID:  vault.ID,
		CoinBase: decimal.Zero,
		DryRun:   input.DryRun,
	}

	for _, c := range input.Coins {
		if !c.Value.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		if err := domain.ValidateCoinValue(c.Value); err != nil {
			return nil, err
		}
		currency, ok := idx[c.CurrencyID]
		if !ok {
			return nil, domain.ErrCurrencyNotFound
		}

		summary.CoinBase = summary.CoinBase.Add(currency.ToBase(c.Value))
		summary.Entries = append(summary.Entries, &domain.CoinEntry{
			ID:         uc.idGen.Generate(),
			VaultID:    vault.ID,
			CurrencyID: currency.ID,
			Value:      c.Value,
			Kind:       domain.EntryKindReward,
			Note:       input.Note,
			CreatedBy:  input.CreatedBy,
			CreatedAt:  now,
		})
	}

	for _, ri := range input.Items {
		item := &domain.Item{
			ID:          uc.idGen.Generate(),
			VaultID:     vault.ID,
			Kind:        domain.ItemKind(ri.Kind),
			Name:        strings.TrimSpace(ri.Name),
			Description: ri.Description,
			Quantity:    ri.Quantity,
			Value:       ri.Value,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		summary.Items = append(summary.Items, item)
	}

	summary.ItemsBase = domain.ItemsValue(summary.Items)
	summary.TotalBase = summary.CoinBase.Add(summary.ItemsBase)
	summary.TotalCommon = domain.RoundForDisplay(
		domain.ToDisplay(summary.TotalBase, domain.UnitCommon, domain.CommonRate(vault, currencies)))

	if input.DryRun {
		return summary, nil
	}

	if err := uc.commit(ctx, summary, input, now); err != nil {
		return nil, err
	}

	uc.balances.invalidate(ctx, vault.ID)
	uc.metrics.CoinEntriesWritten(string(domain.EntryKindReward), len(summary.Entries))

	return summary, nil
}

func (uc *RewardUseCase) commit(ctx context.Context, summary *RewardSummary, input PrepareRewardInput, now time.Time) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.vaultRepo.GetByIDForUpdate(ctx, tx, summary.VaultID); err != nil {
		return err
	}

	for _, e := range summary.Entries {
		if err := uc.coinRepo.Create(ctx, tx, e); err != nil {
			return err
		}
	}

	for _, it := range summary.Items {
		if err := uc.itemRepo.Create(ctx, tx, it); err != nil {
			return err
		}
	}

	event := domain.NewVaultEvent(uc.idGen.Generate(), summary.VaultID, domain.EventTypeRewardPrepared, map[string]any{
		"coin_entries": len(summary.Entries),
		"items":        len(summary.Items),
		"total_base":   summary.TotalBase.String(),
		"note":         input.Note,
		"actor_id":     input.CreatedBy,
	}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
