package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
)

// CoinUseCase handles vault balances, coin entries and splits.
type CoinUseCase struct {
	txManager     TransactionManager
	retrier       Retrier
	vaultRepo     VaultRepository
	currencyRepo  CurrencyRepository
	coinRepo      CoinRepository
	memberRepo    MemberRepository
	itemRepo      ItemRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	balances      *balanceCache
	metrics       Metrics
	logger        *slog.Logger
	defaultPolicy domain.RemainderPolicy
	now           func() time.Time
}

// CoinUseCaseConfig holds the dependencies of CoinUseCase.
type CoinUseCaseConfig struct {
	TxManager       TransactionManager
	Retrier         Retrier
	VaultRepo       VaultRepository
	CurrencyRepo    CurrencyRepository
	CoinRepo        CoinRepository
	MemberRepo      MemberRepository
	ItemRepo        ItemRepository
	OutboxRepo      OutboxRepository
	IDGen           IDGenerator
	Cache           Cache
	BalanceCacheTTL time.Duration
	Metrics         Metrics
	Logger          *slog.Logger
	DefaultPolicy   domain.RemainderPolicy
	Now             func() time.Time
}

// NewCoinUseCase creates a new CoinUseCase.
func NewCoinUseCase(cfg CoinUseCaseConfig) *CoinUseCase {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.DefaultPolicy == "" {
		cfg.DefaultPolicy = domain.RemainderDiscard
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}

	return &CoinUseCase{
		txManager:     cfg.TxManager,
		retrier:       cfg.Retrier,
		vaultRepo:     cfg.VaultRepo,
		currencyRepo:  cfg.CurrencyRepo,
		coinRepo:      cfg.CoinRepo,
		memberRepo:    cfg.MemberRepo,
		itemRepo:      cfg.ItemRepo,
		outboxRepo:    cfg.OutboxRepo,
		idGen:         cfg.IDGen,
		balances:      newBalanceCache(cfg.Cache, cfg.BalanceCacheTTL, cfg.Logger, cfg.Metrics),
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		defaultPolicy: cfg.DefaultPolicy,
		now:           cfg.Now,
	}
}

// Balances returns the pooled balance of every currency of a vault. An unknown
// vault has no entries and yields an empty map.
func (uc *CoinUseCase) Balances(ctx context.Context, vaultID string) (domain.Balances, error) {
	cached, gen, ok := uc.balances.get(ctx, vaultID)
	if ok {
		return cached, nil
	}

	balances, err := uc.coinRepo.Balances(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	if balances == nil {
		balances = domain.Balances{}
	}

	uc.balances.set(ctx, vaultID, gen, balances)
	return balances, nil
}

// CurrencyHolding is one currency line of a holdings view.
type CurrencyHolding struct {
	Currency  *domain.Currency
	Balance   decimal.Decimal
	BaseValue decimal.Decimal
	Display   decimal.Decimal
}

// Holdings is the full value view of a vault.
type Holdings struct {
	VaultID      string
	Unit         domain.DisplayUnit
	CommonRate   decimal.Decimal
	Currencies   []CurrencyHolding
	CoinBase     decimal.Decimal
	ItemsBase    decimal.Decimal
	TotalBase    decimal.Decimal
	TotalDisplay decimal.Decimal
	Members      map[string]domain.Balances
}

// HoldingsInput represents input for Holdings.
type HoldingsInput struct {
	VaultID string
	Unit    string
}

// Holdings builds the holdings view of a vault in the requested display unit.
func (uc *CoinUseCase) Holdings(ctx context.Context, input HoldingsInput) (*Holdings, error) {
	unit, err := domain.ParseDisplayUnit(input.Unit)
	if err != nil {
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

	balances, err := uc.Balances(ctx, vault.ID)
	if err != nil {
		return nil, err
	}

	items, err := uc.itemRepo.ListByVault(ctx, vault.ID, "")
	if err != nil {
		return nil, err
	}

	members, err := uc.coinRepo.MemberHoldings(ctx, vault.ID)
	if err != nil {
		return nil, err
	}

	rate := domain.CommonRate(vault, currencies)
	h := &Holdings{
		VaultID:    vault.ID,
		Unit:       unit,
		CommonRate: rate,
		Currencies: make([]CurrencyHolding, 0, len(currencies)),
		CoinBase:   decimal.Zero,
		ItemsBase:  domain.ItemsValue(items),
		Members:    members,
	}

	for _, c := range currencies {
		balance := balances.Get(c.ID)
		base := c.ToBase(balance)
		h.CoinBase = h.CoinBase.Add(base)
		h.Currencies = append(h.Currencies, CurrencyHolding{
			Currency:  c,
			Balance:   balance,
			BaseValue: base,
			Display:   domain.RoundForDisplay(domain.ToDisplay(base, unit, rate)),
		})
	}

	h.TotalBase = h.CoinBase.Add(h.ItemsBase)
	h.TotalDisplay = domain.RoundForDisplay(domain.ToDisplay(h.TotalBase, unit, rate))

	return h, nil
}

// AddEntryInput represents input for adding a coin entry.
type AddEntryInput struct {
	VaultID    string
	CurrencyID string
	Value      decimal.Decimal
	Note       string
	CreatedBy  string
}

// AddEntry records income (positive value) or expense (negative value).
func (uc *CoinUseCase) AddEntry(ctx context.Context, input AddEntryInput) (*domain.CoinEntry, error) {
	if err := domain.ValidateCoinValue(input.Value); err != nil {
		return nil, err
	}
	if err := domain.ValidateNote(input.Note); err != nil {
		return nil, err
	}

	currency, err := uc.currencyRepo.GetByID(ctx, input.CurrencyID)
	if err != nil {
		return nil, err
	}
	if currency.VaultID != input.VaultID {
		return nil, domain.ErrCurrencyNotFound
	}

	var entry *domain.CoinEntry
	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.vaultRepo.GetByIDForUpdate(ctx, tx, input.VaultID); err != nil {
			return err
		}

		if input.Value.IsNegative() {
			balances, err := uc.coinRepo.BalancesTx(ctx, tx, input.VaultID)
			if err != nil {
				return err
			}
			if balances.Get(input.CurrencyID).Add(input.Value).IsNegative() {
				return domain.ErrInsufficientCoin
			}
		}

		now := uc.now().UTC()
		entry = &domain.CoinEntry{
			ID:         uc.idGen.Generate(),
			VaultID:    input.VaultID,
			CurrencyID: input.CurrencyID,
			Value:      input.Value,
			Kind:       domain.EntryKindDeposit,
			Note:       input.Note,
			CreatedBy:  input.CreatedBy,
			CreatedAt:  now,
		}
		if err := uc.coinRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		event := domain.NewVaultEvent(uc.idGen.Generate(), input.VaultID, domain.EventTypeCoinAdded, map[string]any{
			"entry_id":    entry.ID,
			"currency_id": entry.CurrencyID,
			"value":       entry.Value.String(),
			"note":        entry.Note,
			"actor_id":    input.CreatedBy,
		}, now)
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.balances.invalidate(ctx, input.VaultID)
	uc.metrics.CoinEntriesWritten(string(domain.EntryKindDeposit), 1)

	return entry, nil
}

// ListEntriesInput represents input for listing coin entries.
type ListEntriesInput struct {
	VaultID         string
	IncludeArchived bool
	Limit           int
	Offset          int
}

// ListEntries lists the coin entries of a vault, oldest first.
func (uc *CoinUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.CoinEntry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.coinRepo.List(ctx, input.VaultID, input.IncludeArchived, limit, offset)
}

// SplitInput represents input for splitting a vault's coin.
type SplitInput struct {
	VaultID string
	// PartyMemberCount nil means the vault's members, excluding the owner.
	PartyMemberCount *int
	KeepPartyShare   bool
	// RemainderPolicy empty means the configured default.
	RemainderPolicy string
	CreatedBy       string
}

// Split divides the pooled coin of a vault into shares. Consumed entries are
// archived and the shares inserted in one transaction.
func (uc *CoinUseCase) Split(ctx context.Context, input SplitInput) (*domain.SplitPlan, error) {
	policy := uc.defaultPolicy
	if input.RemainderPolicy != "" {
		p, err := domain.ParseRemainderPolicy(input.RemainderPolicy)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	if input.PartyMemberCount != nil {
		if _, err := domain.ShareCount(*input.PartyMemberCount, input.KeepPartyShare); err != nil {
			return nil, err
		}
	}

	vault, err := uc.vaultRepo.GetByID(ctx, input.VaultID)
	if err != nil {
		return nil, err
	}

	var memberIDs []string
	memberCount := 0
	if input.PartyMemberCount != nil {
		memberCount = *input.PartyMemberCount
	} else {
		members, err := uc.memberRepo.ListByVault(ctx, vault.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.UserID != vault.OwnerID {
				memberIDs = append(memberIDs, m.UserID)
			}
		}
		memberCount = len(memberIDs)
		if _, err := domain.ShareCount(memberCount, input.KeepPartyShare); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	start := uc.now()
	var plan *domain.SplitPlan
	err = uc.retrier.Retry(ctx, func() error {
		p, err := uc.split(ctx, vault.ID, domain.SplitParams{
			PartyMemberCount: memberCount,
			MemberIDs:        memberIDs,
			KeepPartyShare:   input.KeepPartyShare,
			Policy:           policy,
			CreatedBy:        input.CreatedBy,
		})
		if err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !plan.IsEmpty() {
		uc.balances.invalidate(ctx, vault.ID)
		uc.metrics.SplitCompleted(string(plan.Mode), len(plan.Currencies), uc.now().Sub(start))
		written := make(map[domain.EntryKind]int)
		for _, e := range plan.NewEntries() {
			written[e.Kind]++
		}
		for kind, n := range written {
			uc.metrics.CoinEntriesWritten(string(kind), n)
		}
		uc.logger.InfoContext(ctx, "vault split",
			slog.String("vault_id", vault.ID),
			slog.String("split_id", plan.SplitID),
			slog.Int("shares", plan.ShareCount),
			slog.Int("currencies", len(plan.Currencies)))
	}

	return plan, nil
}

func (uc *CoinUseCase) split(ctx context.Context, vaultID string, params domain.SplitParams) (*domain.SplitPlan, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	vault, err := uc.vaultRepo.GetByIDForUpdate(ctx, tx, vaultID)
	if err != nil {
		return nil, err
	}

	currencies, err := uc.currencyRepo.ListByVaultTx(ctx, tx, vaultID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.coinRepo.ListUnarchivedTx(ctx, tx, vaultID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	params.SplitID = uc.idGen.Generate()
	params.Now = now

	plan, err := domain.PlanSplit(params, vault, currencies, entries, uc.idGen.Generate)
	if err != nil {
		return nil, err
	}
	if plan.IsEmpty() {
		return plan, nil
	}

	ids := plan.ArchivedIDs()
	archived, err := uc.coinRepo.Archive(ctx, tx, ids, plan.SplitID)
	if err != nil {
		return nil, err
	}
	if archived != int64(len(ids)) {
		return nil, domain.NewStoreError("archive entries", fmt.Errorf("archived %d of %d entries", archived, len(ids)))
	}

	for _, e := range plan.NewEntries() {
		if err := uc.coinRepo.Create(ctx, tx, e); err != nil {
			return nil, err
		}
	}

	event := domain.NewVaultEvent(uc.idGen.Generate(), vaultID, domain.EventTypeCoinSplit, domain.SplitPayload(plan, params.CreatedBy), now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return plan, nil
}

// noRetry runs an operation once.
type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}
