package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
)

// TransferUseCase moves coin and items between vaults.
type TransferUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	vaultRepo    VaultRepository
	currencyRepo CurrencyRepository
	coinRepo     CoinRepository
	itemRepo     ItemRepository
	transferRepo VaultTransferRepository
	outboxRepo   OutboxRepository
	access       AccessResolver
	idGen        IDGenerator
	balances     *balanceCache
	metrics      Metrics
}

// TransferUseCaseConfig holds the dependencies of TransferUseCase.
type TransferUseCaseConfig struct {
	TxManager    TransactionManager
	Retrier      Retrier
	VaultRepo    VaultRepository
	CurrencyRepo CurrencyRepository
	CoinRepo     CoinRepository
	ItemRepo     ItemRepository
	TransferRepo VaultTransferRepository
	OutboxRepo   OutboxRepository
	Access       AccessResolver
	IDGen        IDGenerator
	Cache        Cache
	Metrics      Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(cfg TransferUseCaseConfig) *TransferUseCase {
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}

	return &TransferUseCase{
		txManager:    cfg.TxManager,
		retrier:      cfg.Retrier,
		vaultRepo:    cfg.VaultRepo,
		currencyRepo: cfg.CurrencyRepo,
		coinRepo:     cfg.CoinRepo,
		itemRepo:     cfg.ItemRepo,
		transferRepo: cfg.TransferRepo,
		outboxRepo:   cfg.OutboxRepo,
		access:       cfg.Access,
		idGen:        cfg.IDGen,
		balances:     newBalanceCache(cfg.Cache, 0, nil, cfg.Metrics),
		metrics:      cfg.Metrics,
	}
}

// CreateTransferInput represents input for a vault transfer.
type CreateTransferInput struct {
	FromVaultID string
	ToVaultID   string
	Coins       []domain.CoinAmount
	ItemIDs     []string
	Note        string
	CreatedBy   string
}

// CreateTransfer moves coin and items from one vault to another atomically.
// Coin lands in the target currency with the same code.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.VaultTransfer, error) {
	// 0. Validate inputs before starting transaction
	transfer := &domain.VaultTransfer{
		FromVaultID: input.FromVaultID,
		ToVaultID:   input.ToVaultID,
		Coins:       input.Coins,
		ItemIDs:     input.ItemIDs,
		Note:        input.Note,
		CreatedBy:   input.CreatedBy,
	}
	if err := transfer.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateNote(input.Note); err != nil {
		return nil, err
	}

	// The caller must at least be a member of the target vault.
	if uc.access != nil && input.CreatedBy != "" {
		if _, err := uc.access.ResolveAccess(ctx, input.ToVaultID, input.CreatedBy); err != nil {
			return nil, err
		}
	}

	// 1. Sort vault IDs (DEADLOCK PREVENTION)
	vaultIDs := []string{input.FromVaultID, input.ToVaultID}
	sort.Strings(vaultIDs)

	err := uc.retrier.Retry(ctx, func() error {
		transfer.ID = uc.idGen.Generate()
		transfer.CreatedAt = time.Now().UTC()
		return uc.processTransfer(ctx, vaultIDs, transfer)
	})
	if err != nil {
		return nil, err
	}

	uc.balances.invalidate(ctx, input.FromVaultID, input.ToVaultID)
	uc.metrics.CoinEntriesWritten(string(domain.EntryKindTransferOut), len(transfer.Coins))
	uc.metrics.CoinEntriesWritten(string(domain.EntryKindTransferIn), len(transfer.Coins))

	return transfer, nil
}

func (uc *TransferUseCase) processTransfer(ctx context.Context, vaultIDs []string, transfer *domain.VaultTransfer) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// 2. Lock vaults in sorted order
	vaults, err := uc.vaultRepo.GetByIDsForUpdate(ctx, tx, vaultIDs)
	if err != nil {
		return err
	}
	if len(vaults) != len(vaultIDs) {
		return domain.ErrVaultNotFound
	}

	fromCurrencies, err := uc.currencyRepo.ListByVaultTx(ctx, tx, transfer.FromVaultID)
	if err != nil {
		return err
	}
	toCurrencies, err := uc.currencyRepo.ListByVaultTx(ctx, tx, transfer.ToVaultID)
	if err != nil {
		return err
	}

	balances, err := uc.coinRepo.BalancesTx(ctx, tx, transfer.FromVaultID)
	if err != nil {
		return err
	}

	// 3. Resolve target currencies and check the source can cover every line
	fromIdx := domain.CurrencyIndex(fromCurrencies)
	requested := make(map[string]decimal.Decimal)
	targets := make(map[string]*domain.Currency)
	for _, c := range transfer.Coins {
		src, ok := fromIdx[c.CurrencyID]
		if !ok {
			return domain.ErrCurrencyNotFound
		}

		dst := domain.FindCurrencyByCode(toCurrencies, src.Code)
		if dst == nil {
			return domain.ErrCurrencyMismatch
		}
		targets[src.ID] = dst

		total, ok := requested[src.ID]
		if !ok {
			total = decimal.Zero
		}
		requested[src.ID] = total.Add(c.Value)
	}
	for currencyID, amount := range requested {
		if balances.Get(currencyID).LessThan(amount) {
			return domain.ErrInsufficientCoin
		}
	}

	// 4. Move items
	if len(transfer.ItemIDs) > 0 {
		items, err := uc.itemRepo.GetByIDsForUpdate(ctx, tx, transfer.ItemIDs)
		if err != nil {
			return err
		}
		if len(items) != len(transfer.ItemIDs) {
			return domain.ErrItemNotFound
		}
		for _, it := range items {
			if it.VaultID != transfer.FromVaultID {
				return domain.ErrItemNotFound
			}
		}
		if err := uc.itemRepo.Move(ctx, tx, transfer.ItemIDs, transfer.ToVaultID, transfer.CreatedAt); err != nil {
			return err
		}
	}

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return err
	}

	// 5. Write paired coin entries
	for _, c := range transfer.Coins {
		out := &domain.CoinEntry{
			ID:         uc.idGen.Generate(),
			VaultID:    transfer.FromVaultID,
			CurrencyID: c.CurrencyID,
			Value:      c.Value.Neg(),
			Kind:       domain.EntryKindTransferOut,
			TransferID: transfer.ID,
			Note:       transfer.Note,
			CreatedBy:  transfer.CreatedBy,
			CreatedAt:  transfer.CreatedAt,
		}
		if err := uc.coinRepo.Create(ctx, tx, out); err != nil {
			return err
		}

		in := &domain.CoinEntry{
			ID:         uc.idGen.Generate(),
			VaultID:    transfer.ToVaultID,
			CurrencyID: targets[c.CurrencyID].ID,
			Value:      c.Value,
			Kind:       domain.EntryKindTransferIn,
			TransferID: transfer.ID,
			Note:       transfer.Note,
			CreatedBy:  transfer.CreatedBy,
			CreatedAt:  transfer.CreatedAt,
		}
		if err := uc.coinRepo.Create(ctx, tx, in); err != nil {
			return err
		}
	}

	// 6. Record the transfer on both vaults
	payload := transferPayload(transfer, fromIdx)
	for _, vaultID := range []string{transfer.FromVaultID, transfer.ToVaultID} {
		event := domain.NewVaultEvent(uc.idGen.Generate(), vaultID, domain.EventTypeVaultTransfer, payload, transfer.CreatedAt)
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func transferPayload(transfer *domain.VaultTransfer, currencies map[string]*domain.Currency) map[string]any {
	coins := make([]map[string]any, 0, len(transfer.Coins))
	for _, c := range transfer.Coins {
		code := ""
		if cur, ok := currencies[c.CurrencyID]; ok {
			code = cur.Code
		}
		coins = append(coins, map[string]any{
			"currency_id": c.CurrencyID,
			"code":        code,
			"value":       c.Value.String(),
		})
	}

	return map[string]any{
		"transfer_id":   transfer.ID,
		"from_vault_id": transfer.FromVaultID,
		"to_vault_id":   transfer.ToVaultID,
		"coins":         coins,
		"item_ids":      transfer.ItemIDs,
		"note":          transfer.Note,
		"actor_id":      transfer.CreatedBy,
	}
}

// GetTransfer retrieves a transfer that touches the given vault.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, vaultID, id string) (*domain.VaultTransfer, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer.FromVaultID != vaultID && transfer.ToVaultID != vaultID {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, nil
}

// ListTransfersInput represents input for listing transfers.
type ListTransfersInput struct {
	VaultID string
	Limit   int
	Offset  int
}

// ListTransfers lists transfers into or out of a vault.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, input ListTransfersInput) ([]*domain.VaultTransfer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.transferRepo.ListByVault(ctx, input.VaultID, limit, offset)
}
