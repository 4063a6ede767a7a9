package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
)

// ItemUseCase handles treasures and valuables.
type ItemUseCase struct {
	txManager TransactionManager
	itemRepo  ItemRepository
	idGen     IDGenerator
}

// NewItemUseCase creates a new ItemUseCase.
func NewItemUseCase(txManager TransactionManager, itemRepo ItemRepository, idGen IDGenerator) *ItemUseCase {
	return &ItemUseCase{
		txManager: txManager,
		itemRepo:  itemRepo,
		idGen:     idGen,
	}
}

// CreateItemInput represents input for creating an item.
type CreateItemInput struct {
	VaultID     string
	Kind        string
	Name        string
	Description string
	Quantity    int
	Value       decimal.Decimal
}

// CreateItem adds an item to a vault.
func (uc *ItemUseCase) CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	now := time.Now().UTC()
	item := &domain.Item{
		ID:          uc.idGen.Generate(),
		VaultID:     input.VaultID,
		Kind:        domain.ItemKind(input.Kind),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Quantity:    input.Quantity,
		Value:       input.Value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.itemRepo.Create(ctx, tx, item); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return item, nil
}

// GetItem retrieves an item of a vault.
func (uc *ItemUseCase) GetItem(ctx context.Context, vaultID, id string) (*domain.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.VaultID != vaultID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// ListItems lists the items of a vault, optionally filtered by kind.
func (uc *ItemUseCase) ListItems(ctx context.Context, vaultID, kind string) ([]*domain.Item, error) {
	k := domain.ItemKind(kind)
	if kind != "" && !k.IsValid() {
		return nil, domain.ErrInvalidItemKind
	}
	return uc.itemRepo.ListByVault(ctx, vaultID, k)
}

// UpdateItemInput represents input for updating an item. Nil fields are left
// unchanged.
type UpdateItemInput struct {
	VaultID     string
	ItemID      string
	Kind        *string
	Name        *string
	Description *string
	Quantity    *int
	Value       *decimal.Decimal
}

// UpdateItem edits an item.
func (uc *ItemUseCase) UpdateItem(ctx context.Context, input UpdateItemInput) (*domain.Item, error) {
	item, err := uc.GetItem(ctx, input.VaultID, input.ItemID)
	if err != nil {
		return nil, err
	}

	if input.Kind != nil {
		item.Kind = domain.ItemKind(*input.Kind)
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Value != nil {
		item.Value = *input.Value
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.UpdatedAt = time.Now().UTC()
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes an item from a vault.
func (uc *ItemUseCase) DeleteItem(ctx context.Context, vaultID, id string) error {
	if _, err := uc.GetItem(ctx, vaultID, id); err != nil {
		return err
	}
	return uc.itemRepo.Delete(ctx, id)
}
