package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
)

// VaultUseCase handles vaults, memberships and permissions.
type VaultUseCase struct {
	txManager      TransactionManager
	vaultRepo      VaultRepository
	currencyRepo   CurrencyRepository
	memberRepo     MemberRepository
	permissionRepo PermissionRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
}

// NewVaultUseCase creates a new VaultUseCase.
func NewVaultUseCase(
	txManager TransactionManager,
	vaultRepo VaultRepository,
	currencyRepo CurrencyRepository,
	memberRepo MemberRepository,
	permissionRepo PermissionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *VaultUseCase {
	return &VaultUseCase{
		txManager:      txManager,
		vaultRepo:      vaultRepo,
		currencyRepo:   currencyRepo,
		memberRepo:     memberRepo,
		permissionRepo: permissionRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
	}
}

// CreateVaultInput represents input for creating a vault.
type CreateVaultInput struct {
	Name             string
	OwnerID          string
	MergeSplit       string
	BaseCurrencyName string
	BaseCurrencyCode string
}

// CreateVault creates a vault together with its base currency, default
// permission and owner membership.
func (uc *VaultUseCase) CreateVault(ctx context.Context, input CreateVaultInput) (*domain.Vault, error) {
	if err := domain.ValidateVaultName(input.Name); err != nil {
		return nil, err
	}

	mode := domain.MergeSplitPerCurrency
	if input.MergeSplit != "" {
		mode = domain.MergeSplitMode(input.MergeSplit)
		if !mode.IsValid() {
			return nil, domain.ErrInvalidMergeSplit
		}
	}

	one := decimal.NewFromInt(1)
	if err := domain.ValidateCurrencyFields(input.BaseCurrencyName, input.BaseCurrencyCode, one); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	vault := &domain.Vault{
		ID:         uc.idGen.Generate(),
		Name:       strings.TrimSpace(input.Name),
		OwnerID:    input.OwnerID,
		MergeSplit: mode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	base := &domain.Currency{
		ID:        uc.idGen.Generate(),
		VaultID:   vault.ID,
		Name:      strings.TrimSpace(input.BaseCurrencyName),
		Code:      domain.NormalizeCurrencyCode(input.BaseCurrencyCode),
		Rate:      one,
		CreatedAt: now,
		UpdatedAt: now,
	}
	vault.CommonCurrencyID = base.ID

	permission := domain.DefaultPermission(uc.idGen.Generate(), vault.ID, now)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.vaultRepo.Create(ctx, tx, vault); err != nil {
		return nil, err
	}
	if err := uc.currencyRepo.Create(ctx, tx, base); err != nil {
		return nil, err
	}
	if err := uc.permissionRepo.Create(ctx, tx, permission); err != nil {
		return nil, err
	}

	owner := &domain.Member{
		VaultID:      vault.ID,
		UserID:       input.OwnerID,
		PermissionID: permission.ID,
		JoinedAt:     now,
	}
	if err := uc.memberRepo.Add(ctx, tx, owner); err != nil {
		return nil, err
	}

	event := domain.NewVaultEvent(uc.idGen.Generate(), vault.ID, domain.EventTypeVaultCreated, map[string]any{
		"name":          vault.Name,
		"owner_id":      vault.OwnerID,
		"base_currency": base.Code,
	}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return vault, nil
}

// GetVault retrieves a vault by ID.
func (uc *VaultUseCase) GetVault(ctx context.Context, id string) (*domain.Vault, error) {
	return uc.vaultRepo.GetByID(ctx, id)
}

// ListVaults lists the vaults a user belongs to.
func (uc *VaultUseCase) ListVaults(ctx context.Context, userID string, limit, offset int) ([]*domain.Vault, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.vaultRepo.ListByMember(ctx, userID, limit, offset)
}

// UpdateVaultInput represents input for updating vault settings. Nil fields
// are left unchanged; an empty CommonCurrencyID clears the common currency.
type UpdateVaultInput struct {
	VaultID          string
	Name             *string
	MergeSplit       *string
	CommonCurrencyID *string
}

// UpdateVault updates vault settings.
func (uc *VaultUseCase) UpdateVault(ctx context.Context, input UpdateVaultInput) (*domain.Vault, error) {
	vault, err := uc.vaultRepo.GetByID(ctx, input.VaultID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateVaultName(*input.Name); err != nil {
			return nil, err
		}
		vault.Name = strings.TrimSpace(*input.Name)
	}

	if input.MergeSplit != nil {
		mode := domain.MergeSplitMode(*input.MergeSplit)
		if !mode.IsValid() {
			return nil, domain.ErrInvalidMergeSplit
		}
		vault.MergeSplit = mode
	}

	if input.CommonCurrencyID != nil {
		if id := *input.CommonCurrencyID; id != "" {
			currency, err := uc.currencyRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if currency.VaultID != vault.ID {
				return nil, domain.ErrCurrencyNotFound
			}
		}
		vault.CommonCurrencyID = *input.CommonCurrencyID
	}

	vault.UpdatedAt = time.Now().UTC()
	if err := uc.vaultRepo.Update(ctx, vault); err != nil {
		return nil, err
	}

	return vault, nil
}

// ResolveAccess resolves what a user may do in a vault. Users who are not
// members get ErrVaultNotFound so vault existence is not revealed.
func (uc *VaultUseCase) ResolveAccess(ctx context.Context, vaultID, userID string) (*domain.Access, error) {
	vault, err := uc.vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	if vault.OwnerID == userID {
		return &domain.Access{Vault: vault, UserID: userID, IsOwner: true, Caps: domain.FullCapabilities}, nil
	}

	member, err := uc.memberRepo.Get(ctx, vaultID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrVaultNotFound
		}
		return nil, err
	}

	permission, err := uc.permissionRepo.GetByID(ctx, member.PermissionID)
	if err != nil {
		return nil, err
	}

	return &domain.Access{Vault: vault, UserID: userID, Caps: permission.Caps}, nil
}

// ListMembers lists the members of a vault in join order.
func (uc *VaultUseCase) ListMembers(ctx context.Context, vaultID string) ([]*domain.Member, error) {
	return uc.memberRepo.ListByVault(ctx, vaultID)
}

// UpdateMemberPermission assigns another permission to a member.
func (uc *VaultUseCase) UpdateMemberPermission(ctx context.Context, vaultID, userID, permissionID string) error {
	vault, err := uc.vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		return err
	}
	if vault.OwnerID == userID {
		return domain.ErrOwnerNotRemovable
	}

	if _, err := uc.memberRepo.Get(ctx, vaultID, userID); err != nil {
		return err
	}

	if err := uc.checkPermission(ctx, vaultID, permissionID); err != nil {
		return err
	}

	return uc.memberRepo.UpdatePermission(ctx, vaultID, userID, permissionID)
}

// RemoveMember removes a member from a vault. The owner cannot be removed.
func (uc *VaultUseCase) RemoveMember(ctx context.Context, vaultID, userID, actorID string) error {
	vault, err := uc.vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		return err
	}
	if vault.OwnerID == userID {
		return domain.ErrOwnerNotRemovable
	}

	if _, err := uc.memberRepo.Get(ctx, vaultID, userID); err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.memberRepo.Remove(ctx, tx, vaultID, userID); err != nil {
		return err
	}

	event := domain.NewVaultEvent(uc.idGen.Generate(), vaultID, domain.EventTypeMemberRemoved, map[string]any{
		"user_id":  userID,
		"actor_id": actorID,
	}, time.Now().UTC())
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MaxPermissionNameLength bounds permission names.
const MaxPermissionNameLength = 64

// CreatePermissionInput represents input for creating a permission.
type CreatePermissionInput struct {
	VaultID string
	Name    string
	Caps    domain.Capabilities
}

// CreatePermission creates a named capability set in a vault.
func (uc *VaultUseCase) CreatePermission(ctx context.Context, input CreatePermissionInput) (*domain.Permission, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > MaxPermissionNameLength {
		return nil, fmt.Errorf("%w: permission name must be 1-%d characters", domain.ErrInvalidArgument, MaxPermissionNameLength)
	}

	if _, err := uc.vaultRepo.GetByID(ctx, input.VaultID); err != nil {
		return nil, err
	}

	permission := &domain.Permission{
		ID:        uc.idGen.Generate(),
		VaultID:   input.VaultID,
		Name:      name,
		Caps:      input.Caps,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.permissionRepo.Create(ctx, tx, permission); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return permission, nil
}

// ListPermissions lists the permissions of a vault.
func (uc *VaultUseCase) ListPermissions(ctx context.Context, vaultID string) ([]*domain.Permission, error) {
	return uc.permissionRepo.ListByVault(ctx, vaultID)
}

func (uc *VaultUseCase) checkPermission(ctx context.Context, vaultID, permissionID string) error {
	permission, err := uc.permissionRepo.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	if permission.VaultID != vaultID {
		return domain.ErrPermissionNotFound
	}
	return nil
}
