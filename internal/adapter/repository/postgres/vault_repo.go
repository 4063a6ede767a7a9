package postgres

import (
	"context"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// VaultRepository implements usecase.VaultRepository.
type VaultRepository struct {
	queries *generated.Queries
}

// NewVaultRepository creates a new VaultRepository. db is usually a *pgxpool.Pool.
func NewVaultRepository(db generated.DBTX) *VaultRepository {
	return &VaultRepository{
		queries: generated.New(db),
	}
}

// Create creates a new vault.
func (r *VaultRepository) Create(ctx context.Context, tx usecase.Transaction, vault *domain.Vault) error {
	err := txQueries(tx).CreateVault(ctx, generated.CreateVaultParams{
		ID:               vault.ID,
		Name:             vault.Name,
		OwnerID:          vault.OwnerID,
		MergeSplit:       string(vault.MergeSplit),
		CommonCurrencyID: vault.CommonCurrencyID,
		CreatedAt:        timeToPgTimestamptz(vault.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(vault.UpdatedAt),
	})

	return storeErr("create vault", err)
}

// GetByID retrieves a vault by ID.
func (r *VaultRepository) GetByID(ctx context.Context, id string) (*domain.Vault, error) {
	row, err := r.queries.GetVaultByID(ctx, id)
	if err != nil {
		return nil, notFound("get vault", err, domain.ErrVaultNotFound)
	}

	return rowToVault(row), nil
}

// GetByIDForUpdate retrieves a vault by ID with a FOR UPDATE lock.
func (r *VaultRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Vault, error) {
	row, err := txQueries(tx).GetVaultByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFound("lock vault", err, domain.ErrVaultNotFound)
	}

	return rowToVault(row), nil
}

// GetByIDsForUpdate locks several vaults in id order.
func (r *VaultRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Vault, error) {
	rows, err := txQueries(tx).GetVaultsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, storeErr("lock vaults", err)
	}

	vaults := make([]*domain.Vault, 0, len(rows))
	for _, row := range rows {
		vaults = append(vaults, rowToVault(row))
	}

	return vaults, nil
}

// Update saves the mutable vault settings.
func (r *VaultRepository) Update(ctx context.Context, vault *domain.Vault) error {
	n, err := r.queries.UpdateVault(ctx, generated.UpdateVaultParams{
		ID:               vault.ID,
		Name:             vault.Name,
		MergeSplit:       string(vault.MergeSplit),
		CommonCurrencyID: vault.CommonCurrencyID,
		UpdatedAt:        timeToPgTimestamptz(vault.UpdatedAt),
	})
	if err != nil {
		return storeErr("update vault", err)
	}
	if n == 0 {
		return domain.ErrVaultNotFound
	}

	return nil
}

// ListByMember lists the vaults a user belongs to.
func (r *VaultRepository) ListByMember(ctx context.Context, userID string, limit, offset int) ([]*domain.Vault, error) {
	rows, err := r.queries.ListVaultsByMember(ctx, generated.ListVaultsByMemberParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, storeErr("list vaults", err)
	}

	vaults := make([]*domain.Vault, 0, len(rows))
	for _, row := range rows {
		vaults = append(vaults, rowToVault(row))
	}

	return vaults, nil
}

func rowToVault(row generated.Vault) *domain.Vault {
	return &domain.Vault{
		ID:               row.ID,
		Name:             row.Name,
		OwnerID:          row.OwnerID,
		MergeSplit:       domain.MergeSplitMode(row.MergeSplit),
		CommonCurrencyID: row.CommonCurrencyID,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}
