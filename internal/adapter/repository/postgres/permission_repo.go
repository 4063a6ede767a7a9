package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// PermissionRepository implements usecase.PermissionRepository.
type PermissionRepository struct {
	db generated.DBTX
}

// NewPermissionRepository creates a new PermissionRepository.
func NewPermissionRepository(db generated.DBTX) *PermissionRepository {
	return &PermissionRepository{db: db}
}

const permissionSelect = `
	SELECT id, vault_id, name, can_edit_coin, can_edit_items, can_split, can_transfer, can_invite, can_manage, created_at
	FROM permissions
`

// Create inserts a permission.
func (r *PermissionRepository) Create(ctx context.Context, tx usecase.Transaction, permission *domain.Permission) error {
	query := `
		INSERT INTO permissions (id, vault_id, name, can_edit_coin, can_edit_items, can_split, can_transfer, can_invite, can_manage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	c := permission.Caps
	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		permission.ID,
		permission.VaultID,
		permission.Name,
		c.EditCoin,
		c.EditItems,
		c.Split,
		c.Transfer,
		c.Invite,
		c.Manage,
		permission.CreatedAt,
	)

	return storeErr("create permission", err)
}

// GetByID retrieves a permission by ID.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	p, err := scanPermission(r.db.QueryRow(ctx, permissionSelect+`WHERE id = $1`, id))
	if err != nil {
		return nil, notFound("get permission", err, domain.ErrPermissionNotFound)
	}

	return p, nil
}

// GetByName retrieves a vault's permission by name.
func (r *PermissionRepository) GetByName(ctx context.Context, vaultID, name string) (*domain.Permission, error) {
	p, err := scanPermission(r.db.QueryRow(ctx, permissionSelect+`WHERE vault_id = $1 AND name = $2`, vaultID, name))
	if err != nil {
		return nil, notFound("get permission", err, domain.ErrPermissionNotFound)
	}

	return p, nil
}

// ListByVault lists a vault's permissions in creation order.
func (r *PermissionRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Permission, error) {
	rows, err := r.db.Query(ctx, permissionSelect+`WHERE vault_id = $1 ORDER BY created_at, id`, vaultID)
	if err != nil {
		return nil, storeErr("list permissions", err)
	}
	defer rows.Close()

	var permissions []*domain.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, storeErr("list permissions", err)
		}
		permissions = append(permissions, p)
	}

	return permissions, storeErr("list permissions", rows.Err())
}

func scanPermission(row pgx.Row) (*domain.Permission, error) {
	var p domain.Permission
	err := row.Scan(
		&p.ID,
		&p.VaultID,
		&p.Name,
		&p.Caps.EditCoin,
		&p.Caps.EditItems,
		&p.Caps.Split,
		&p.Caps.Transfer,
		&p.Caps.Invite,
		&p.Caps.Manage,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
