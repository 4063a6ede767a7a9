package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// ItemRepository implements usecase.ItemRepository.
type ItemRepository struct {
	db generated.DBTX
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db generated.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemSelect = `
	SELECT id, vault_id, kind, name, description, quantity, value, created_at, updated_at
	FROM items
`

// Create inserts an item.
func (r *ItemRepository) Create(ctx context.Context, tx usecase.Transaction, item *domain.Item) error {
	query := `
		INSERT INTO items (id, vault_id, kind, name, description, quantity, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		item.ID,
		item.VaultID,
		string(item.Kind),
		item.Name,
		item.Description,
		int32(item.Quantity),
		decimalToNumeric(item.Value),
		item.CreatedAt,
		item.UpdatedAt,
	)

	return storeErr("create item", err)
}

// GetByID retrieves an item by ID.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, itemSelect+`WHERE id = $1`, id))
	if err != nil {
		return nil, notFound("get item", err, domain.ErrItemNotFound)
	}

	return item, nil
}

// ListByVault lists a vault's items of one kind, or all kinds when kind is empty.
func (r *ItemRepository) ListByVault(ctx context.Context, vaultID string, kind domain.ItemKind) ([]*domain.Item, error) {
	query := itemSelect + `WHERE vault_id = $1 AND ($2::text = '' OR kind = $2::text) ORDER BY created_at, id`
	return r.list(ctx, r.db, query, vaultID, string(kind))
}

// GetByIDsForUpdate locks several items in id order.
func (r *ItemRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Item, error) {
	query := itemSelect + `WHERE id = ANY($1::text[]) ORDER BY id FOR UPDATE`
	return r.list(ctx, tx.(*Tx).PgxTx(), query, ids)
}

// Update saves an item's editable fields.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items
		SET kind = $2, name = $3, description = $4, quantity = $5, value = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		item.ID,
		string(item.Kind),
		item.Name,
		item.Description,
		int32(item.Quantity),
		decimalToNumeric(item.Value),
		item.UpdatedAt,
	)
	if err != nil {
		return storeErr("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

// Move reassigns items to another vault.
func (r *ItemRepository) Move(ctx context.Context, tx usecase.Transaction, ids []string, toVaultID string, at time.Time) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx,
		`UPDATE items SET vault_id = $2, updated_at = $3 WHERE id = ANY($1::text[])`,
		ids, toVaultID, at,
	)

	return storeErr("move items", err)
}

// Delete removes an item.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *ItemRepository) list(ctx context.Context, db generated.DBTX, query string, args ...any) ([]*domain.Item, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list items", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storeErr("list items", err)
		}
		items = append(items, item)
	}

	return items, storeErr("list items", rows.Err())
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		item     domain.Item
		kind     string
		quantity int32
		value    pgtype.Numeric
	)
	err := row.Scan(
		&item.ID,
		&item.VaultID,
		&kind,
		&item.Name,
		&item.Description,
		&quantity,
		&value,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Kind = domain.ItemKind(kind)
	item.Quantity = int(quantity)
	item.Value = numericToDecimal(value)
	return &item, nil
}
