package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// VaultTransferRepository implements usecase.VaultTransferRepository.
type VaultTransferRepository struct {
	db generated.DBTX
}

// NewVaultTransferRepository creates a new VaultTransferRepository.
func NewVaultTransferRepository(db generated.DBTX) *VaultTransferRepository {
	return &VaultTransferRepository{db: db}
}

const vaultTransferSelect = `
	SELECT id, from_vault_id, to_vault_id, coins, item_ids, note, created_by, created_at
	FROM vault_transfers
`

// transferCoin is the stored form of a domain.CoinAmount.
type transferCoin struct {
	CurrencyID string `json:"currency_id"`
	Value      string `json:"value"`
}

// Create inserts a transfer record.
func (r *VaultTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.VaultTransfer) error {
	coins := make([]transferCoin, 0, len(transfer.Coins))
	for _, c := range transfer.Coins {
		coins = append(coins, transferCoin{CurrencyID: c.CurrencyID, Value: c.Value.String()})
	}
	coinsJSON, err := json.Marshal(coins)
	if err != nil {
		return err
	}

	itemIDs := transfer.ItemIDs
	if itemIDs == nil {
		itemIDs = []string{}
	}

	query := `
		INSERT INTO vault_transfers (id, from_vault_id, to_vault_id, coins, item_ids, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		transfer.ID,
		transfer.FromVaultID,
		transfer.ToVaultID,
		coinsJSON,
		itemIDs,
		transfer.Note,
		transfer.CreatedBy,
		transfer.CreatedAt,
	)

	return storeErr("create vault transfer", err)
}

// GetByID retrieves a transfer by ID.
func (r *VaultTransferRepository) GetByID(ctx context.Context, id string) (*domain.VaultTransfer, error) {
	transfer, err := scanVaultTransfer(r.db.QueryRow(ctx, vaultTransferSelect+`WHERE id = $1`, id))
	if err != nil {
		return nil, notFound("get vault transfer", err, domain.ErrTransferNotFound)
	}

	return transfer, nil
}

// ListByVault lists transfers into or out of a vault, newest first.
func (r *VaultTransferRepository) ListByVault(ctx context.Context, vaultID string, limit, offset int) ([]*domain.VaultTransfer, error) {
	query := vaultTransferSelect + `
		WHERE from_vault_id = $1 OR to_vault_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, vaultID, limit, offset)
	if err != nil {
		return nil, storeErr("list vault transfers", err)
	}
	defer rows.Close()

	var transfers []*domain.VaultTransfer
	for rows.Next() {
		transfer, err := scanVaultTransfer(rows)
		if err != nil {
			return nil, storeErr("list vault transfers", err)
		}
		transfers = append(transfers, transfer)
	}

	return transfers, storeErr("list vault transfers", rows.Err())
}

func scanVaultTransfer(row pgx.Row) (*domain.VaultTransfer, error) {
	var (
		t         domain.VaultTransfer
		coinsJSON []byte
	)
	err := row.Scan(
		&t.ID,
		&t.FromVaultID,
		&t.ToVaultID,
		&coinsJSON,
		&t.ItemIDs,
		&t.Note,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	var coins []transferCoin
	if err := json.Unmarshal(coinsJSON, &coins); err != nil {
		return nil, err
	}
	for _, c := range coins {
		value, err := decimal.NewFromString(c.Value)
		if err != nil {
			return nil, err
		}
		t.Coins = append(t.Coins, domain.CoinAmount{CurrencyID: c.CurrencyID, Value: value})
	}

	return &t, nil
}
