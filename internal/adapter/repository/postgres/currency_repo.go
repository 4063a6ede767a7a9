package postgres

import (
	"context"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/postgres/generated"
	"github.com/iho/partytreasury/internal/usecase"
)

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	queries *generated.Queries
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(db generated.DBTX) *CurrencyRepository {
	return &CurrencyRepository{queries: generated.New(db)}
}

// Create creates a new currency.
func (r *CurrencyRepository) Create(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error {
	err := txQueries(tx).CreateCurrency(ctx, generated.CreateCurrencyParams{
		ID:        currency.ID,
		VaultID:   currency.VaultID,
		Name:      currency.Name,
		Code:      currency.Code,
		Rate:      decimalToNumeric(currency.Rate),
		CreatedAt: timeToPgTimestamptz(currency.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(currency.UpdatedAt),
	})
	if err != nil {
		return uniqueOr("create currency", err, domain.ErrDuplicateCurrencyCode)
	}

	return nil
}

// GetByID retrieves a currency by ID.
func (r *CurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	row, err := r.queries.GetCurrencyByID(ctx, id)
	if err != nil {
		return nil, notFound("get currency", err, domain.ErrCurrencyNotFound)
	}

	return rowToCurrency(row), nil
}

// ListByVault lists a vault's currencies, smallest rate first.
func (r *CurrencyRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Currency, error) {
	return listCurrencies(ctx, r.queries, vaultID)
}

// ListByVaultTx lists a vault's currencies inside tx.
func (r *CurrencyRepository) ListByVaultTx(ctx context.Context, tx usecase.Transaction, vaultID string) ([]*domain.Currency, error) {
	return listCurrencies(ctx, txQueries(tx), vaultID)
}

// Update saves a currency's name, code and rate.
func (r *CurrencyRepository) Update(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error {
	n, err := txQueries(tx).UpdateCurrency(ctx, generated.UpdateCurrencyParams{
		ID:        currency.ID,
		Name:      currency.Name,
		Code:      currency.Code,
		Rate:      decimalToNumeric(currency.Rate),
		UpdatedAt: timeToPgTimestamptz(currency.UpdatedAt),
	})
	if err != nil {
		return uniqueOr("update currency", err, domain.ErrDuplicateCurrencyCode)
	}
	if n == 0 {
		return domain.ErrCurrencyNotFound
	}

	return nil
}

func listCurrencies(ctx context.Context, queries *generated.Queries, vaultID string) ([]*domain.Currency, error) {
	rows, err := queries.ListCurrenciesByVault(ctx, vaultID)
	if err != nil {
		return nil, storeErr("list currencies", err)
	}

	currencies := make([]*domain.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, rowToCurrency(row))
	}

	return currencies, nil
}

func rowToCurrency(row generated.Currency) *domain.Currency {
	return &domain.Currency{
		ID:        row.ID,
		VaultID:   row.VaultID,
		Name:      row.Name,
		Code:      row.Code,
		Rate:      numericToDecimal(row.Rate),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
