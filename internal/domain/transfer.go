package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinAmount is an amount of one currency.
type CoinAmount struct {
	CurrencyID string
	Value      decimal.Decimal
}

// VaultTransfer moves coin and items from one vault to another.
type VaultTransfer struct {
	ID          string
	FromVaultID string
	ToVaultID   string
	Coins       []CoinAmount
	ItemIDs     []string
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}

// Validate validates the transfer request.
func (t *VaultTransfer) Validate() error {
	if t.FromVaultID == t.ToVaultID {
		return ErrSameVault
	}

	if len(t.Coins) == 0 && len(t.ItemIDs) == 0 {
		return ErrEmptyTransfer
	}

	for _, c := range t.Coins {
		if !c.Value.IsPositive() {
			return ErrInvalidAmount
		}
	}

	return nil
}
