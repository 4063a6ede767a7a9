package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a coin entry.
type EntryKind string

const (
	EntryKindDeposit     EntryKind = "deposit"
	EntryKindReward      EntryKind = "reward"
	EntryKindTransferIn  EntryKind = "transfer_in"
	EntryKindTransferOut EntryKind = "transfer_out"
	EntryKindShare       EntryKind = "share"
	EntryKindTreasury    EntryKind = "treasury"
	EntryKindRemainder   EntryKind = "remainder"
)

// IsPooled reports whether entries of this kind count towards the vault pool.
// Share entries record payouts to party members and never do.
func (k EntryKind) IsPooled() bool {
	return k != EntryKindShare
}

// CoinEntry is one ledger line. Entries are append-only; a split only flips
// Archived and records which split consumed them.
type CoinEntry struct {
	ID              string
	VaultID         string
	CurrencyID      string
	Value           decimal.Decimal
	Kind            EntryKind
	MemberID        string
	SplitID         string
	TransferID      string
	ArchivedBySplit string
	Note            string
	Archived        bool
	CreatedBy       string
	CreatedAt       time.Time
}

// Balances maps currency id to amount.
type Balances map[string]decimal.Decimal

// Get returns the balance for a currency, zero when absent.
func (b Balances) Get(currencyID string) decimal.Decimal {
	if v, ok := b[currencyID]; ok {
		return v
	}
	return decimal.Zero
}

// ToBase converts every balance into base units and sums them. Balances of
// unknown currencies are ignored.
func (b Balances) ToBase(currencies []*Currency) decimal.Decimal {
	idx := CurrencyIndex(currencies)
	total := decimal.Zero
	for id, amount := range b {
		if c, ok := idx[id]; ok {
			total = total.Add(c.ToBase(amount))
		}
	}
	return total
}

// SumBalances aggregates unarchived pooled entries per currency.
func SumBalances(entries []*CoinEntry) Balances {
	out := make(Balances)
	for _, e := range entries {
		if e.Archived || !e.Kind.IsPooled() {
			continue
		}
		out[e.CurrencyID] = out.Get(e.CurrencyID).Add(e.Value)
	}
	return out
}
