package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RemainderPolicy decides what happens to the floor-division remainder.
type RemainderPolicy string

const (
	// RemainderDiscard leaves the remainder inside the archived entries.
	RemainderDiscard RemainderPolicy = "discard"
	// RemainderRetain reinserts the remainder as a pooled entry.
	RemainderRetain RemainderPolicy = "retain"
	// RemainderFirstShare adds the remainder to the first share.
	RemainderFirstShare RemainderPolicy = "first_share"
)

// ParseRemainderPolicy parses a policy name.
func ParseRemainderPolicy(s string) (RemainderPolicy, error) {
	switch p := RemainderPolicy(s); p {
	case RemainderDiscard, RemainderRetain, RemainderFirstShare:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// MaxPartyMembers caps the member shares of one split. Each share is a row
// written inside the split transaction.
const MaxPartyMembers = 100

// ShareCount returns the number of shares a split divides into.
func ShareCount(partyMembers int, keepPartyShare bool) (int, error) {
	n := partyMembers
	if keepPartyShare {
		n++
	}
	if partyMembers < 0 || n <= 0 {
		return 0, ErrInvalidShareCount
	}
	if partyMembers > MaxPartyMembers {
		return 0, fmt.Errorf("%w: at most %d party members", ErrInvalidShareCount, MaxPartyMembers)
	}
	return n, nil
}

// SplitParams are the inputs of PlanSplit.
type SplitParams struct {
	SplitID          string
	Mode             MergeSplitMode
	PartyMemberCount int
	// MemberIDs optionally names the recipient of each member share, in order.
	MemberIDs      []string
	KeepPartyShare bool
	Policy         RemainderPolicy
	CreatedBy      string
	Now            time.Time
}

// CurrencySplit is the outcome for one currency (or the base total in base mode).
type CurrencySplit struct {
	CurrencyID       string
	Balance          decimal.Decimal
	PerShare         decimal.Decimal
	MemberShares     int
	Treasury         decimal.Decimal
	Remainder        decimal.Decimal
	Unaccounted      decimal.Decimal
	ArchivedEntryIDs []string
	Inserted         []*CoinEntry
}

// InsertedTotal sums the values of the inserted entries.
func (s *CurrencySplit) InsertedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Inserted {
		total = total.Add(e.Value)
	}
	return total
}

// Conserves reports whether inserted value plus unaccounted remainder equals
// the balance before the split.
func (s *CurrencySplit) Conserves() bool {
	return s.InsertedTotal().Add(s.Unaccounted).Equal(s.Balance)
}

// SplitPlan is the full, not yet persisted, result of a split.
type SplitPlan struct {
	SplitID    string
	Mode       MergeSplitMode
	ShareCount int
	Policy     RemainderPolicy
	Currencies []*CurrencySplit
}

// IsEmpty reports whether the split changes nothing.
func (p *SplitPlan) IsEmpty() bool {
	return len(p.Currencies) == 0
}

// ArchivedIDs returns every entry id the split consumes.
func (p *SplitPlan) ArchivedIDs() []string {
	var ids []string
	for _, c := range p.Currencies {
		ids = append(ids, c.ArchivedEntryIDs...)
	}
	return ids
}

// NewEntries returns every entry the split inserts.
func (p *SplitPlan) NewEntries() []*CoinEntry {
	var out []*CoinEntry
	for _, c := range p.Currencies {
		out = append(out, c.Inserted...)
	}
	return out
}

// PlanSplit divides the pooled balance of a vault into shares. It does not
// touch storage; entries are the vault's unarchived entries and currencies its
// currency list. newID must return a fresh id on every call.
func PlanSplit(params SplitParams, vault *Vault, currencies []*Currency, entries []*CoinEntry, newID func() string) (*SplitPlan, error) {
	shareCount, err := ShareCount(params.PartyMemberCount, params.KeepPartyShare)
	if err != nil {
		return nil, err
	}
	if len(params.MemberIDs) > 0 && len(params.MemberIDs) != params.PartyMemberCount {
		return nil, fmt.Errorf("%w: %d member ids for %d members", ErrInvalidArgument, len(params.MemberIDs), params.PartyMemberCount)
	}
	if _, err := ParseRemainderPolicy(string(params.Policy)); err != nil {
		return nil, err
	}

	mode := params.Mode
	if mode == "" {
		mode = vault.MergeSplit
	}
	if !mode.IsValid() {
		return nil, ErrInvalidMergeSplit
	}

	plan := &SplitPlan{
		SplitID:    params.SplitID,
		Mode:       mode,
		ShareCount: shareCount,
		Policy:     params.Policy,
	}

	pooled := make(map[string][]*CoinEntry)
	for _, e := range entries {
		if e.Archived || !e.Kind.IsPooled() {
			continue
		}
		pooled[e.CurrencyID] = append(pooled[e.CurrencyID], e)
	}
	if len(pooled) == 0 {
		return plan, nil
	}

	if mode == MergeSplitBase {
		base, err := BaseCurrency(currencies)
		if err != nil {
			return nil, err
		}

		total := decimal.Zero
		var consumed []string
		for _, c := range currencies {
			for _, e := range pooled[c.ID] {
				total = total.Add(c.ToBase(e.Value))
				consumed = append(consumed, e.ID)
			}
		}

		if cs := splitAmount(params, base.ID, total, shareCount, consumed, vault.ID, newID); cs != nil {
			plan.Currencies = append(plan.Currencies, cs)
		}
		return plan, nil
	}

	// Iterate in currency-list order so results are deterministic.
	for _, c := range currencies {
		group := pooled[c.ID]
		if len(group) == 0 {
			continue
		}

		balance := decimal.Zero
		ids := make([]string, 0, len(group))
		for _, e := range group {
			balance = balance.Add(e.Value)
			ids = append(ids, e.ID)
		}

		if cs := splitAmount(params, c.ID, balance, shareCount, ids, vault.ID, newID); cs != nil {
			plan.Currencies = append(plan.Currencies, cs)
		}
	}

	return plan, nil
}

// splitAmount returns nil when balance is not positive or a share would be zero.
func splitAmount(params SplitParams, currencyID string, balance decimal.Decimal, shareCount int, consumed []string, vaultID string, newID func() string) *CurrencySplit {
	if !balance.IsPositive() {
		return nil
	}

	perShare, remainder := balance.QuoRem(decimal.NewFromInt(int64(shareCount)), 0)
	if !perShare.IsPositive() {
		return nil
	}

	cs := &CurrencySplit{
		CurrencyID:       currencyID,
		Balance:          balance,
		PerShare:         perShare,
		MemberShares:     params.PartyMemberCount,
		Treasury:         decimal.Zero,
		Remainder:        remainder,
		Unaccounted:      decimal.Zero,
		ArchivedEntryIDs: consumed,
	}

	newEntry := func(kind EntryKind, memberID string, value decimal.Decimal) *CoinEntry {
		return &CoinEntry{
			ID:         newID(),
			VaultID:    vaultID,
			CurrencyID: currencyID,
			Value:      value,
			Kind:       kind,
			MemberID:   memberID,
			SplitID:    params.SplitID,
			CreatedBy:  params.CreatedBy,
			CreatedAt:  params.Now,
		}
	}

	for i := 0; i < params.PartyMemberCount; i++ {
		value := perShare
		if i == 0 && params.Policy == RemainderFirstShare {
			value = value.Add(remainder)
		}
		memberID := ""
		if len(params.MemberIDs) > 0 {
			memberID = params.MemberIDs[i]
		}
		cs.Inserted = append(cs.Inserted, newEntry(EntryKindShare, memberID, value))
	}

	if params.KeepPartyShare {
		treasury := perShare
		// With no member shares the remainder has nowhere else to go.
		if params.PartyMemberCount == 0 && params.Policy == RemainderFirstShare {
			treasury = treasury.Add(remainder)
		}
		cs.Treasury = treasury
		cs.Inserted = append(cs.Inserted, newEntry(EntryKindTreasury, "", treasury))
	}

	switch {
	case remainder.IsZero():
	case params.Policy == RemainderRetain:
		cs.Inserted = append(cs.Inserted, newEntry(EntryKindRemainder, "", remainder))
	case params.Policy == RemainderDiscard:
		cs.Unaccounted = remainder
	}

	return cs
}
