package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func gpCurrencies() []*Currency {
	return []*Currency{
		{ID: "cp", Code: "CP", Rate: decimal.NewFromInt(1)},
		{ID: "sp", Code: "SP", Rate: decimal.NewFromInt(10)},
		{ID: "gp", Code: "GP", Rate: decimal.NewFromInt(100)},
	}
}

func entry(id, currencyID string, value int64) *CoinEntry {
	return &CoinEntry{ID: id, VaultID: "v1", CurrencyID: currencyID, Value: decimal.NewFromInt(value), Kind: EntryKindDeposit}
}

func perCurrencyVault() *Vault {
	return &Vault{ID: "v1", MergeSplit: MergeSplitPerCurrency}
}

func TestPlanSplit_GoldAmongThreeDiscardsRemainder(t *testing.T) {
	entries := []*CoinEntry{entry("e1", "gp", 60), entry("e2", "gp", 40)}

	plan, err := PlanSplit(SplitParams{
		SplitID:          "s1",
		PartyMemberCount: 3,
		Policy:           RemainderDiscard,
		Now:              time.Unix(0, 0),
	}, perCurrencyVault(), gpCurrencies(), entries, sequentialIDs())
	require.NoError(t, err)
	require.Len(t, plan.Currencies, 1)

	gold := plan.Currencies[0]
	assert.Equal(t, "gp", gold.CurrencyID)
	assert.ElementsMatch(t, []string{"e1", "e2"}, gold.ArchivedEntryIDs)
	require.Len(t, gold.Inserted, 3)
	for _, e := range gold.Inserted {
		assert.True(t, e.Value.Equal(decimal.NewFromInt(33)), "share value %s", e.Value)
		assert.Equal(t, EntryKindShare, e.Kind)
		assert.Equal(t, "s1", e.SplitID)
		assert.Equal(t, "v1", e.VaultID)
	}

	// The floor remainder is reported, not reinserted.
	assert.True(t, gold.Unaccounted.Equal(decimal.NewFromInt(1)))
	assert.True(t, gold.Conserves())
}

func TestPlanSplit_RemainderPolicies(t *testing.T) {
	tests := []struct {
		name         string
		policy       RemainderPolicy
		expectValues []int64
		expectKinds  []EntryKind
		unaccounted  int64
	}{
		{
			name:         "discard",
			policy:       RemainderDiscard,
			expectValues: []int64{33, 33, 33},
			expectKinds:  []EntryKind{EntryKindShare, EntryKindShare, EntryKindShare},
			unaccounted:  1,
		},
		{
			name:         "retain",
			policy:       RemainderRetain,
			expectValues: []int64{33, 33, 33, 1},
			expectKinds:  []EntryKind{EntryKindShare, EntryKindShare, EntryKindShare, EntryKindRemainder},
			unaccounted:  0,
		},
		{
			name:         "first share",
			policy:       RemainderFirstShare,
			expectValues: []int64{34, 33, 33},
			expectKinds:  []EntryKind{EntryKindShare, EntryKindShare, EntryKindShare},
			unaccounted:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSplit(SplitParams{
				PartyMemberCount: 3,
				Policy:           tt.policy,
			}, perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "gp", 100)}, sequentialIDs())
			require.NoError(t, err)
			require.Len(t, plan.Currencies, 1)

			inserted := plan.Currencies[0].Inserted
			require.Len(t, inserted, len(tt.expectValues))
			for i, e := range inserted {
				assert.Truef(t, e.Value.Equal(decimal.NewFromInt(tt.expectValues[i])), "entry %d: got %s", i, e.Value)
				assert.Equal(t, tt.expectKinds[i], e.Kind)
			}
			assert.True(t, plan.Currencies[0].Unaccounted.Equal(decimal.NewFromInt(tt.unaccounted)))
			assert.True(t, plan.Currencies[0].Conserves())
		})
	}
}

func TestPlanSplit_KeepPartyShare(t *testing.T) {
	plan, err := PlanSplit(SplitParams{
		PartyMemberCount: 3,
		KeepPartyShare:   true,
		Policy:           RemainderDiscard,
	}, perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "gp", 100)}, sequentialIDs())
	require.NoError(t, err)

	gold := plan.Currencies[0]
	assert.Equal(t, 4, plan.ShareCount)
	require.Len(t, gold.Inserted, 4)
	assert.Equal(t, EntryKindTreasury, gold.Inserted[3].Kind)
	assert.True(t, gold.Treasury.Equal(decimal.NewFromInt(25)))
	assert.True(t, gold.Unaccounted.IsZero())
}

func TestPlanSplit_OnlyTreasuryShare(t *testing.T) {
	plan, err := PlanSplit(SplitParams{
		KeepPartyShare: true,
		Policy:         RemainderDiscard,
	}, perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "gp", 7), entry("e2", "gp", 5)}, sequentialIDs())
	require.NoError(t, err)

	require.Len(t, plan.Currencies, 1)
	require.Len(t, plan.Currencies[0].Inserted, 1)
	assert.True(t, plan.Currencies[0].Inserted[0].Value.Equal(decimal.NewFromInt(12)))
}

func TestPlanSplit_ZeroShares(t *testing.T) {
	_, err := PlanSplit(SplitParams{
		PartyMemberCount: 0,
		KeepPartyShare:   false,
		Policy:           RemainderDiscard,
	}, perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "gp", 100)}, sequentialIDs())
	assert.ErrorIs(t, err, ErrInvalidShareCount)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPlanSplit_SkipsNonPositiveAndTooSmallBalances(t *testing.T) {
	entries := []*CoinEntry{
		entry("e1", "gp", 90),
		entry("e2", "sp", -10),
		entry("e3", "cp", 2),
	}

	plan, err := PlanSplit(SplitParams{PartyMemberCount: 3, Policy: RemainderDiscard},
		perCurrencyVault(), gpCurrencies(), entries, sequentialIDs())
	require.NoError(t, err)

	require.Len(t, plan.Currencies, 1)
	assert.Equal(t, "gp", plan.Currencies[0].CurrencyID)
	assert.Equal(t, []string{"e1"}, plan.ArchivedIDs())
}

func TestPlanSplit_IgnoresArchivedAndShareEntries(t *testing.T) {
	archived := entry("old", "gp", 1000)
	archived.Archived = true
	share := entry("paid", "gp", 500)
	share.Kind = EntryKindShare

	plan, err := PlanSplit(SplitParams{PartyMemberCount: 2, Policy: RemainderDiscard},
		perCurrencyVault(), gpCurrencies(), []*CoinEntry{archived, share, entry("e1", "gp", 10)}, sequentialIDs())
	require.NoError(t, err)

	assert.Equal(t, []string{"e1"}, plan.ArchivedIDs())
	assert.True(t, plan.Currencies[0].PerShare.Equal(decimal.NewFromInt(5)))
}

func TestPlanSplit_NoEntriesIsNoop(t *testing.T) {
	plan, err := PlanSplit(SplitParams{PartyMemberCount: 2, Policy: RemainderDiscard},
		perCurrencyVault(), gpCurrencies(), nil, sequentialIDs())
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
	assert.Empty(t, plan.NewEntries())
}

func TestPlanSplit_BaseMode(t *testing.T) {
	vault := &Vault{ID: "v1", MergeSplit: MergeSplitBase}
	entries := []*CoinEntry{
		entry("e1", "gp", 1),
		entry("e2", "sp", 5),
		entry("e3", "cp", 7),
	}

	plan, err := PlanSplit(SplitParams{PartyMemberCount: 3, Policy: RemainderDiscard},
		vault, gpCurrencies(), entries, sequentialIDs())
	require.NoError(t, err)
	require.Len(t, plan.Currencies, 1)

	split := plan.Currencies[0]
	assert.Equal(t, MergeSplitBase, plan.Mode)
	assert.Equal(t, "cp", split.CurrencyID)
	assert.True(t, split.Balance.Equal(decimal.NewFromInt(157)))
	assert.True(t, split.PerShare.Equal(decimal.NewFromInt(52)))
	assert.True(t, split.Unaccounted.Equal(decimal.NewFromInt(1)))
	assert.ElementsMatch(t, []string{"e1", "e2", "e3"}, split.ArchivedEntryIDs)
	for _, e := range split.Inserted {
		assert.Equal(t, "cp", e.CurrencyID)
	}
}

func TestPlanSplit_ModeOverride(t *testing.T) {
	plan, err := PlanSplit(SplitParams{Mode: MergeSplitBase, PartyMemberCount: 2, Policy: RemainderDiscard},
		perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "sp", 3)}, sequentialIDs())
	require.NoError(t, err)
	assert.Equal(t, MergeSplitBase, plan.Mode)
	assert.True(t, plan.Currencies[0].PerShare.Equal(decimal.NewFromInt(15)))
}

func TestPlanSplit_AssignsMembers(t *testing.T) {
	plan, err := PlanSplit(SplitParams{
		PartyMemberCount: 2,
		MemberIDs:        []string{"u1", "u2"},
		Policy:           RemainderDiscard,
	}, perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "gp", 10)}, sequentialIDs())
	require.NoError(t, err)

	inserted := plan.NewEntries()
	require.Len(t, inserted, 2)
	assert.Equal(t, "u1", inserted[0].MemberID)
	assert.Equal(t, "u2", inserted[1].MemberID)
}

func TestPlanSplit_RejectsBadInput(t *testing.T) {
	_, err := PlanSplit(SplitParams{PartyMemberCount: 2, MemberIDs: []string{"u1"}, Policy: RemainderDiscard},
		perCurrencyVault(), gpCurrencies(), nil, sequentialIDs())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = PlanSplit(SplitParams{PartyMemberCount: 2, Policy: "lottery"},
		perCurrencyVault(), gpCurrencies(), nil, sequentialIDs())
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = PlanSplit(SplitParams{PartyMemberCount: 2, Policy: RemainderDiscard},
		&Vault{ID: "v1", MergeSplit: "weird"}, gpCurrencies(), nil, sequentialIDs())
	assert.ErrorIs(t, err, ErrInvalidMergeSplit)
}

func TestPlanSplit_Conservation(t *testing.T) {
	policies := []RemainderPolicy{RemainderDiscard, RemainderRetain, RemainderFirstShare}

	for _, policy := range policies {
		for members := 0; members <= 5; members++ {
			for _, keep := range []bool{false, true} {
				if members == 0 && !keep {
					continue
				}
				for balance := int64(1); balance <= 60; balance += 7 {
					plan, err := PlanSplit(SplitParams{
						PartyMemberCount: members,
						KeepPartyShare:   keep,
						Policy:           policy,
					}, perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "gp", balance)}, sequentialIDs())
					require.NoError(t, err)

					for _, cs := range plan.Currencies {
						require.Truef(t, cs.Conserves(),
							"policy=%s members=%d keep=%v balance=%d inserted=%s unaccounted=%s",
							policy, members, keep, balance, cs.InsertedTotal(), cs.Unaccounted)
					}
				}
			}
		}
	}
}

func TestShareCount(t *testing.T) {
	n, err := ShareCount(3, true)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = ShareCount(-1, true)
	assert.ErrorIs(t, err, ErrInvalidShareCount)

	n, err = ShareCount(MaxPartyMembers, true)
	require.NoError(t, err)
	assert.Equal(t, MaxPartyMembers+1, n)

	_, err = ShareCount(MaxPartyMembers+1, false)
	assert.ErrorIs(t, err, ErrInvalidShareCount)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPlanSplit_RejectsOversizedParty(t *testing.T) {
	plan, err := PlanSplit(SplitParams{
		PartyMemberCount: 2000000,
		Policy:           RemainderDiscard,
	}, perCurrencyVault(), gpCurrencies(), []*CoinEntry{entry("e1", "gp", 1000000000)}, sequentialIDs())
	assert.ErrorIs(t, err, ErrInvalidShareCount)
	assert.Nil(t, plan)
}

func TestSumBalances(t *testing.T) {
	archived := entry("a", "gp", 50)
	archived.Archived = true
	share := entry("s", "gp", 70)
	share.Kind = EntryKindShare

	balances := SumBalances([]*CoinEntry{entry("e1", "gp", 10), entry("e2", "gp", -3), entry("e3", "sp", 4), archived, share})

	assert.True(t, balances.Get("gp").Equal(decimal.NewFromInt(7)))
	assert.True(t, balances.Get("sp").Equal(decimal.NewFromInt(4)))
	assert.True(t, balances.Get("cp").IsZero())
	assert.True(t, balances.ToBase(gpCurrencies()).Equal(decimal.NewFromInt(740)))
}
