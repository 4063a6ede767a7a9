package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

func TestCreateVaultRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateVaultRequest{
		Name:         "Curse of Strahd",
		MergeSplit:   "base",
		BaseCurrency: BaseCurrencyRequest{Name: "Gold", Code: "gp"},
	}

	require.NoError(t, req.Validate())

	got := req.ToUseCaseInput("owner-1")
	want := usecase.CreateVaultInput{
		Name:             "Curse of Strahd",
		OwnerID:          "owner-1",
		MergeSplit:       "base",
		BaseCurrencyName: "Gold",
		BaseCurrencyCode: "gp",
	}
	assert.Equal(t, want, got)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  interface{ Validate() error }
	}{
		{name: "vault without name", req: &CreateVaultRequest{Name: "  "}},
		{name: "entry without currency", req: &AddEntryRequest{Value: decimal.NewFromInt(5)}},
		{name: "transfer without target", req: &CreateTransferRequest{}},
		{name: "accept without token", req: &AcceptInviteRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}

func TestSplitRequest_DecodesOptionalCount(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount *int
		wantKeep  bool
	}{
		{name: "count omitted", body: `{"keep_party_share":true}`, wantKeep: true},
		{name: "explicit zero", body: `{"party_member_count":0}`, wantCount: intPtr(0)},
		{name: "explicit count", body: `{"party_member_count":3,"remainder_policy":"retain"}`, wantCount: intPtr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req SplitRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			in := req.ToUseCaseInput("v1", "actor")
			assert.Equal(t, "v1", in.VaultID)
			assert.Equal(t, "actor", in.CreatedBy)
			assert.Equal(t, tt.wantKeep, in.KeepPartyShare)
			assert.Equal(t, tt.wantCount, in.PartyMemberCount)
		})
	}
}

func TestAddEntryRequest_AcceptsStringAndNumberValues(t *testing.T) {
	for _, body := range []string{`{"currency_id":"c1","value":"-12.5"}`, `{"currency_id":"c1","value":-12.5}`} {
		var req AddEntryRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		in := req.ToUseCaseInput("v1", "u1")
		assert.True(t, in.Value.Equal(decimal.RequireFromString("-12.5")), body)
		assert.Equal(t, "c1", in.CurrencyID)
		assert.Equal(t, "u1", in.CreatedBy)
	}
}

func TestCreateTransferRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateTransferRequest{
		ToVaultID: "v2",
		Coins:     []CoinAmountRequest{{CurrencyID: "gold", Value: decimal.NewFromInt(10)}},
		ItemIDs:   []string{"item-1"},
		Note:      "loot share",
	}

	in := req.ToUseCaseInput("v1", "u1")

	assert.Equal(t, "v1", in.FromVaultID)
	assert.Equal(t, "v2", in.ToVaultID)
	assert.Equal(t, []domain.CoinAmount{{CurrencyID: "gold", Value: decimal.NewFromInt(10)}}, in.Coins)
	assert.Equal(t, []string{"item-1"}, in.ItemIDs)
}

func TestPrepareRewardRequest_ToUseCaseInput(t *testing.T) {
	req := &PrepareRewardRequest{
		Coins:  []CoinAmountRequest{{CurrencyID: "gold", Value: decimal.NewFromInt(100)}},
		Items:  []CreateItemRequest{{Kind: "treasure", Name: "Ruby", Quantity: 2, Value: decimal.NewFromInt(50)}},
		DryRun: true,
	}

	in := req.ToUseCaseInput("v1", "u1")

	assert.True(t, in.DryRun)
	require.Len(t, in.Items, 1)
	assert.Equal(t, "Ruby", in.Items[0].Name)
	assert.Equal(t, 2, in.Items[0].Quantity)
	require.Len(t, in.Coins, 1)
}

func TestCreatePermissionRequest_MapsCapabilities(t *testing.T) {
	req := &CreatePermissionRequest{Name: "Quartermaster", CanSplit: true, CanTransfer: true}

	in := req.ToUseCaseInput("v1")

	assert.Equal(t, domain.Capabilities{Split: true, Transfer: true}, in.Caps)
}

func intPtr(v int) *int { return &v }
