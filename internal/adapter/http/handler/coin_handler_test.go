package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

type coinServiceStub struct {
	balancesFn func(ctx context.Context, vaultID string) (domain.Balances, error)
	holdingsFn func(ctx context.Context, input usecase.HoldingsInput) (*usecase.Holdings, error)
	addFn      func(ctx context.Context, input usecase.AddEntryInput) (*domain.CoinEntry, error)
	listFn     func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.CoinEntry, error)
	splitFn    func(ctx context.Context, input usecase.SplitInput) (*domain.SplitPlan, error)
}

func (s *coinServiceStub) Balances(ctx context.Context, vaultID string) (domain.Balances, error) {
	return s.balancesFn(ctx, vaultID)
}

func (s *coinServiceStub) Holdings(ctx context.Context, input usecase.HoldingsInput) (*usecase.Holdings, error) {
	return s.holdingsFn(ctx, input)
}

func (s *coinServiceStub) AddEntry(ctx context.Context, input usecase.AddEntryInput) (*domain.CoinEntry, error) {
	return s.addFn(ctx, input)
}

func (s *coinServiceStub) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.CoinEntry, error) {
	return s.listFn(ctx, input)
}

func (s *coinServiceStub) Split(ctx context.Context, input usecase.SplitInput) (*domain.SplitPlan, error) {
	return s.splitFn(ctx, input)
}

func TestCoinHandler_Split_Success(t *testing.T) {
	var captured usecase.SplitInput
	h := NewCoinHandler(&coinServiceStub{
		splitFn: func(ctx context.Context, input usecase.SplitInput) (*domain.SplitPlan, error) {
			captured = input
			return &domain.SplitPlan{
				SplitID:    "split-1",
				Mode:       domain.MergeSplitPerCurrency,
				ShareCount: 3,
				Policy:     domain.RemainderDiscard,
				Currencies: []*domain.CurrencySplit{{
					CurrencyID:  "gold",
					Balance:     decimal.NewFromInt(100),
					PerShare:    decimal.NewFromInt(33),
					Unaccounted: decimal.NewFromInt(1),
				}},
			}, nil
		},
	})

	req := newRequest(http.MethodPost, "/", `{"party_member_count":3}`, requestOpts{params: vaultParams(), userID: "u1"})
	rec := httptest.NewRecorder()
	h.Split(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "v1", captured.VaultID)
	assert.Equal(t, "u1", captured.CreatedBy)
	require.NotNil(t, captured.PartyMemberCount)
	assert.Equal(t, 3, *captured.PartyMemberCount)

	var resp dto.SplitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Performed)
	assert.True(t, resp.Currencies[0].PerShare.Equal(decimal.NewFromInt(33)))
}

func TestCoinHandler_Split_NoOpReturnsOK(t *testing.T) {
	h := NewCoinHandler(&coinServiceStub{
		splitFn: func(ctx context.Context, input usecase.SplitInput) (*domain.SplitPlan, error) {
			return &domain.SplitPlan{Mode: domain.MergeSplitBase, ShareCount: 2, Policy: domain.RemainderDiscard}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Split(rec, newRequest(http.MethodPost, "/", `{}`, requestOpts{params: vaultParams(), userID: "u1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCoinHandler_Split_InvalidShareCount(t *testing.T) {
	h := NewCoinHandler(&coinServiceStub{
		splitFn: func(ctx context.Context, input usecase.SplitInput) (*domain.SplitPlan, error) {
			return nil, domain.ErrInvalidShareCount
		},
	})

	rec := httptest.NewRecorder()
	h.Split(rec, newRequest(http.MethodPost, "/", `{"party_member_count":0}`, requestOpts{params: vaultParams(), userID: "u1"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoinHandler_Balances(t *testing.T) {
	h := NewCoinHandler(&coinServiceStub{
		balancesFn: func(ctx context.Context, vaultID string) (domain.Balances, error) {
			return domain.Balances{"gold": decimal.RequireFromString("12.5")}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Balances(rec, newRequest(http.MethodGet, "/", "", requestOpts{params: vaultParams()}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"vault_id":"v1","balances":{"gold":"12.5"}}`, rec.Body.String())
}

func TestCoinHandler_Holdings_PassesUnit(t *testing.T) {
	h := NewCoinHandler(&coinServiceStub{
		holdingsFn: func(ctx context.Context, input usecase.HoldingsInput) (*usecase.Holdings, error) {
			if input.Unit != "common" {
				return nil, domain.ErrInvalidUnit
			}
			return &usecase.Holdings{VaultID: input.VaultID, Unit: domain.UnitCommon, CommonRate: decimal.NewFromInt(10)}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Holdings(rec, newRequest(http.MethodGet, "/?unit=common", "", requestOpts{params: vaultParams()}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Holdings(rec, newRequest(http.MethodGet, "/?unit=platinum", "", requestOpts{params: vaultParams()}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoinHandler_AddEntry(t *testing.T) {
	var captured usecase.AddEntryInput
	h := NewCoinHandler(&coinServiceStub{
		addFn: func(ctx context.Context, input usecase.AddEntryInput) (*domain.CoinEntry, error) {
			captured = input
			return &domain.CoinEntry{ID: "e1", VaultID: input.VaultID, CurrencyID: input.CurrencyID, Value: input.Value, Kind: domain.EntryKindDeposit}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.AddEntry(rec, newRequest(http.MethodPost, "/", `{"currency_id":"gold","value":"-5"}`, requestOpts{params: vaultParams(), userID: "u1"}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, captured.Value.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, "u1", captured.CreatedBy)
}

func TestCoinHandler_AddEntry_MissingCurrency(t *testing.T) {
	h := NewCoinHandler(&coinServiceStub{
		addFn: func(ctx context.Context, input usecase.AddEntryInput) (*domain.CoinEntry, error) {
			t.Fatal("AddEntry should not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.AddEntry(rec, newRequest(http.MethodPost, "/", `{"value":"5"}`, requestOpts{params: vaultParams(), userID: "u1"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoinHandler_ListEntries_Query(t *testing.T) {
	var captured usecase.ListEntriesInput
	h := NewCoinHandler(&coinServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.CoinEntry, error) {
			captured = input
			return []*domain.CoinEntry{}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.ListEntries(rec, newRequest(http.MethodGet, "/?include_archived=true&limit=5&offset=10", "", requestOpts{params: vaultParams()}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.ListEntriesInput{VaultID: "v1", IncludeArchived: true, Limit: 5, Offset: 10}, captured)
}
