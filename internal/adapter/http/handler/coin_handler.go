package handler

import (
	"context"
	"net/http"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// CoinService defines the behavior needed by CoinHandler.
type CoinService interface {
	Balances(ctx context.Context, vaultID string) (domain.Balances, error)
	Holdings(ctx context.Context, input usecase.HoldingsInput) (*usecase.Holdings, error)
	AddEntry(ctx context.Context, input usecase.AddEntryInput) (*domain.CoinEntry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.CoinEntry, error)
	Split(ctx context.Context, input usecase.SplitInput) (*domain.SplitPlan, error)
}

// CoinHandler handles coin ledger and split requests.
type CoinHandler struct {
	coinUC CoinService
}

// NewCoinHandler creates a new CoinHandler.
func NewCoinHandler(coinUC CoinService) *CoinHandler {
	return &CoinHandler{coinUC: coinUC}
}

// Balances returns the pooled balance per currency.
func (h *CoinHandler) Balances(w http.ResponseWriter, r *http.Request) {
	id := vaultID(r)
	balances, err := h.coinUC.Balances(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to load balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(id, balances))
}

// Holdings returns the value view of the vault in ?unit=base|common.
func (h *CoinHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.coinUC.Holdings(r.Context(), usecase.HoldingsInput{
		VaultID: vaultID(r),
		Unit:    r.URL.Query().Get("unit"),
	})
	if err != nil {
		writeDomainError(w, "failed to load holdings", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HoldingsFromUseCase(holdings))
}

// AddEntry records income or expense.
func (h *CoinHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.AddEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid entry", err)
		return
	}

	entry, err := h.coinUC.AddEntry(r.Context(), req.ToUseCaseInput(vaultID(r), actorID(r)))
	if err != nil {
		writeDomainError(w, "failed to add entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// ListEntries lists coin entries, oldest first.
func (h *CoinHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.coinUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		VaultID:         vaultID(r),
		IncludeArchived: parseBoolQuery(r, "include_archived"),
		Limit:           parseIntQuery(r, "limit", 20),
		Offset:          parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": dto.EntriesFromDomain(entries)})
}

// Split divides the pooled balance among the party.
func (h *CoinHandler) Split(w http.ResponseWriter, r *http.Request) {
	var req dto.SplitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.coinUC.Split(r.Context(), req.ToUseCaseInput(vaultID(r), actorID(r)))
	if err != nil {
		writeDomainError(w, "failed to split coin", err)
		return
	}

	status := http.StatusCreated
	if plan.IsEmpty() {
		status = http.StatusOK
	}
	writeJSON(w, status, dto.SplitFromDomain(plan))
}
