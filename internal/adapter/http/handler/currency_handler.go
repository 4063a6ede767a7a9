package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// CurrencyService defines the behavior needed by CurrencyHandler.
type CurrencyService interface {
	CreateCurrency(ctx context.Context, input usecase.CreateCurrencyInput) (*domain.Currency, error)
	UpdateCurrency(ctx context.Context, input usecase.UpdateCurrencyInput) (*domain.Currency, error)
	ListCurrencies(ctx context.Context, vaultID string) ([]*domain.Currency, error)
	Rebase(ctx context.Context, input usecase.RebaseInput) ([]*domain.Currency, error)
}

// CurrencyHandler handles currency requests.
type CurrencyHandler struct {
	currencyUC CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyUC CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyUC: currencyUC}
}

// Create adds a currency to the vault.
func (h *CurrencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCurrencyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	currency, err := h.currencyUC.CreateCurrency(r.Context(), req.ToUseCaseInput(vaultID(r)))
	if err != nil {
		writeDomainError(w, "failed to create currency", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CurrencyFromDomain(currency))
}

// List lists the vault's currencies.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencyUC.ListCurrencies(r.Context(), vaultID(r))
	if err != nil {
		writeDomainError(w, "failed to list currencies", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"currencies": dto.CurrenciesFromDomain(currencies)})
}

// Update changes a currency's name, code or rate.
func (h *CurrencyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCurrencyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	currency, err := h.currencyUC.UpdateCurrency(r.Context(), req.ToUseCaseInput(vaultID(r), chi.URLParam(r, "currencyID")))
	if err != nil {
		writeDomainError(w, "failed to update currency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}

// Rebase makes the currency the vault's base.
func (h *CurrencyHandler) Rebase(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencyUC.Rebase(r.Context(), usecase.RebaseInput{
		VaultID:    vaultID(r),
		CurrencyID: chi.URLParam(r, "currencyID"),
		ActorID:    actorID(r),
	})
	if err != nil {
		writeDomainError(w, "failed to rebase currencies", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"currencies": dto.CurrenciesFromDomain(currencies)})
}
