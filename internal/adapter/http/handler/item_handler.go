package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// ItemService defines the behavior needed by ItemHandler.
type ItemService interface {
	CreateItem(ctx context.Context, input usecase.CreateItemInput) (*domain.Item, error)
	GetItem(ctx context.Context, vaultID, id string) (*domain.Item, error)
	ListItems(ctx context.Context, vaultID, kind string) ([]*domain.Item, error)
	UpdateItem(ctx context.Context, input usecase.UpdateItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, vaultID, id string) error
}

// ItemHandler handles treasure and valuable requests.
type ItemHandler struct {
	itemUC ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemUC ItemService) *ItemHandler {
	return &ItemHandler{itemUC: itemUC}
}

// Create adds an item to the vault.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.itemUC.CreateItem(r.Context(), req.ToUseCaseInput(vaultID(r)))
	if err != nil {
		writeDomainError(w, "failed to create item", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ItemFromDomain(item))
}

// List lists items, optionally filtered by ?kind=.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemUC.ListItems(r.Context(), vaultID(r), r.URL.Query().Get("kind"))
	if err != nil {
		writeDomainError(w, "failed to list items", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": dto.ItemsFromDomain(items)})
}

// Get returns one item.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemUC.GetItem(r.Context(), vaultID(r), chi.URLParam(r, "itemID"))
	if err != nil {
		writeDomainError(w, "failed to get item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ItemFromDomain(item))
}

// Update changes an item.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.itemUC.UpdateItem(r.Context(), req.ToUseCaseInput(vaultID(r), chi.URLParam(r, "itemID")))
	if err != nil {
		writeDomainError(w, "failed to update item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ItemFromDomain(item))
}

// Delete removes an item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.itemUC.DeleteItem(r.Context(), vaultID(r), chi.URLParam(r, "itemID")); err != nil {
		writeDomainError(w, "failed to delete item", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
