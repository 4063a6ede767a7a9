package handler

import (
	"context"
	"net/http"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// ActivityService defines the behavior needed by ActivityHandler.
type ActivityService interface {
	ListActivity(ctx context.Context, vaultID string, limit, offset int) ([]*domain.OutboxEvent, error)
}

// ReconciliationService checks split consistency.
type ReconciliationService interface {
	CheckVault(ctx context.Context, vaultID string) (*usecase.ReconciliationReport, error)
}

// ActivityHandler serves the activity log and reconciliation report.
type ActivityHandler struct {
	activityUC ActivityService
	reconUC    ReconciliationService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityUC ActivityService, reconUC ReconciliationService) *ActivityHandler {
	return &ActivityHandler{activityUC: activityUC, reconUC: reconUC}
}

// List pages through the vault's activity, newest first.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.activityUC.ListActivity(r.Context(), vaultID(r), parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list activity", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"activity": dto.ActivityFromDomain(events)})
}

// Reconcile reports splits whose outputs do not match their inputs.
func (h *ActivityHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.CheckVault(r.Context(), vaultID(r))
	if err != nil {
		writeDomainError(w, "failed to reconcile vault", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}
