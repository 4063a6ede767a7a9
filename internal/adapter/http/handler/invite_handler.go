package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// InviteService defines the behavior needed by InviteHandler.
type InviteService interface {
	CreateInvite(ctx context.Context, input usecase.CreateInviteInput) (*usecase.InviteLink, error)
	InspectInvite(token string) domain.InviteVerification
	AcceptInvite(ctx context.Context, input usecase.AcceptInviteInput) (*domain.Member, error)
	RevokeInvite(ctx context.Context, vaultID, inviteID, actorID string) error
	ListInvites(ctx context.Context, vaultID string) ([]*domain.Invite, error)
}

// InviteHandler handles invite requests.
type InviteHandler struct {
	inviteUC InviteService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteUC InviteService) *InviteHandler {
	return &InviteHandler{inviteUC: inviteUC}
}

// Create issues an invite link for an email address.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.inviteUC.CreateInvite(r.Context(), req.ToUseCaseInput(vaultID(r), actorID(r)))
	if err != nil {
		writeDomainError(w, "failed to create invite", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InviteLinkFromUseCase(link))
}

// List lists the vault's invites.
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	invites, err := h.inviteUC.ListInvites(r.Context(), vaultID(r))
	if err != nil {
		writeDomainError(w, "failed to list invites", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInvitesResponse{Invites: dto.InvitesFromDomain(invites)})
}

// Revoke withdraws a pending invite.
func (h *InviteHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.inviteUC.RevokeInvite(r.Context(), vaultID(r), chi.URLParam(r, "inviteID"), actorID(r)); err != nil {
		writeDomainError(w, "failed to revoke invite", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Inspect verifies ?token= and reports the outcome. A failed verification is
// a normal answer, not an HTTP error.
func (h *InviteHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.inviteUC.InspectInvite(r.URL.Query().Get("token")))
}

// Accept joins the caller to the invited vault.
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req dto.AcceptInviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid invite", err)
		return
	}

	member, err := h.inviteUC.AcceptInvite(r.Context(), usecase.AcceptInviteInput{
		Token:  req.Token,
		UserID: actorID(r),
	})
	if err != nil {
		writeDomainError(w, "failed to accept invite", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}
