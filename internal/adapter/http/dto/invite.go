package dto

import (
	"fmt"
	"time"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// CreateInviteRequest invites an email address to a vault.
type CreateInviteRequest struct {
	Email        string `json:"email"`
	PermissionID string `json:"permission_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInviteRequest) ToUseCaseInput(vaultID, actorID string) usecase.CreateInviteInput {
	return usecase.CreateInviteInput{
		VaultID:      vaultID,
		Email:        r.Email,
		PermissionID: r.PermissionID,
		CreatedBy:    actorID,
	}
}

// AcceptInviteRequest carries the token from an invite link.
type AcceptInviteRequest struct {
	Token string `json:"token"`
}

// Validate checks required fields.
func (r *AcceptInviteRequest) Validate() error {
	if r.Token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidArgument)
	}
	return nil
}

// InviteResponse represents an invite in API responses.
type InviteResponse struct {
	ID           string     `json:"id"`
	VaultID      string     `json:"vault_id"`
	Email        string     `json:"email"`
	PermissionID string     `json:"permission_id,omitempty"`
	Status       string     `json:"status"`
	ExpiresAt    time.Time  `json:"expires_at"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
}

// InviteFromDomain converts domain invite to response.
func InviteFromDomain(i *domain.Invite) *InviteResponse {
	return &InviteResponse{
		ID:           i.ID,
		VaultID:      i.VaultID,
		Email:        i.Email,
		PermissionID: i.PermissionID,
		Status:       string(i.Status),
		ExpiresAt:    i.ExpiresAt,
		CreatedBy:    i.CreatedBy,
		CreatedAt:    i.CreatedAt,
		AcceptedAt:   i.AcceptedAt,
	}
}

// InvitesFromDomain converts domain invites to responses.
func InvitesFromDomain(invites []*domain.Invite) []*InviteResponse {
	result := make([]*InviteResponse, len(invites))
	for i, inv := range invites {
		result[i] = InviteFromDomain(inv)
	}
	return result
}

// InviteLinkResponse is a created invite with its signed token.
type InviteLinkResponse struct {
	Invite *InviteResponse `json:"invite"`
	Token  string          `json:"token"`
}

// InviteLinkFromUseCase converts a created invite to response.
func InviteLinkFromUseCase(link *usecase.InviteLink) *InviteLinkResponse {
	return &InviteLinkResponse{
		Invite: InviteFromDomain(link.Invite),
		Token:  link.Token,
	}
}

// ListInvitesResponse represents a list of invites.
type ListInvitesResponse struct {
	Invites []*InviteResponse `json:"invites"`
}
