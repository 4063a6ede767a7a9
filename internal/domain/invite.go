package domain

import (
	"time"
)

// InviteStatus is the lifecycle state of an invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRevoked  InviteStatus = "revoked"
)

// Invite is an outstanding offer for an email address to join a vault.
type Invite struct {
	ID           string
	VaultID      string
	Email        string
	PermissionID string
	Status       InviteStatus
	ExpiresAt    time.Time
	CreatedBy    string
	CreatedAt    time.Time
	AcceptedAt   *time.Time
}

// IsExpired reports whether the invite is past its expiry at now.
func (i *Invite) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// InvitePayload is the signed body of an invite token.
type InvitePayload struct {
	InviteID     string `json:"invite_id,omitempty"`
	VaultID      string `json:"vault_id"`
	Email        string `json:"email"`
	PermissionID string `json:"permission_id,omitempty"`
	Exp          int64  `json:"exp"`
}

// Messages returned by invite token verification.
const (
	InviteErrInvalid    = "Invite link is invalid."
	InviteErrIncomplete = "Invite link is incomplete."
	InviteErrExpired    = "Invite link expired."
)

// InviteVerification is the structured outcome of verifying an invite token.
// Verification failures are expected and reported here, not as errors.
type InviteVerification struct {
	OK    bool           `json:"ok"`
	Data  *InvitePayload `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
}
