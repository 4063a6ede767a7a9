package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/iho/partytreasury/internal/domain"
)

// ErrEmptyInviteSecret is returned when no invite secret is configured.
var ErrEmptyInviteSecret = errors.New("invite secret must not be empty")

// InviteSigner signs and verifies invite tokens of the form body.signature,
// where body is the base64url JSON payload and signature its HMAC-SHA256.
type InviteSigner struct {
	secret []byte
	now    func() time.Time
}

// NewInviteSigner creates a signer. An empty secret is rejected.
func NewInviteSigner(secret string) (*InviteSigner, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptyInviteSecret
	}
	return &InviteSigner{secret: []byte(secret), now: time.Now}, nil
}

// WithClock replaces the time source used for expiry checks.
func (s *InviteSigner) WithClock(now func() time.Time) *InviteSigner {
	s.now = now
	return s
}

// Sign encodes and signs payload.
func (s *InviteSigner) Sign(payload domain.InvitePayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + s.signature(body), nil
}

// Verify checks a token. Failures are reported in the result, never as errors.
func (s *InviteSigner) Verify(token string) domain.InviteVerification {
	invalid := domain.InviteVerification{Error: domain.InviteErrInvalid}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return invalid
	}
	body, sig := parts[0], parts[1]

	if !hmac.Equal([]byte(s.signature(body)), []byte(sig)) {
		return invalid
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return invalid
	}

	var payload domain.InvitePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return invalid
	}

	if payload.VaultID == "" || payload.Email == "" || payload.Exp == 0 {
		return domain.InviteVerification{Error: domain.InviteErrIncomplete}
	}

	if payload.Exp <= s.now().Unix() {
		return domain.InviteVerification{Error: domain.InviteErrExpired}
	}

	return domain.InviteVerification{OK: true, Data: &payload}
}

func (s *InviteSigner) signature(body string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
