package auth_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/auth"
)

func newSigner(t *testing.T, now time.Time) *auth.InviteSigner {
	t.Helper()

	signer, err := auth.NewInviteSigner("invite-secret")
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}
	return signer.WithClock(func() time.Time { return now })
}

func signRaw(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return body + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func TestInviteSignerRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	signer := newSigner(t, now)

	payload := domain.InvitePayload{
		InviteID:     "inv-1",
		VaultID:      "vault-1",
		Email:        "bard@example.com",
		PermissionID: "perm-1",
		Exp:          now.Add(time.Hour).Unix(),
	}

	token, err := signer.Sign(payload)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if strings.Count(token, ".") != 1 || strings.Contains(token, "=") {
		t.Fatalf("unexpected token shape: %s", token)
	}

	res := signer.Verify(token)
	if !res.OK || res.Error != "" {
		t.Fatalf("expected valid token, got %+v", res)
	}
	if *res.Data != payload {
		t.Fatalf("payload mismatch: %+v", res.Data)
	}
}

func TestInviteSignerExpired(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	token, err := newSigner(t, now).Sign(domain.InvitePayload{
		VaultID: "vault-1",
		Email:   "bard@example.com",
		Exp:     now.Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	later := newSigner(t, now.Add(2*time.Hour))
	res := later.Verify(token)
	if res.OK || res.Error != domain.InviteErrExpired {
		t.Fatalf("expected expired, got %+v", res)
	}

	// exp equal to now is already expired.
	atExpiry := newSigner(t, now.Add(time.Hour))
	if res := atExpiry.Verify(token); res.Error != domain.InviteErrExpired {
		t.Fatalf("expected expired at exp, got %+v", res)
	}
}

func TestInviteSignerRejects(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	signer := newSigner(t, now)

	valid, err := signer.Sign(domain.InvitePayload{VaultID: "v", Email: "a@b.co", Exp: now.Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	body := strings.Split(valid, ".")[0]

	other, err := auth.NewInviteSigner("another-secret")
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}
	foreign, _ := other.Sign(domain.InvitePayload{VaultID: "v", Email: "a@b.co", Exp: now.Add(time.Hour).Unix()})

	incompleteBody := base64.RawURLEncoding.EncodeToString([]byte(`{"vault_id":"v","exp":1800000000}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte(`not json`))

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", domain.InviteErrInvalid},
		{"one part", body, domain.InviteErrInvalid},
		{"three parts", valid + ".x", domain.InviteErrInvalid},
		{"empty signature", body + ".", domain.InviteErrInvalid},
		{"tampered signature", body + ".AAAA", domain.InviteErrInvalid},
		{"other secret", foreign, domain.InviteErrInvalid},
		{"bad base64", signRaw("invite-secret", "!!!"), domain.InviteErrInvalid},
		{"bad json", signRaw("invite-secret", notJSON), domain.InviteErrInvalid},
		{"missing email", signRaw("invite-secret", incompleteBody), domain.InviteErrIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := signer.Verify(tt.token)
			if res.OK || res.Error != tt.want || res.Data != nil {
				t.Fatalf("expected %q, got %+v", tt.want, res)
			}
		})
	}
}

func TestNewInviteSignerEmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := auth.NewInviteSigner("  "); err != auth.ErrEmptyInviteSecret {
		t.Fatalf("expected ErrEmptyInviteSecret, got %v", err)
	}
}
