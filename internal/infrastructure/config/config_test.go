package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	assert.Equal(t, time.Hour, cfg.InviteTTL)
	assert.Equal(t, "serializable", cfg.TxIsolation)
	assert.Equal(t, "log", cfg.EventPublisherSink)
	assert.Equal(t, 10, cfg.BcryptCost)

	policy, err := cfg.RemainderPolicy()
	require.NoError(t, err)
	assert.Equal(t, domain.RemainderDiscard, policy)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("INVITE_TTL", "2h")
	t.Setenv("SPLIT_REMAINDER_POLICY", "first_share")
	t.Setenv("EVENT_PUBLISHER_SINK", "redis")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	assert.Equal(t, "top-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.InviteTTL)
	assert.Equal(t, "redis", cfg.EventPublisherSink)

	policy, err := cfg.RemainderPolicy()
	require.NoError(t, err)
	assert.Equal(t, domain.RemainderFirstShare, policy)
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		JWTSecret:            "jwt",
		InviteSecret:         "invite",
		InviteTTL:            time.Hour,
		BcryptCost:           10,
		SplitRemainderPolicy: "discard",
		EventPublisherSink:   "log",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"missing jwt secret", func(c *config.Config) { c.JWTSecret = "" }},
		{"missing invite secret", func(c *config.Config) { c.InviteSecret = "" }},
		{"zero invite ttl", func(c *config.Config) { c.InviteTTL = 0 }},
		{"bcrypt cost too low", func(c *config.Config) { c.BcryptCost = 2 }},
		{"unknown policy", func(c *config.Config) { c.SplitRemainderPolicy = "round_up" }},
		{"unknown sink", func(c *config.Config) { c.EventPublisherSink = "kafka" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
