package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultBalanceCacheTTL is how long vault balances stay cached
	DefaultBalanceCacheTTL = 5 * time.Minute

	// DefaultInviteTTL is how long an invite link stays valid
	DefaultInviteTTL = 7 * 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// MaxRewardLines caps the coin and item lines of one reward
	MaxRewardLines = 100
)
