package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/iho/partytreasury/internal/domain"
)

// balanceCache keeps vault balances in the shared cache. Failures are logged
// and treated as misses.
type balanceCache struct {
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics Metrics
}

func newBalanceCache(cache Cache, ttl time.Duration, logger *slog.Logger, metrics Metrics) *balanceCache {
	if ttl <= 0 {
		ttl = DefaultBalanceCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &balanceCache{cache: cache, ttl: ttl, logger: logger, metrics: metrics}
}

func balanceKey(vaultID string) string {
	return "vault:" + vaultID + ":balances"
}

func generationKey(vaultID string) string {
	return "vault:" + vaultID + ":generation"
}

// cachedBalances is the stored form. Generation is the vault's generation
// when the balances were read from the store; an entry whose generation is
// behind the current one is stale.
type cachedBalances struct {
	Generation int64           `json:"generation"`
	Balances   domain.Balances `json:"balances"`
}

// get returns the cached balances and the vault's current generation. The
// generation must be read before the store so that set can tag the entry.
// ok is false on a miss; gen is -1 when the cache is unavailable.
func (c *balanceCache) get(ctx context.Context, vaultID string) (balances domain.Balances, gen int64, ok bool) {
	if c == nil || c.cache == nil {
		return nil, -1, false
	}

	gen, err := c.cache.Incr(ctx, generationKey(vaultID), 0)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to read balance cache generation",
			slog.String("vault_id", vaultID),
			slog.String("error", err.Error()))
		c.metrics.CacheLookup("balances", false)
		return nil, -1, false
	}

	raw, err := c.cache.Get(ctx, balanceKey(vaultID))
	if err != nil || len(raw) == 0 {
		c.metrics.CacheLookup("balances", false)
		return nil, gen, false
	}

	var entry cachedBalances
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.WarnContext(ctx, "discarding corrupt balance cache entry",
			slog.String("vault_id", vaultID),
			slog.String("error", err.Error()))
		c.metrics.CacheLookup("balances", false)
		return nil, gen, false
	}
	if entry.Generation != gen || entry.Balances == nil {
		c.metrics.CacheLookup("balances", false)
		return nil, gen, false
	}

	c.metrics.CacheLookup("balances", true)
	return entry.Balances, gen, true
}

// set stores balances read from the store under generation gen. A write that
// races an invalidation carries the old generation and is never served.
func (c *balanceCache) set(ctx context.Context, vaultID string, gen int64, balances domain.Balances) {
	if c == nil || c.cache == nil || gen < 0 {
		return
	}

	raw, err := json.Marshal(cachedBalances{Generation: gen, Balances: balances})
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, balanceKey(vaultID), raw, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "failed to cache balances",
			slog.String("vault_id", vaultID),
			slog.String("error", err.Error()))
	}
}

// invalidate bumps the generation of each vault and drops its entry.
func (c *balanceCache) invalidate(ctx context.Context, vaultIDs ...string) {
	if c == nil || c.cache == nil {
		return
	}

	for _, id := range vaultIDs {
		if _, err := c.cache.Incr(ctx, generationKey(id), 1); err != nil {
			c.logger.WarnContext(ctx, "failed to bump balance cache generation",
				slog.String("vault_id", id),
				slog.String("error", err.Error()))
		}
		if err := c.cache.Delete(ctx, balanceKey(id)); err != nil {
			c.logger.WarnContext(ctx, "failed to invalidate balance cache",
				slog.String("vault_id", id),
				slog.String("error", err.Error()))
		}
	}
}
