package usecase

import (
	"context"
	"time"

	"github.com/iho/partytreasury/internal/domain"
)

// VaultRepository defines data access for vaults.
type VaultRepository interface {
	Create(ctx context.Context, tx Transaction, vault *domain.Vault) error
	GetByID(ctx context.Context, id string) (*domain.Vault, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Vault, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Vault, error)
	Update(ctx context.Context, vault *domain.Vault) error
	ListByMember(ctx context.Context, userID string, limit, offset int) ([]*domain.Vault, error)
}

// CurrencyRepository defines data access for vault currencies.
type CurrencyRepository interface {
	Create(ctx context.Context, tx Transaction, currency *domain.Currency) error
	GetByID(ctx context.Context, id string) (*domain.Currency, error)
	ListByVault(ctx context.Context, vaultID string) ([]*domain.Currency, error)
	ListByVaultTx(ctx context.Context, tx Transaction, vaultID string) ([]*domain.Currency, error)
	Update(ctx context.Context, tx Transaction, currency *domain.Currency) error
}

// CoinRepository defines data access for coin entries.
type CoinRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.CoinEntry) error
	Balances(ctx context.Context, vaultID string) (domain.Balances, error)
	BalancesTx(ctx context.Context, tx Transaction, vaultID string) (domain.Balances, error)
	ListUnarchivedTx(ctx context.Context, tx Transaction, vaultID string) ([]*domain.CoinEntry, error)
	Archive(ctx context.Context, tx Transaction, ids []string, splitID string) (int64, error)
	List(ctx context.Context, vaultID string, includeArchived bool, limit, offset int) ([]*domain.CoinEntry, error)
	MemberHoldings(ctx context.Context, vaultID string) (map[string]domain.Balances, error)
	SplitFlows(ctx context.Context, vaultID string) ([]domain.SplitFlow, error)
}

// MemberRepository defines data access for vault memberships.
type MemberRepository interface {
	Add(ctx context.Context, tx Transaction, member *domain.Member) error
	Get(ctx context.Context, vaultID, userID string) (*domain.Member, error)
	// ListByVault returns members in join order.
	ListByVault(ctx context.Context, vaultID string) ([]*domain.Member, error)
	UpdatePermission(ctx context.Context, vaultID, userID, permissionID string) error
	Remove(ctx context.Context, tx Transaction, vaultID, userID string) error
}

// PermissionRepository defines data access for vault permissions.
type PermissionRepository interface {
	Create(ctx context.Context, tx Transaction, permission *domain.Permission) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	GetByName(ctx context.Context, vaultID, name string) (*domain.Permission, error)
	ListByVault(ctx context.Context, vaultID string) ([]*domain.Permission, error)
}

// InviteRepository defines data access for invites.
type InviteRepository interface {
	Create(ctx context.Context, tx Transaction, invite *domain.Invite) error
	GetByID(ctx context.Context, id string) (*domain.Invite, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Invite, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.InviteStatus, at time.Time) error
	ListByVault(ctx context.Context, vaultID string) ([]*domain.Invite, error)
}

// ItemRepository defines data access for treasures and valuables.
type ItemRepository interface {
	Create(ctx context.Context, tx Transaction, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	ListByVault(ctx context.Context, vaultID string, kind domain.ItemKind) ([]*domain.Item, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Move(ctx context.Context, tx Transaction, ids []string, toVaultID string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// VaultTransferRepository defines data access for vault transfers.
type VaultTransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.VaultTransfer) error
	GetByID(ctx context.Context, id string) (*domain.VaultTransfer, error)
	ListByVault(ctx context.Context, vaultID string, limit, offset int) ([]*domain.VaultTransfer, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr adds delta to an integer counter and returns the new value. A
	// missing counter starts at zero.
	Incr(ctx context.Context, key string, delta int64) (int64, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// InviteTokens signs and verifies invite tokens.
type InviteTokens interface {
	Sign(payload domain.InvitePayload) (string, error)
	Verify(token string) domain.InviteVerification
}

// Metrics records domain counters.
type Metrics interface {
	SplitCompleted(mode string, currencies int, duration time.Duration)
	CoinEntriesWritten(kind string, n int)
	CacheLookup(name string, hit bool)
}

type noopMetrics struct{}

func (noopMetrics) SplitCompleted(string, int, time.Duration) {}

func (noopMetrics) CoinEntriesWritten(string, int) {}

func (noopMetrics) CacheLookup(string, bool) {}

// AccessResolver resolves a user's capabilities in a vault.
type AccessResolver interface {
	ResolveAccess(ctx context.Context, vaultID, userID string) (*domain.Access, error)
}
