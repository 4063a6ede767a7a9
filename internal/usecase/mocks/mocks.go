package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// MockVaultRepository is a mock implementation of VaultRepository.
type MockVaultRepository struct {
	mu     sync.RWMutex
	vaults map[string]*domain.Vault

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, vault *domain.Vault) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Vault, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Vault, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Vault, error)
	UpdateFunc            func(ctx context.Context, vault *domain.Vault) error
	ListByMemberFunc      func(ctx context.Context, userID string, limit, offset int) ([]*domain.Vault, error)

	// LockedIDs records the ids passed to GetByIDsForUpdate, in order.
	LockedIDs []string
}

func NewMockVaultRepository(vaults ...*domain.Vault) *MockVaultRepository {
	m := &MockVaultRepository{vaults: make(map[string]*domain.Vault)}
	for _, v := range vaults {
		m.vaults[v.ID] = v
	}
	return m
}

func (m *MockVaultRepository) Create(ctx context.Context, tx usecase.Transaction, vault *domain.Vault) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, vault)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vaults[vault.ID] = vault
	return nil
}

func (m *MockVaultRepository) GetByID(ctx context.Context, id string) (*domain.Vault, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vaults[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, domain.ErrVaultNotFound
}

func (m *MockVaultRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Vault, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockVaultRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Vault, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.Lock()
	m.LockedIDs = append(m.LockedIDs, ids...)
	m.mu.Unlock()

	var vaults []*domain.Vault
	for _, id := range ids {
		if v, err := m.GetByID(ctx, id); err == nil {
			vaults = append(vaults, v)
		}
	}
	return vaults, nil
}

func (m *MockVaultRepository) Update(ctx context.Context, vault *domain.Vault) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, vault)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vaults[vault.ID]; !ok {
		return domain.ErrVaultNotFound
	}
	m.vaults[vault.ID] = vault
	return nil
}

func (m *MockVaultRepository) ListByMember(ctx context.Context, userID string, limit, offset int) ([]*domain.Vault, error) {
	if m.ListByMemberFunc != nil {
		return m.ListByMemberFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var vaults []*domain.Vault
	for _, v := range m.vaults {
		if v.OwnerID == userID {
			vaults = append(vaults, v)
		}
	}
	return vaults, nil
}

// MockCurrencyRepository is a mock implementation of CurrencyRepository.
type MockCurrencyRepository struct {
	mu         sync.RWMutex
	currencies []*domain.Currency

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Currency, error)
	ListByVaultFunc   func(ctx context.Context, vaultID string) ([]*domain.Currency, error)
	ListByVaultTxFunc func(ctx context.Context, tx usecase.Transaction, vaultID string) ([]*domain.Currency, error)
	UpdateFunc        func(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error
}

func NewMockCurrencyRepository(currencies ...*domain.Currency) *MockCurrencyRepository {
	return &MockCurrencyRepository{currencies: currencies}
}

func (m *MockCurrencyRepository) Create(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies = append(m.currencies, currency)
	return nil
}

func (m *MockCurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.currencies {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrCurrencyNotFound
}

func (m *MockCurrencyRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Currency, error) {
	if m.ListByVaultFunc != nil {
		return m.ListByVaultFunc(ctx, vaultID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Currency
	for _, c := range m.currencies {
		if c.VaultID == vaultID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockCurrencyRepository) ListByVaultTx(ctx context.Context, tx usecase.Transaction, vaultID string) ([]*domain.Currency, error) {
	if m.ListByVaultTxFunc != nil {
		return m.ListByVaultTxFunc(ctx, tx, vaultID)
	}
	return m.ListByVault(ctx, vaultID)
}

func (m *MockCurrencyRepository) Update(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.currencies {
		if c.ID == currency.ID {
			m.currencies[i] = currency
			return nil
		}
	}
	return domain.ErrCurrencyNotFound
}

// MockCoinRepository is an in-memory implementation of CoinRepository.
type MockCoinRepository struct {
	mu      sync.RWMutex
	entries []*domain.CoinEntry

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.CoinEntry) error
	BalancesFunc         func(ctx context.Context, vaultID string) (domain.Balances, error)
	BalancesTxFunc       func(ctx context.Context, tx usecase.Transaction, vaultID string) (domain.Balances, error)
	ListUnarchivedTxFunc func(ctx context.Context, tx usecase.Transaction, vaultID string) ([]*domain.CoinEntry, error)
	ArchiveFunc          func(ctx context.Context, tx usecase.Transaction, ids []string, splitID string) (int64, error)
	ListFunc             func(ctx context.Context, vaultID string, includeArchived bool, limit, offset int) ([]*domain.CoinEntry, error)
	MemberHoldingsFunc   func(ctx context.Context, vaultID string) (map[string]domain.Balances, error)
	SplitFlowsFunc       func(ctx context.Context, vaultID string) ([]domain.SplitFlow, error)

	BalancesCalls int
}

func NewMockCoinRepository(entries ...*domain.CoinEntry) *MockCoinRepository {
	return &MockCoinRepository{entries: entries}
}

// Entries returns a snapshot of every stored entry.
func (m *MockCoinRepository) Entries() []*domain.CoinEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.CoinEntry, 0, len(m.entries))
	for _, e := range m.entries {
		copied := *e
		out = append(out, &copied)
	}
	return out
}

func (m *MockCoinRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CoinEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

func (m *MockCoinRepository) Balances(ctx context.Context, vaultID string) (domain.Balances, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx, vaultID)
	}
	m.mu.Lock()
	m.BalancesCalls++
	m.mu.Unlock()
	return domain.SumBalances(m.byVault(vaultID)), nil
}

func (m *MockCoinRepository) BalancesTx(ctx context.Context, tx usecase.Transaction, vaultID string) (domain.Balances, error) {
	if m.BalancesTxFunc != nil {
		return m.BalancesTxFunc(ctx, tx, vaultID)
	}
	return domain.SumBalances(m.byVault(vaultID)), nil
}

func (m *MockCoinRepository) ListUnarchivedTx(ctx context.Context, tx usecase.Transaction, vaultID string) ([]*domain.CoinEntry, error) {
	if m.ListUnarchivedTxFunc != nil {
		return m.ListUnarchivedTxFunc(ctx, tx, vaultID)
	}
	var out []*domain.CoinEntry
	for _, e := range m.byVault(vaultID) {
		if !e.Archived {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockCoinRepository) Archive(ctx context.Context, tx usecase.Transaction, ids []string, splitID string) (int64, error) {
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, tx, ids, splitID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var n int64
	for _, e := range m.entries {
		if want[e.ID] && !e.Archived {
			e.Archived = true
			e.ArchivedBySplit = splitID
			n++
		}
	}
	return n, nil
}

func (m *MockCoinRepository) List(ctx context.Context, vaultID string, includeArchived bool, limit, offset int) ([]*domain.CoinEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, vaultID, includeArchived, limit, offset)
	}
	var out []*domain.CoinEntry
	for _, e := range m.byVault(vaultID) {
		if includeArchived || !e.Archived {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCoinRepository) MemberHoldings(ctx context.Context, vaultID string) (map[string]domain.Balances, error) {
	if m.MemberHoldingsFunc != nil {
		return m.MemberHoldingsFunc(ctx, vaultID)
	}
	out := make(map[string]domain.Balances)
	for _, e := range m.byVault(vaultID) {
		if e.Kind != domain.EntryKindShare || e.MemberID == "" {
			continue
		}
		b, ok := out[e.MemberID]
		if !ok {
			b = domain.Balances{}
			out[e.MemberID] = b
		}
		b[e.CurrencyID] = b.Get(e.CurrencyID).Add(e.Value)
	}
	return out, nil
}

func (m *MockCoinRepository) SplitFlows(ctx context.Context, vaultID string) ([]domain.SplitFlow, error) {
	if m.SplitFlowsFunc != nil {
		return m.SplitFlowsFunc(ctx, vaultID)
	}
	type key struct{ split, currency string }
	flows := make(map[key]*domain.SplitFlow)
	get := func(k key) *domain.SplitFlow {
		f, ok := flows[k]
		if !ok {
			f = &domain.SplitFlow{SplitID: k.split, CurrencyID: k.currency, Consumed: decimal.Zero, Distributed: decimal.Zero}
			flows[k] = f
		}
		return f
	}
	for _, e := range m.byVault(vaultID) {
		if e.ArchivedBySplit != "" {
			f := get(key{e.ArchivedBySplit, e.CurrencyID})
			f.Consumed = f.Consumed.Add(e.Value)
		}
		if e.SplitID != "" {
			f := get(key{e.SplitID, e.CurrencyID})
			f.Distributed = f.Distributed.Add(e.Value)
		}
	}
	out := make([]domain.SplitFlow, 0, len(flows))
	for _, f := range flows {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SplitID != out[j].SplitID {
			return out[i].SplitID < out[j].SplitID
		}
		return out[i].CurrencyID < out[j].CurrencyID
	})
	return out, nil
}

func (m *MockCoinRepository) byVault(vaultID string) []*domain.CoinEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CoinEntry
	for _, e := range m.entries {
		if e.VaultID == vaultID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out
}

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members []*domain.Member

	AddFunc              func(ctx context.Context, tx usecase.Transaction, member *domain.Member) error
	GetFunc              func(ctx context.Context, vaultID, userID string) (*domain.Member, error)
	ListByVaultFunc      func(ctx context.Context, vaultID string) ([]*domain.Member, error)
	UpdatePermissionFunc func(ctx context.Context, vaultID, userID, permissionID string) error
	RemoveFunc           func(ctx context.Context, tx usecase.Transaction, vaultID, userID string) error
}

func NewMockMemberRepository(members ...*domain.Member) *MockMemberRepository {
	return &MockMemberRepository{members: members}
}

func (m *MockMemberRepository) Add(ctx context.Context, tx usecase.Transaction, member *domain.Member) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, tx, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = append(m.members, member)
	return nil
}

func (m *MockMemberRepository) Get(ctx context.Context, vaultID, userID string) (*domain.Member, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, vaultID, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mem := range m.members {
		if mem.VaultID == vaultID && mem.UserID == userID {
			copied := *mem
			return &copied, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Member, error) {
	if m.ListByVaultFunc != nil {
		return m.ListByVaultFunc(ctx, vaultID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Member
	for _, mem := range m.members {
		if mem.VaultID == vaultID {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *MockMemberRepository) UpdatePermission(ctx context.Context, vaultID, userID, permissionID string) error {
	if m.UpdatePermissionFunc != nil {
		return m.UpdatePermissionFunc(ctx, vaultID, userID, permissionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range m.members {
		if mem.VaultID == vaultID && mem.UserID == userID {
			mem.PermissionID = permissionID
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (m *MockMemberRepository) Remove(ctx context.Context, tx usecase.Transaction, vaultID, userID string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, tx, vaultID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mem := range m.members {
		if mem.VaultID == vaultID && mem.UserID == userID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

// MockPermissionRepository is a mock implementation of PermissionRepository.
type MockPermissionRepository struct {
	mu          sync.RWMutex
	permissions []*domain.Permission

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, permission *domain.Permission) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Permission, error)
	GetByNameFunc   func(ctx context.Context, vaultID, name string) (*domain.Permission, error)
	ListByVaultFunc func(ctx context.Context, vaultID string) ([]*domain.Permission, error)
}

func NewMockPermissionRepository(permissions ...*domain.Permission) *MockPermissionRepository {
	return &MockPermissionRepository{permissions: permissions}
}

func (m *MockPermissionRepository) Create(ctx context.Context, tx usecase.Transaction, permission *domain.Permission) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, permission)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permissions = append(m.permissions, permission)
	return nil
}

func (m *MockPermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.permissions {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrPermissionNotFound
}

func (m *MockPermissionRepository) GetByName(ctx context.Context, vaultID, name string) (*domain.Permission, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, vaultID, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.permissions {
		if p.VaultID == vaultID && p.Name == name {
			return p, nil
		}
	}
	return nil, domain.ErrPermissionNotFound
}

func (m *MockPermissionRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Permission, error) {
	if m.ListByVaultFunc != nil {
		return m.ListByVaultFunc(ctx, vaultID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Permission
	for _, p := range m.permissions {
		if p.VaultID == vaultID {
			out = append(out, p)
		}
	}
	return out, nil
}

// MockInviteRepository is a mock implementation of InviteRepository.
type MockInviteRepository struct {
	mu      sync.RWMutex
	invites map[string]*domain.Invite

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, invite *domain.Invite) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Invite, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invite, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.InviteStatus, at time.Time) error
	ListByVaultFunc      func(ctx context.Context, vaultID string) ([]*domain.Invite, error)
}

func NewMockInviteRepository(invites ...*domain.Invite) *MockInviteRepository {
	m := &MockInviteRepository{invites: make(map[string]*domain.Invite)}
	for _, inv := range invites {
		m.invites[inv.ID] = inv
	}
	return m
}

func (m *MockInviteRepository) Create(ctx context.Context, tx usecase.Transaction, invite *domain.Invite) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, invite)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites[invite.ID] = invite
	return nil
}

func (m *MockInviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inv, ok := m.invites[id]; ok {
		copied := *inv
		return &copied, nil
	}
	return nil, domain.ErrInviteNotFound
}

func (m *MockInviteRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invite, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockInviteRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InviteStatus, at time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok {
		return domain.ErrInviteNotFound
	}
	inv.Status = status
	if status == domain.InviteStatusAccepted {
		inv.AcceptedAt = &at
	}
	return nil
}

func (m *MockInviteRepository) ListByVault(ctx context.Context, vaultID string) ([]*domain.Invite, error) {
	if m.ListByVaultFunc != nil {
		return m.ListByVaultFunc(ctx, vaultID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Invite
	for _, inv := range m.invites {
		if inv.VaultID == vaultID {
			out = append(out, inv)
		}
	}
	return out, nil
}

// MockItemRepository is a mock implementation of ItemRepository.
type MockItemRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, item *domain.Item) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Item, error)
	ListByVaultFunc       func(ctx context.Context, vaultID string, kind domain.ItemKind) ([]*domain.Item, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Item, error)
	UpdateFunc            func(ctx context.Context, item *domain.Item) error
	MoveFunc              func(ctx context.Context, tx usecase.Transaction, ids []string, toVaultID string, at time.Time) error
	DeleteFunc            func(ctx context.Context, id string) error
}

func NewMockItemRepository(items ...*domain.Item) *MockItemRepository {
	m := &MockItemRepository{items: make(map[string]*domain.Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *MockItemRepository) Create(ctx context.Context, tx usecase.Transaction, item *domain.Item) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if it, ok := m.items[id]; ok {
		copied := *it
		return &copied, nil
	}
	return nil, domain.ErrItemNotFound
}

func (m *MockItemRepository) ListByVault(ctx context.Context, vaultID string, kind domain.ItemKind) ([]*domain.Item, error) {
	if m.ListByVaultFunc != nil {
		return m.ListByVaultFunc(ctx, vaultID, kind)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Item
	for _, it := range m.items {
		if it.VaultID == vaultID && (kind == "" || it.Kind == kind) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *MockItemRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Item, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	var out []*domain.Item
	for _, id := range ids {
		if it, err := m.GetByID(ctx, id); err == nil {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *MockItemRepository) Update(ctx context.Context, item *domain.Item) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MockItemRepository) Move(ctx context.Context, tx usecase.Transaction, ids []string, toVaultID string, at time.Time) error {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, tx, ids, toVaultID, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			it.VaultID = toVaultID
			it.UpdatedAt = at
		}
	}
	return nil
}

func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

// MockVaultTransferRepository is a mock implementation of VaultTransferRepository.
type MockVaultTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.VaultTransfer

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, transfer *domain.VaultTransfer) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.VaultTransfer, error)
	ListByVaultFunc func(ctx context.Context, vaultID string, limit, offset int) ([]*domain.VaultTransfer, error)
}

func NewMockVaultTransferRepository() *MockVaultTransferRepository {
	return &MockVaultTransferRepository{transfers: make(map[string]*domain.VaultTransfer)}
}

func (m *MockVaultTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.VaultTransfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockVaultTransferRepository) GetByID(ctx context.Context, id string) (*domain.VaultTransfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockVaultTransferRepository) ListByVault(ctx context.Context, vaultID string, limit, offset int) ([]*domain.VaultTransfer, error) {
	if m.ListByVaultFunc != nil {
		return m.ListByVaultFunc(ctx, vaultID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.VaultTransfer
	for _, t := range m.transfers {
		if t.FromVaultID == vaultID || t.ToVaultID == vaultID {
			out = append(out, t)
		}
	}
	return out, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregateFunc  func(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns every recorded event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	if m.GetByAggregateFunc != nil {
		return m.GetByAggregateFunc(ctx, aggregateType, aggregateID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	GetByIDFunc func(ctx context.Context, id string) (*domain.User, error)
}

func NewMockUserRepository(users ...*domain.User) *MockUserRepository {
	m := &MockUserRepository{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	tx.CommitFunc = func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		tx.done = true
		m.Commits++
		return nil
	}
	// Rollback after Commit is a no-op, as with pgx.
	tx.RollbackFunc = func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if tx.done {
			return nil
		}
		tx.done = true
		m.Rollbacks++
		return nil
	}
	return tx, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	done bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a mock implementation of Retrier.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
	Calls     int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.Calls++
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockCache is an in-memory implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	counters map[string]int64

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	IncrFunc   func(ctx context.Context, key string, delta int64) (int64, error)
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte), counters: make(map[string]int64)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCache) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key] += delta
	return m.counters[key], nil
}

// Has reports whether key is cached.
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

type cacheMiss struct{}

func (cacheMiss) Error() string { return "cache miss" }

var errCacheMiss error = cacheMiss{}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// MockInviteTokens is a mock implementation of InviteTokens. Signed payloads
// are remembered and returned by Verify.
type MockInviteTokens struct {
	mu       sync.Mutex
	payloads map[string]domain.InvitePayload
	counter  int

	SignFunc   func(payload domain.InvitePayload) (string, error)
	VerifyFunc func(token string) domain.InviteVerification
}

func NewMockInviteTokens() *MockInviteTokens {
	return &MockInviteTokens{payloads: make(map[string]domain.InvitePayload)}
}

func (m *MockInviteTokens) Sign(payload domain.InvitePayload) (string, error) {
	if m.SignFunc != nil {
		return m.SignFunc(payload)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	token := "token-" + strconv.Itoa(m.counter)
	m.payloads[token] = payload
	return token, nil
}

func (m *MockInviteTokens) Verify(token string) domain.InviteVerification {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.payloads[token]
	if !ok {
		return domain.InviteVerification{Error: domain.InviteErrInvalid}
	}
	return domain.InviteVerification{OK: true, Data: &payload}
}
