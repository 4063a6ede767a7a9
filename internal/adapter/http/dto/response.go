package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse represents a login response.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// VaultResponse represents a vault in API responses.
type VaultResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OwnerID          string    `json:"owner_id"`
	MergeSplit       string    `json:"merge_split"`
	CommonCurrencyID string    `json:"common_currency_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// VaultFromDomain converts domain vault to response.
func VaultFromDomain(v *domain.Vault) *VaultResponse {
	return &VaultResponse{
		ID:               v.ID,
		Name:             v.Name,
		OwnerID:          v.OwnerID,
		MergeSplit:       string(v.MergeSplit),
		CommonCurrencyID: v.CommonCurrencyID,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// VaultsFromDomain converts domain vaults to responses.
func VaultsFromDomain(vaults []*domain.Vault) []*VaultResponse {
	result := make([]*VaultResponse, len(vaults))
	for i, v := range vaults {
		result[i] = VaultFromDomain(v)
	}
	return result
}

// ListVaultsResponse represents a page of vaults.
type ListVaultsResponse struct {
	Vaults []*VaultResponse `json:"vaults"`
	Total  int64            `json:"total"`
}

// AccessResponse describes what the caller may do in a vault.
type AccessResponse struct {
	Vault       *VaultResponse      `json:"vault"`
	IsOwner     bool                `json:"is_owner"`
	Permissions CapabilitiesPayload `json:"permissions"`
}

// AccessFromDomain converts resolved access to response.
func AccessFromDomain(a *domain.Access) *AccessResponse {
	caps := a.Caps
	if a.IsOwner {
		caps = domain.FullCapabilities
	}
	return &AccessResponse{
		Vault:       VaultFromDomain(a.Vault),
		IsOwner:     a.IsOwner,
		Permissions: capabilitiesPayload(caps),
	}
}

// CapabilitiesPayload is the JSON form of a capability set.
type CapabilitiesPayload struct {
	CanEditCoin  bool `json:"can_edit_coin"`
	CanEditItems bool `json:"can_edit_items"`
	CanSplit     bool `json:"can_split"`
	CanTransfer  bool `json:"can_transfer"`
	CanInvite    bool `json:"can_invite"`
	CanManage    bool `json:"can_manage"`
}

func capabilitiesPayload(c domain.Capabilities) CapabilitiesPayload {
	return CapabilitiesPayload{
		CanEditCoin:  c.EditCoin,
		CanEditItems: c.EditItems,
		CanSplit:     c.Split,
		CanTransfer:  c.Transfer,
		CanInvite:    c.Invite,
		CanManage:    c.Manage,
	}
}

// PermissionResponse represents a permission in API responses.
type PermissionResponse struct {
	ID      string `json:"id"`
	VaultID string `json:"vault_id"`
	Name    string `json:"name"`
	CapabilitiesPayload
	CreatedAt time.Time `json:"created_at"`
}

// PermissionFromDomain converts domain permission to response.
func PermissionFromDomain(p *domain.Permission) *PermissionResponse {
	return &PermissionResponse{
		ID:                  p.ID,
		VaultID:             p.VaultID,
		Name:                p.Name,
		CapabilitiesPayload: capabilitiesPayload(p.Caps),
		CreatedAt:           p.CreatedAt,
	}
}

// PermissionsFromDomain converts domain permissions to responses.
func PermissionsFromDomain(perms []*domain.Permission) []*PermissionResponse {
	result := make([]*PermissionResponse, len(perms))
	for i, p := range perms {
		result[i] = PermissionFromDomain(p)
	}
	return result
}

// MemberResponse represents a vault member in API responses.
type MemberResponse struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	PermissionID string    `json:"permission_id"`
	JoinedAt     time.Time `json:"joined_at"`
}

// MemberFromDomain converts domain member to response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		UserID:       m.UserID,
		Email:        m.Email,
		Name:         m.Name,
		PermissionID: m.PermissionID,
		JoinedAt:     m.JoinedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = MemberFromDomain(m)
	}
	return result
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	ID        string          `json:"id"`
	VaultID   string          `json:"vault_id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Rate      decimal.Decimal `json:"rate"`
	IsBase    bool            `json:"is_base"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CurrencyFromDomain converts domain currency to response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		ID:        c.ID,
		VaultID:   c.VaultID,
		Name:      c.Name,
		Code:      c.Code,
		Rate:      c.Rate,
		IsBase:    c.IsBase(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CurrenciesFromDomain converts domain currencies to responses.
func CurrenciesFromDomain(currencies []*domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// EntryResponse represents a coin entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	VaultID         string          `json:"vault_id"`
	CurrencyID      string          `json:"currency_id"`
	Value           decimal.Decimal `json:"value"`
	Kind            string          `json:"kind"`
	MemberID        string          `json:"member_id,omitempty"`
	SplitID         string          `json:"split_id,omitempty"`
	TransferID      string          `json:"transfer_id,omitempty"`
	ArchivedBySplit string          `json:"archived_by_split,omitempty"`
	Note            string          `json:"note,omitempty"`
	Archived        bool            `json:"archived"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.CoinEntry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		VaultID:         e.VaultID,
		CurrencyID:      e.CurrencyID,
		Value:           e.Value,
		Kind:            string(e.Kind),
		MemberID:        e.MemberID,
		SplitID:         e.SplitID,
		TransferID:      e.TransferID,
		ArchivedBySplit: e.ArchivedBySplit,
		Note:            e.Note,
		Archived:        e.Archived,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.CoinEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// BalancesResponse is the pooled balance of every currency of a vault.
type BalancesResponse struct {
	VaultID  string                     `json:"vault_id"`
	Balances map[string]decimal.Decimal `json:"balances"`
}

// BalancesFromDomain converts domain balances to response.
func BalancesFromDomain(vaultID string, b domain.Balances) *BalancesResponse {
	out := make(map[string]decimal.Decimal, len(b))
	for k, v := range b {
		out[k] = v
	}
	return &BalancesResponse{VaultID: vaultID, Balances: out}
}

// CurrencyHoldingResponse is one currency line of a holdings view.
type CurrencyHoldingResponse struct {
	Currency  *CurrencyResponse `json:"currency"`
	Balance   decimal.Decimal   `json:"balance"`
	BaseValue decimal.Decimal   `json:"base_value"`
	Display   decimal.Decimal   `json:"display"`
}

// HoldingsResponse is the value view of a vault.
type HoldingsResponse struct {
	VaultID      string                                `json:"vault_id"`
	Unit         string                                `json:"unit"`
	CommonRate   decimal.Decimal                       `json:"common_rate"`
	Currencies   []CurrencyHoldingResponse             `json:"currencies"`
	CoinBase     decimal.Decimal                       `json:"coin_base"`
	ItemsBase    decimal.Decimal                       `json:"items_base"`
	TotalBase    decimal.Decimal                       `json:"total_base"`
	TotalDisplay decimal.Decimal                       `json:"total_display"`
	Members      map[string]map[string]decimal.Decimal `json:"members"`
}

// HoldingsFromUseCase converts a holdings view to response.
func HoldingsFromUseCase(h *usecase.Holdings) *HoldingsResponse {
	currencies := make([]CurrencyHoldingResponse, len(h.Currencies))
	for i, c := range h.Currencies {
		currencies[i] = CurrencyHoldingResponse{
			Currency:  CurrencyFromDomain(c.Currency),
			Balance:   c.Balance,
			BaseValue: c.BaseValue,
			Display:   c.Display,
		}
	}

	members := make(map[string]map[string]decimal.Decimal, len(h.Members))
	for memberID, balances := range h.Members {
		m := make(map[string]decimal.Decimal, len(balances))
		for currencyID, v := range balances {
			m[currencyID] = v
		}
		members[memberID] = m
	}

	return &HoldingsResponse{
		VaultID:      h.VaultID,
		Unit:         string(h.Unit),
		CommonRate:   h.CommonRate,
		Currencies:   currencies,
		CoinBase:     h.CoinBase,
		ItemsBase:    h.ItemsBase,
		TotalBase:    h.TotalBase,
		TotalDisplay: h.TotalDisplay,
		Members:      members,
	}
}

// CurrencySplitResponse is the split result of one currency.
type CurrencySplitResponse struct {
	CurrencyID    string           `json:"currency_id"`
	Balance       decimal.Decimal  `json:"balance"`
	PerShare      decimal.Decimal  `json:"per_share"`
	MemberShares  int              `json:"member_shares"`
	Treasury      decimal.Decimal  `json:"treasury"`
	Remainder     decimal.Decimal  `json:"remainder"`
	Unaccounted   decimal.Decimal  `json:"unaccounted"`
	ArchivedCount int              `json:"archived_count"`
	Entries       []*EntryResponse `json:"entries"`
}

// SplitResponse represents a split result in API responses.
type SplitResponse struct {
	SplitID    string                  `json:"split_id,omitempty"`
	Mode       string                  `json:"mode"`
	ShareCount int                     `json:"share_count"`
	Policy     string                  `json:"remainder_policy"`
	Performed  bool                    `json:"performed"`
	Currencies []CurrencySplitResponse `json:"currencies"`
}

// SplitFromDomain converts a split plan to response.
func SplitFromDomain(p *domain.SplitPlan) *SplitResponse {
	currencies := make([]CurrencySplitResponse, len(p.Currencies))
	for i, c := range p.Currencies {
		currencies[i] = CurrencySplitResponse{
			CurrencyID:    c.CurrencyID,
			Balance:       c.Balance,
			PerShare:      c.PerShare,
			MemberShares:  c.MemberShares,
			Treasury:      c.Treasury,
			Remainder:     c.Remainder,
			Unaccounted:   c.Unaccounted,
			ArchivedCount: len(c.ArchivedEntryIDs),
			Entries:       EntriesFromDomain(c.Inserted),
		}
	}

	return &SplitResponse{
		SplitID:    p.SplitID,
		Mode:       string(p.Mode),
		ShareCount: p.ShareCount,
		Policy:     string(p.Policy),
		Performed:  !p.IsEmpty(),
		Currencies: currencies,
	}
}

// ItemResponse represents an item in API responses.
type ItemResponse struct {
	ID          string          `json:"id"`
	VaultID     string          `json:"vault_id"`
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	TotalValue  decimal.Decimal `json:"total_value"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemFromDomain converts domain item to response.
func ItemFromDomain(i *domain.Item) *ItemResponse {
	return &ItemResponse{
		ID:          i.ID,
		VaultID:     i.VaultID,
		Kind:        string(i.Kind),
		Name:        i.Name,
		Description: i.Description,
		Quantity:    i.Quantity,
		Value:       i.Value,
		TotalValue:  i.TotalValue(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ItemsFromDomain converts domain items to responses.
func ItemsFromDomain(items []*domain.Item) []*ItemResponse {
	result := make([]*ItemResponse, len(items))
	for i, it := range items {
		result[i] = ItemFromDomain(it)
	}
	return result
}

// CoinAmountResponse is an amount of one currency.
type CoinAmountResponse struct {
	CurrencyID string          `json:"currency_id"`
	Value      decimal.Decimal `json:"value"`
}

// TransferResponse represents a vault transfer in API responses.
type TransferResponse struct {
	ID          string               `json:"id"`
	FromVaultID string               `json:"from_vault_id"`
	ToVaultID   string               `json:"to_vault_id"`
	Coins       []CoinAmountResponse `json:"coins"`
	ItemIDs     []string             `json:"item_ids"`
	Note        string               `json:"note,omitempty"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.VaultTransfer) *TransferResponse {
	coins := make([]CoinAmountResponse, len(t.Coins))
	for i, c := range t.Coins {
		coins[i] = CoinAmountResponse{CurrencyID: c.CurrencyID, Value: c.Value}
	}
	itemIDs := t.ItemIDs
	if itemIDs == nil {
		itemIDs = []string{}
	}
	return &TransferResponse{
		ID:          t.ID,
		FromVaultID: t.FromVaultID,
		ToVaultID:   t.ToVaultID,
		Coins:       coins,
		ItemIDs:     itemIDs,
		Note:        t.Note,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.VaultTransfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// RewardResponse represents a valued reward.
type RewardResponse struct {
	VaultID     string           `json:"vault_id"`
	Entries     []*EntryResponse `json:"entries"`
	Items       []*ItemResponse  `json:"items"`
	CoinBase    decimal.Decimal  `json:"coin_base"`
	ItemsBase   decimal.Decimal  `json:"items_base"`
	TotalBase   decimal.Decimal  `json:"total_base"`
	TotalCommon decimal.Decimal  `json:"total_common"`
	DryRun      bool             `json:"dry_run"`
}

// RewardFromUseCase converts a reward summary to response.
func RewardFromUseCase(s *usecase.RewardSummary) *RewardResponse {
	return &RewardResponse{
		VaultID:     s.VaultID,
		Entries:     EntriesFromDomain(s.Entries),
		Items:       ItemsFromDomain(s.Items),
		CoinBase:    s.CoinBase,
		ItemsBase:   s.ItemsBase,
		TotalBase:   s.TotalBase,
		TotalCommon: s.TotalCommon,
		DryRun:      s.DryRun,
	}
}

// ActivityResponse represents one activity log event.
type ActivityResponse struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// ActivityFromDomain converts outbox events to responses.
func ActivityFromDomain(events []*domain.OutboxEvent) []*ActivityResponse {
	result := make([]*ActivityResponse, len(events))
	for i, e := range events {
		result[i] = &ActivityResponse{
			ID:        e.ID,
			EventType: e.EventType,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		}
	}
	return result
}

// SplitDiscrepancyResponse is a split whose outputs do not match its inputs.
type SplitDiscrepancyResponse struct {
	SplitID     string          `json:"split_id"`
	Consumed    decimal.Decimal `json:"consumed"`
	Distributed decimal.Decimal `json:"distributed"`
	Unaccounted decimal.Decimal `json:"unaccounted"`
}

// ReconciliationResponse represents a split reconciliation report.
type ReconciliationResponse struct {
	VaultID       string                     `json:"vault_id"`
	SplitsChecked int                        `json:"splits_checked"`
	Consistent    bool                       `json:"consistent"`
	Discrepancies []SplitDiscrepancyResponse `json:"discrepancies"`
	CheckedAt     time.Time                  `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation report to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	discrepancies := make([]SplitDiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = SplitDiscrepancyResponse{
			SplitID:     d.SplitID,
			Consumed:    d.Consumed,
			Distributed: d.Distributed,
			Unaccounted: d.Unaccounted,
		}
	}
	return &ReconciliationResponse{
		VaultID:       r.VaultID,
		SplitsChecked: r.SplitsChecked,
		Consistent:    r.Consistent,
		Discrepancies: discrepancies,
		CheckedAt:     r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
