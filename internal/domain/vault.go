package domain

import (
	"time"
)

// MergeSplitMode controls how a split treats multiple currencies.
type MergeSplitMode string

const (
	// MergeSplitPerCurrency splits every currency independently.
	MergeSplitPerCurrency MergeSplitMode = "per_currency"
	// MergeSplitBase converts everything to the base currency and splits once.
	MergeSplitBase MergeSplitMode = "base"
)

// IsValid checks if the mode is known.
func (m MergeSplitMode) IsValid() bool {
	return m == MergeSplitPerCurrency || m == MergeSplitBase
}

// Vault is a campaign-scoped container for coin, treasures and valuables.
type Vault struct {
	ID               string
	Name             string
	OwnerID          string
	MergeSplit       MergeSplitMode
	CommonCurrencyID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Capabilities is the set of actions a member may perform in a vault.
type Capabilities struct {
	EditCoin  bool
	EditItems bool
	Split     bool
	Transfer  bool
	Invite    bool
	Manage    bool
}

// FullCapabilities is what the vault owner gets.
var FullCapabilities = Capabilities{
	EditCoin:  true,
	EditItems: true,
	Split:     true,
	Transfer:  true,
	Invite:    true,
	Manage:    true,
}

// Capability names a single entry of Capabilities.
type Capability string

const (
	CapabilityView      Capability = "view"
	CapabilityEditCoin  Capability = "edit_coin"
	CapabilityEditItems Capability = "edit_items"
	CapabilitySplit     Capability = "split"
	CapabilityTransfer  Capability = "transfer"
	CapabilityInvite    Capability = "invite"
	CapabilityManage    Capability = "manage"
)

// Allows reports whether c grants the named capability. Every member can view.
func (c Capabilities) Allows(capability Capability) bool {
	switch capability {
	case CapabilityView:
		return true
	case CapabilityEditCoin:
		return c.EditCoin
	case CapabilityEditItems:
		return c.EditItems
	case CapabilitySplit:
		return c.Split
	case CapabilityTransfer:
		return c.Transfer
	case CapabilityInvite:
		return c.Invite
	case CapabilityManage:
		return c.Manage
	default:
		return false
	}
}

// DefaultPermissionName is the permission every new vault starts with.
const DefaultPermissionName = "Member"

// Permission is a named capability set scoped to one vault.
type Permission struct {
	ID        string
	VaultID   string
	Name      string
	Caps      Capabilities
	CreatedAt time.Time
}

// DefaultPermission returns the permission created alongside a vault.
func DefaultPermission(id, vaultID string, now time.Time) *Permission {
	return &Permission{
		ID:        id,
		VaultID:   vaultID,
		Name:      DefaultPermissionName,
		Caps:      Capabilities{EditCoin: true, EditItems: true},
		CreatedAt: now,
	}
}

// Member links a user to a vault.
type Member struct {
	VaultID      string
	UserID       string
	PermissionID string
	Email        string
	Name         string
	JoinedAt     time.Time
}

// Access is the resolved view of what a user may do in a vault.
type Access struct {
	Vault   *Vault
	UserID  string
	IsOwner bool
	Caps    Capabilities
}

// Can reports whether the access grants capability.
func (a *Access) Can(capability Capability) bool {
	if a == nil {
		return false
	}
	if a.IsOwner {
		return true
	}
	return a.Caps.Allows(capability)
}
