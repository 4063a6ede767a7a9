package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// RegisterRequest represents a request to create a user account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// UpdateUserRequest represents a profile update.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput(userID string) usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		ID:       userID,
		Name:     r.Name,
		Password: r.Password,
	}
}

// BaseCurrencyRequest names the base currency of a new vault.
type BaseCurrencyRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CreateVaultRequest represents a request to create a vault.
type CreateVaultRequest struct {
	Name         string              `json:"name"`
	MergeSplit   string              `json:"merge_split,omitempty"`
	BaseCurrency BaseCurrencyRequest `json:"base_currency"`
}

// Validate checks required fields.
func (r *CreateVaultRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: vault name is required", domain.ErrInvalidArgument)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateVaultRequest) ToUseCaseInput(ownerID string) usecase.CreateVaultInput {
	return usecase.CreateVaultInput{
		Name:             r.Name,
		OwnerID:          ownerID,
		MergeSplit:       r.MergeSplit,
		BaseCurrencyName: r.BaseCurrency.Name,
		BaseCurrencyCode: r.BaseCurrency.Code,
	}
}

// UpdateVaultRequest represents a partial vault update.
type UpdateVaultRequest struct {
	Name             *string `json:"name,omitempty"`
	MergeSplit       *string `json:"merge_split,omitempty"`
	CommonCurrencyID *string `json:"common_currency_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateVaultRequest) ToUseCaseInput(vaultID string) usecase.UpdateVaultInput {
	return usecase.UpdateVaultInput{
		VaultID:          vaultID,
		Name:             r.Name,
		MergeSplit:       r.MergeSplit,
		CommonCurrencyID: r.CommonCurrencyID,
	}
}

// CreatePermissionRequest represents a named capability set.
type CreatePermissionRequest struct {
	Name        string `json:"name"`
	CanEditCoin bool   `json:"can_edit_coin"`
	CanEditItem bool   `json:"can_edit_items"`
	CanSplit    bool   `json:"can_split"`
	CanTransfer bool   `json:"can_transfer"`
	CanInvite   bool   `json:"can_invite"`
	CanManage   bool   `json:"can_manage"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePermissionRequest) ToUseCaseInput(vaultID string) usecase.CreatePermissionInput {
	return usecase.CreatePermissionInput{
		VaultID: vaultID,
		Name:    r.Name,
		Caps: domain.Capabilities{
			EditCoin:  r.CanEditCoin,
			EditItems: r.CanEditItem,
			Split:     r.CanSplit,
			Transfer:  r.CanTransfer,
			Invite:    r.CanInvite,
			Manage:    r.CanManage,
		},
	}
}

// UpdateMemberRequest assigns a permission to a member.
type UpdateMemberRequest struct {
	PermissionID string `json:"permission_id"`
}

// CreateCurrencyRequest represents a request to add a currency.
type CreateCurrencyRequest struct {
	Name string          `json:"name"`
	Code string          `json:"code"`
	Rate decimal.Decimal `json:"rate"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCurrencyRequest) ToUseCaseInput(vaultID string) usecase.CreateCurrencyInput {
	return usecase.CreateCurrencyInput{
		VaultID: vaultID,
		Name:    r.Name,
		Code:    r.Code,
		Rate:    r.Rate,
	}
}

// UpdateCurrencyRequest represents a partial currency update.
type UpdateCurrencyRequest struct {
	Name *string          `json:"name,omitempty"`
	Code *string          `json:"code,omitempty"`
	Rate *decimal.Decimal `json:"rate,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCurrencyRequest) ToUseCaseInput(vaultID, currencyID string) usecase.UpdateCurrencyInput {
	return usecase.UpdateCurrencyInput{
		VaultID:    vaultID,
		CurrencyID: currencyID,
		Name:       r.Name,
		Code:       r.Code,
		Rate:       r.Rate,
	}
}

// AddEntryRequest records income or expense.
type AddEntryRequest struct {
	CurrencyID string          `json:"currency_id"`
	Value      decimal.Decimal `json:"value"`
	Note       string          `json:"note,omitempty"`
}

// Validate checks required fields.
func (r *AddEntryRequest) Validate() error {
	if r.CurrencyID == "" {
		return fmt.Errorf("%w: currency_id is required", domain.ErrInvalidArgument)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *AddEntryRequest) ToUseCaseInput(vaultID, actorID string) usecase.AddEntryInput {
	return usecase.AddEntryInput{
		VaultID:    vaultID,
		CurrencyID: r.CurrencyID,
		Value:      r.Value,
		Note:       r.Note,
		CreatedBy:  actorID,
	}
}

// SplitRequest represents a request to split the vault pool.
type SplitRequest struct {
	// PartyMemberCount omitted means the vault's members.
	PartyMemberCount *int   `json:"party_member_count,omitempty"`
	KeepPartyShare   bool   `json:"keep_party_share"`
	RemainderPolicy  string `json:"remainder_policy,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SplitRequest) ToUseCaseInput(vaultID, actorID string) usecase.SplitInput {
	return usecase.SplitInput{
		VaultID:          vaultID,
		PartyMemberCount: r.PartyMemberCount,
		KeepPartyShare:   r.KeepPartyShare,
		RemainderPolicy:  r.RemainderPolicy,
		CreatedBy:        actorID,
	}
}

// CoinAmountRequest is an amount of one currency.
type CoinAmountRequest struct {
	CurrencyID string          `json:"currency_id"`
	Value      decimal.Decimal `json:"value"`
}

func coinAmounts(in []CoinAmountRequest) []domain.CoinAmount {
	out := make([]domain.CoinAmount, len(in))
	for i, c := range in {
		out[i] = domain.CoinAmount{CurrencyID: c.CurrencyID, Value: c.Value}
	}
	return out
}

// CreateItemRequest represents a treasure or valuable.
type CreateItemRequest struct {
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateItemRequest) ToUseCaseInput(vaultID string) usecase.CreateItemInput {
	return usecase.CreateItemInput{
		VaultID:     vaultID,
		Kind:        r.Kind,
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		Value:       r.Value,
	}
}

// UpdateItemRequest represents a partial item update.
type UpdateItemRequest struct {
	Kind        *string          `json:"kind,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateItemRequest) ToUseCaseInput(vaultID, itemID string) usecase.UpdateItemInput {
	return usecase.UpdateItemInput{
		VaultID:     vaultID,
		ItemID:      itemID,
		Kind:        r.Kind,
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		Value:       r.Value,
	}
}

// CreateTransferRequest moves coin and items to another vault.
type CreateTransferRequest struct {
	ToVaultID string              `json:"to_vault_id"`
	Coins     []CoinAmountRequest `json:"coins,omitempty"`
	ItemIDs   []string            `json:"item_ids,omitempty"`
	Note      string              `json:"note,omitempty"`
}

// Validate checks required fields.
func (r *CreateTransferRequest) Validate() error {
	if r.ToVaultID == "" {
		return fmt.Errorf("%w: to_vault_id is required", domain.ErrInvalidArgument)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(fromVaultID, actorID string) usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		FromVaultID: fromVaultID,
		ToVaultID:   r.ToVaultID,
		Coins:       coinAmounts(r.Coins),
		ItemIDs:     r.ItemIDs,
		Note:        r.Note,
		CreatedBy:   actorID,
	}
}

// PrepareRewardRequest represents a reward to value and optionally add.
type PrepareRewardRequest struct {
	Coins  []CoinAmountRequest `json:"coins,omitempty"`
	Items  []CreateItemRequest `json:"items,omitempty"`
	Note   string              `json:"note,omitempty"`
	DryRun bool                `json:"dry_run"`
}

// ToUseCaseInput converts to use case input.
func (r *PrepareRewardRequest) ToUseCaseInput(vaultID, actorID string) usecase.PrepareRewardInput {
	items := make([]usecase.RewardItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = usecase.RewardItem{
			Kind:        it.Kind,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			Value:       it.Value,
		}
	}
	return usecase.PrepareRewardInput{
		VaultID:   vaultID,
		Coins:     coinAmounts(r.Coins),
		Items:     items,
		Note:      r.Note,
		DryRun:    r.DryRun,
		CreatedBy: actorID,
	}
}
