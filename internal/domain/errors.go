package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so callers can
// classify failures with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrStore           = errors.New("store error")
)

var (
	// Vault errors
	ErrVaultNotFound      = fmt.Errorf("vault %w", ErrNotFound)
	ErrInvalidMergeSplit  = fmt.Errorf("%w: merge split must be per_currency or base", ErrInvalidArgument)
	ErrOwnerNotRemovable  = fmt.Errorf("%w: vault owner cannot be removed", ErrInvalidArgument)
	ErrMemberNotFound     = fmt.Errorf("member %w", ErrNotFound)
	ErrPermissionNotFound = fmt.Errorf("permission %w", ErrNotFound)
	ErrAlreadyMember      = fmt.Errorf("%w: user is already a member of this vault", ErrInvalidArgument)
	ErrInsufficientAccess = fmt.Errorf("%w: insufficient vault permissions", ErrForbidden)

	// Currency errors
	ErrCurrencyNotFound      = fmt.Errorf("currency %w", ErrNotFound)
	ErrInvalidRate           = fmt.Errorf("%w: rate must be positive", ErrInvalidArgument)
	ErrDuplicateBaseCurrency = fmt.Errorf("%w: only the base currency may have rate 1", ErrInvalidArgument)
	ErrInexactRebase         = fmt.Errorf("%w: rebase would round a rate", ErrInvalidArgument)
	ErrBaseRateLocked        = fmt.Errorf("%w: base currency rate is fixed at 1, rebase instead", ErrInvalidArgument)
	ErrDuplicateCurrencyCode = fmt.Errorf("%w: currency code already exists in vault", ErrInvalidArgument)
	ErrNoBaseCurrency        = fmt.Errorf("base currency %w", ErrNotFound)
	ErrCurrencyMismatch      = fmt.Errorf("%w: target vault has no currency with this code", ErrInvalidArgument)
	ErrInvalidUnit           = fmt.Errorf("%w: unit must be base or common", ErrInvalidArgument)

	// Coin errors
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	ErrZeroAmount        = fmt.Errorf("%w: amount must not be zero", ErrInvalidArgument)
	ErrInsufficientCoin  = fmt.Errorf("%w: vault balance too low", ErrInvalidArgument)
	ErrInvalidShareCount = fmt.Errorf("%w: share count must be positive", ErrInvalidArgument)
	ErrInvalidPolicy     = fmt.Errorf("%w: unknown remainder policy", ErrInvalidArgument)

	// Item errors
	ErrItemNotFound    = fmt.Errorf("item %w", ErrNotFound)
	ErrInvalidItemKind = fmt.Errorf("%w: item kind must be treasure or valuable", ErrInvalidArgument)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", ErrInvalidArgument)

	// Transfer errors
	ErrSameVault        = fmt.Errorf("%w: cannot transfer to the same vault", ErrInvalidArgument)
	ErrEmptyTransfer    = fmt.Errorf("%w: transfer moves nothing", ErrInvalidArgument)
	ErrTransferNotFound = fmt.Errorf("transfer %w", ErrNotFound)

	// Invite errors
	ErrInviteNotFound      = fmt.Errorf("invite %w", ErrNotFound)
	ErrInviteNotPending    = fmt.Errorf("%w: invite is no longer pending", ErrInvalidArgument)
	ErrInviteEmailMismatch = fmt.Errorf("%w: invite was issued for another email", ErrForbidden)
)

// StoreError wraps a persistence failure. It matches ErrStore and unwraps to
// the driver error so retry logic can still inspect it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports ErrStore as a match.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// NewStoreError wraps err, returning nil when err is nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
