package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidVaultName = fmt.Errorf("%w: invalid vault name", ErrInvalidArgument)
	ErrAmountTooLarge   = fmt.Errorf("%w: amount exceeds maximum allowed", ErrInvalidArgument)
	ErrNoteTooLong      = fmt.Errorf("%w: note is too long", ErrInvalidArgument)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrInvalidArgument)
	ErrPasswordTooWeak  = fmt.Errorf("%w: password does not meet requirements", ErrInvalidArgument)
)

// Validation constants
const (
	MaxVaultNameLength = 255
	MinVaultNameLength = 1
	MaxNoteLength      = 1024
	MaxCoinValue       = "1000000000000" // 1 trillion
	MinPasswordLength  = 8
	MaxPasswordLength  = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateVaultName validates vault name
func ValidateVaultName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinVaultNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidVaultName)
	}

	if len(name) > MaxVaultNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidVaultName, MaxVaultNameLength)
	}

	return nil
}

// ValidateCoinValue validates a signed coin entry value.
func ValidateCoinValue(value decimal.Decimal) error {
	if value.IsZero() {
		return ErrZeroAmount
	}

	maxValue := decimal.RequireFromString(MaxCoinValue)
	if value.Abs().GreaterThan(maxValue) {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxCoinValue)
	}

	return nil
}

// ValidateNote validates a free-text note
func ValidateNote(note string) error {
	if len(note) > MaxNoteLength {
		return fmt.Errorf("%w: limit is %d bytes", ErrNoteTooLong, MaxNoteLength)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	// Check for at least one uppercase, one lowercase, and one number
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
