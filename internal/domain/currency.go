package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a unit of coin within a vault. Rate converts to base units:
// an amount a of this currency equals a*Rate base units.
type Currency struct {
	ID        string
	VaultID   string
	Name      string
	Code      string
	Rate      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBase reports whether c is the vault's base currency.
func (c *Currency) IsBase() bool {
	return c.Rate.Equal(decimal.NewFromInt(1))
}

// ToBase converts an amount of c into base units.
func (c *Currency) ToBase(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.Rate)
}

const (
	MaxCurrencyNameLength = 64
	MaxCurrencyCodeLength = 8
)

// NormalizeCurrencyCode trims and upper-cases a currency code.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCurrencyFields validates name, code and rate of a currency.
func ValidateCurrencyFields(name, code string, rate decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxCurrencyNameLength {
		return fmt.Errorf("%w: currency name must be 1-%d characters", ErrInvalidArgument, MaxCurrencyNameLength)
	}

	code = NormalizeCurrencyCode(code)
	if code == "" || len(code) > MaxCurrencyCodeLength {
		return fmt.Errorf("%w: currency code must be 1-%d characters", ErrInvalidArgument, MaxCurrencyCodeLength)
	}

	if !rate.IsPositive() {
		return ErrInvalidRate
	}
	if !rate.Equal(rate.Round(RateScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidRate, RateScale)
	}

	return nil
}

// BaseCurrency returns the currency with rate 1.
func BaseCurrency(currencies []*Currency) (*Currency, error) {
	for _, c := range currencies {
		if c.IsBase() {
			return c, nil
		}
	}
	return nil, ErrNoBaseCurrency
}

// CurrencyIndex maps currencies by id.
func CurrencyIndex(currencies []*Currency) map[string]*Currency {
	m := make(map[string]*Currency, len(currencies))
	for _, c := range currencies {
		m[c.ID] = c
	}
	return m
}

// FindCurrencyByCode looks up a currency by code, case-insensitively.
func FindCurrencyByCode(currencies []*Currency, code string) *Currency {
	code = NormalizeCurrencyCode(code)
	for _, c := range currencies {
		if c.Code == code {
			return c
		}
	}
	return nil
}

// RateScale is the number of fractional digits a stored rate keeps.
const RateScale = 18

// Rebase makes newBaseID the base currency by dividing every rate by its
// current rate. The returned slice holds updated copies. A rebase whose
// quotient does not fit RateScale digits exactly is refused, as is one that
// would leave a second currency at rate 1.
func Rebase(currencies []*Currency, newBaseID string) ([]*Currency, error) {
	newBase, ok := CurrencyIndex(currencies)[newBaseID]
	if !ok {
		return nil, ErrCurrencyNotFound
	}

	divisor := newBase.Rate
	out := make([]*Currency, 0, len(currencies))
	for _, c := range currencies {
		cp := *c
		if c.ID == newBaseID {
			cp.Rate = decimal.NewFromInt(1)
		} else {
			q := c.Rate.DivRound(divisor, RateScale)
			if !q.Mul(divisor).Equal(c.Rate) {
				return nil, fmt.Errorf("%w: %s rate %s is not exactly divisible by %s", ErrInexactRebase, c.Code, c.Rate, divisor)
			}
			if q.Equal(decimal.NewFromInt(1)) {
				return nil, fmt.Errorf("%w: %s would share the base rate with %s", ErrDuplicateBaseCurrency, c.Code, newBase.Code)
			}
			cp.Rate = q
		}
		out = append(out, &cp)
	}

	return out, nil
}
