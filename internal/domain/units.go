package domain

import (
	"github.com/shopspring/decimal"
)

// DisplayUnit selects how base amounts are presented.
type DisplayUnit string

const (
	UnitBase   DisplayUnit = "base"
	UnitCommon DisplayUnit = "common"
)

// DisplayPlaces is the number of decimals kept when rounding for presentation.
const DisplayPlaces = 2

// ParseDisplayUnit parses a unit, defaulting to base when empty.
func ParseDisplayUnit(s string) (DisplayUnit, error) {
	switch DisplayUnit(s) {
	case "", UnitBase:
		return UnitBase, nil
	case UnitCommon:
		return UnitCommon, nil
	default:
		return "", ErrInvalidUnit
	}
}

// CommonRate returns the rate of the vault's common currency, or 1 when it is
// unset or cannot be resolved.
func CommonRate(vault *Vault, currencies []*Currency) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if vault == nil || vault.CommonCurrencyID == "" {
		return one
	}
	c, ok := CurrencyIndex(currencies)[vault.CommonCurrencyID]
	if !ok || !c.Rate.IsPositive() {
		return one
	}
	return c.Rate
}

// ToDisplay converts a base amount into the requested unit.
func ToDisplay(baseAmount decimal.Decimal, unit DisplayUnit, commonRate decimal.Decimal) decimal.Decimal {
	if unit != UnitCommon || !commonRate.IsPositive() {
		return baseAmount
	}
	return baseAmount.Div(commonRate)
}

// FromDisplay converts a display amount back into base units.
func FromDisplay(displayAmount decimal.Decimal, unit DisplayUnit, commonRate decimal.Decimal) decimal.Decimal {
	if unit != UnitCommon || !commonRate.IsPositive() {
		return displayAmount
	}
	return displayAmount.Mul(commonRate)
}

// RoundForDisplay rounds for presentation only. Never store the result.
func RoundForDisplay(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(DisplayPlaces)
}
