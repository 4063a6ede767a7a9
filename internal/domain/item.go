package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes treasures from valuables.
type ItemKind string

const (
	ItemKindTreasure ItemKind = "treasure"
	ItemKindValuable ItemKind = "valuable"
)

// IsValid checks if the kind is known.
func (k ItemKind) IsValid() bool {
	return k == ItemKindTreasure || k == ItemKindValuable
}

// Item is a non-coin holding. Value is per unit, in base units.
type Item struct {
	ID          string
	VaultID     string
	Kind        ItemKind
	Name        string
	Description string
	Quantity    int
	Value       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalValue is quantity times unit value.
func (i *Item) TotalValue() decimal.Decimal {
	return i.Value.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

const MaxItemNameLength = 255

// Validate checks the item's fields.
func (i *Item) Validate() error {
	if !i.Kind.IsValid() {
		return ErrInvalidItemKind
	}
	name := strings.TrimSpace(i.Name)
	if name == "" || len(name) > MaxItemNameLength {
		return fmt.Errorf("%w: item name must be 1-%d characters", ErrInvalidArgument, MaxItemNameLength)
	}
	if i.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if i.Value.IsNegative() {
		return fmt.Errorf("%w: item value must not be negative", ErrInvalidArgument)
	}
	return nil
}

// ItemsValue sums the total value of items.
func ItemsValue(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalValue())
	}
	return total
}
