package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestItemValidate(t *testing.T) {
	valid := func() *Item {
		return &Item{Kind: ItemKindTreasure, Name: "Ruby", Quantity: 2, Value: decimal.NewFromInt(500)}
	}

	tests := []struct {
		name   string
		mutate func(*Item)
		err    error
	}{
		{"valid", func(*Item) {}, nil},
		{"bad kind", func(i *Item) { i.Kind = "junk" }, ErrInvalidItemKind},
		{"blank name", func(i *Item) { i.Name = "  " }, ErrInvalidArgument},
		{"zero quantity", func(i *Item) { i.Quantity = 0 }, ErrInvalidQuantity},
		{"negative value", func(i *Item) { i.Value = decimal.NewFromInt(-1) }, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid()
			tt.mutate(item)
			err := item.Validate()
			if tt.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestItemsValue(t *testing.T) {
	items := []*Item{
		{Quantity: 2, Value: decimal.NewFromInt(500)},
		{Quantity: 1, Value: decimal.RequireFromString("12.5")},
	}
	if got := ItemsValue(items); !got.Equal(decimal.RequireFromString("1012.5")) {
		t.Errorf("expected 1012.5, got %s", got)
	}
}
