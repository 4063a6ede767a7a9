package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDisplayUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    DisplayUnit
		wantErr bool
	}{
		{"", UnitBase, false},
		{"base", UnitBase, false},
		{"common", UnitCommon, false},
		{"platinum", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDisplayUnit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDisplayUnit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseDisplayUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommonRate(t *testing.T) {
	currencies := gpCurrencies()

	if r := CommonRate(&Vault{CommonCurrencyID: "gp"}, currencies); !r.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100, got %s", r)
	}
	if r := CommonRate(&Vault{}, currencies); !r.Equal(decimal.NewFromInt(1)) {
		t.Errorf("unset common currency: expected 1, got %s", r)
	}
	if r := CommonRate(&Vault{CommonCurrencyID: "gone"}, currencies); !r.Equal(decimal.NewFromInt(1)) {
		t.Errorf("dangling common currency: expected 1, got %s", r)
	}
	if r := CommonRate(nil, currencies); !r.Equal(decimal.NewFromInt(1)) {
		t.Errorf("nil vault: expected 1, got %s", r)
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	tolerance := decimal.New(1, -9)
	rates := []string{"1", "100", "0.01", "3", "7.5"}
	amounts := []string{"0", "1", "157", "1234.56", "-42", "0.333"}

	for _, r := range rates {
		rate := decimal.RequireFromString(r)
		for _, a := range amounts {
			amount := decimal.RequireFromString(a)
			for _, unit := range []DisplayUnit{UnitBase, UnitCommon} {
				back := FromDisplay(ToDisplay(amount, unit, rate), unit, rate)
				if back.Sub(amount).Abs().GreaterThan(tolerance) {
					t.Errorf("unit=%s rate=%s amount=%s: round trip gave %s", unit, r, a, back)
				}
			}
		}
	}
}

func TestToDisplay(t *testing.T) {
	rate := decimal.NewFromInt(100)
	got := ToDisplay(decimal.NewFromInt(250), UnitCommon, rate)
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("expected 2.5, got %s", got)
	}
	if got := ToDisplay(decimal.NewFromInt(250), UnitBase, rate); !got.Equal(decimal.NewFromInt(250)) {
		t.Errorf("base unit must be identity, got %s", got)
	}
	if got := RoundForDisplay(decimal.RequireFromString("3.14159")); got.String() != "3.14" {
		t.Errorf("expected 3.14, got %s", got)
	}
}
