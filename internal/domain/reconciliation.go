package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SplitFlow is the value one split consumed from, and distributed into, a
// single currency.
type SplitFlow struct {
	SplitID     string
	CurrencyID  string
	Consumed    decimal.Decimal
	Distributed decimal.Decimal
}

// SplitDiscrepancy is a split whose distributed value differs from what it
// consumed. Amounts are in base units.
type SplitDiscrepancy struct {
	SplitID     string
	Consumed    decimal.Decimal
	Distributed decimal.Decimal
	Unaccounted decimal.Decimal
}

// ReconcileSplits folds flows per split into base units and returns every
// split with a non-zero unaccounted amount, ordered by split id.
func ReconcileSplits(flows []SplitFlow, currencies []*Currency) []SplitDiscrepancy {
	idx := CurrencyIndex(currencies)
	bySplit := make(map[string]*SplitDiscrepancy)

	for _, f := range flows {
		rate := decimal.NewFromInt(1)
		if c, ok := idx[f.CurrencyID]; ok {
			rate = c.Rate
		}

		d, ok := bySplit[f.SplitID]
		if !ok {
			d = &SplitDiscrepancy{SplitID: f.SplitID}
			bySplit[f.SplitID] = d
		}
		d.Consumed = d.Consumed.Add(f.Consumed.Mul(rate))
		d.Distributed = d.Distributed.Add(f.Distributed.Mul(rate))
	}

	out := make([]SplitDiscrepancy, 0)
	for _, d := range bySplit {
		d.Unaccounted = d.Consumed.Sub(d.Distributed)
		if !d.Unaccounted.IsZero() {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SplitID < out[j].SplitID })

	return out
}
