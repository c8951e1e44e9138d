package folio

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/folio/date"
)

// UnknownColumn collects the share of holdings not covered by any attribute value.
const UnknownColumn = "unknown"

// allocationTolerance absorbs floating point error when checking that an
// attribute does not allocate more than 100% of a holding.
const allocationTolerance = 1e-5

// AttrWeights gives, for each value of an attribute, the fraction of each
// holding attributed to that value: weights[value][holdingKey].
type AttrWeights map[string]map[string]float64

// Values returns the attribute values sorted.
func (w AttrWeights) Values() []string { return slices.Sorted(maps.Keys(w)) }

// byHolding returns weights[holdingKey][value].
func (w AttrWeights) byHolding() map[string]map[string]float64 {
	holdings := make(map[string]map[string]float64)
	for value, weights := range w {
		for key, fraction := range weights {
			if holdings[key] == nil {
				holdings[key] = make(map[string]float64)
			}
			holdings[key][value] += fraction
		}
	}
	return holdings
}

// total returns the sum of the fractions of a holding, and fails if it is above 100%.
func total(key string, weights map[string]float64) (float64, error) {
	sum := 0.0
	for _, fraction := range weights {
		sum += fraction
	}
	if sum > 1+allocationTolerance {
		return 0, fmt.Errorf("%w: holding %q is allocated %.4g", ErrOverAllocation, key, sum)
	}
	return sum, nil
}

// AttrAllocations splits the holdings allocations by attribute value.
//
// The result has one column per value, sorted, and an UnknownColumn with the
// unattributed remainder. Cash is not attributed. For every row the columns
// sum up to the holdings allocation.
func (a *Analysis) AttrAllocations(allocations *Table, weights AttrWeights) (*Table, error) {
	byHolding := weights.byHolding()
	// Holdings without prices are checked too, their weights are still wrong.
	for _, key := range slices.Sorted(maps.Keys(byHolding)) {
		if _, err := total(key, byHolding[key]); err != nil {
			return nil, err
		}
	}
	result := NewTable(allocations.Range())
	for _, value := range weights.Values() {
		result.column(value, 0)
	}
	unknown := result.column(UnknownColumn, 0)

	for _, key := range a.Holdings() {
		alloc, ok := allocations.cols[key]
		if !ok {
			continue
		}
		sum, err := total(key, byHolding[key])
		if err != nil {
			return nil, err
		}
		for _, value := range slices.Sorted(maps.Keys(byHolding[key])) {
			addScaled(result.cols[value], byHolding[key][value], alloc)
		}
		addScaled(unknown, 1-sum, alloc)
	}
	return result, nil
}

// addScaled computes dst += s*x.
func addScaled(dst []float64, s float64, x []float64) {
	for i := range dst {
		dst[i] += s * x[i]
	}
}

// AttrEarnings returns the earnings of each attribute value, starting at 0.
//
// Money spent buying a holding, and the value of vested shares, is removed
// from its attribute values in proportion to their weights. Money received
// selling it is added back. Holdings without prices have no allocation, so
// their transactions are ignored.
func (a *Analysis) AttrEarnings(attrAllocations *Table, txs []Transaction, weights AttrWeights, ndays int) (*Table, error) {
	byHolding := weights.byHolding()
	earnings := attrAllocations.Clone()
	unknown := earnings.column(UnknownColumn, 0)

	distribute := func(key string, day date.Date, delta float64) error {
		sum, err := total(key, byHolding[key])
		if err != nil {
			return err
		}
		start := fromIndex(earnings.rng, day)
		for _, value := range slices.Sorted(maps.Keys(byHolding[key])) {
			fraction := byHolding[key][value]
			col := earnings.column(value, 0)
			for i := start; i < len(col); i++ {
				col[i] += delta * fraction
			}
		}
		for i := start; i < len(unknown); i++ {
			unknown[i] += delta * (1 - sum)
		}
		return nil
	}

	for _, tx := range txs {
		if tx.action != Buy && tx.action != Sell && tx.action != Vest {
			continue
		}
		key, err := tx.HoldingKey()
		if err != nil {
			return nil, err
		}
		if !a.prices.Has(key) {
			continue
		}
		var delta float64
		if tx.action == Vest {
			v, ok, err := a.vestValue(tx)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			delta = -v
		} else {
			v, err := a.amountValue(tx)
			if err != nil {
				return nil, err
			}
			delta = v
			if tx.action == Buy {
				delta = -v
			}
		}
		if err := distribute(key, tx.date, delta); err != nil {
			return nil, err
		}
	}
	return earnings.Tail(ndays).Rebase(), nil
}
