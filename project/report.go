package project

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// Report is the analysis of the last days of a project.
type Report struct {
	Title    string
	Currency folio.Currency
	// Range is the days reported.
	Range date.Range
	// Allocations has a column per holding, and the cash.
	Allocations *folio.Table
	// Balances is the total value per day.
	Balances     folio.Series
	Earnings     folio.Series
	Benchmarks   []Benchmark
	RateOfReturn float64
	// Holdings is the number of holdings with a positive value on the last
	// day.
	Holdings   int
	Attributes []Attribute
	// Transactions are the ledger transactions, newest first.
	Transactions []folio.Transaction
}

// Balance is the total value on the last day.
func (r *Report) Balance() folio.Money { return folio.M(r.Balances.Last(), r.Currency) }

// Earned is the earnings over the range.
func (r *Report) Earned() folio.Money { return folio.M(r.Earnings.Last(), r.Currency) }

// Benchmark is what the initial balance would have earned invested in a
// ticker.
type Benchmark struct {
	Ticker   string
	Earnings folio.Series
}

// Attribute is the decomposition of the holdings by the values of an
// attribute.
type Attribute struct {
	Name        string
	Allocations *folio.Table
	Earnings    *folio.Table
	// Percentages are the earnings relative to the allocations, 0 when
	// undefined.
	Percentages *folio.Table
}

// Allocations returns the daily allocations of the reported days.
func (p *Project) Allocations() (*folio.Table, error) {
	return p.Analysis().Allocations(p.balances, p.cfg.Days())
}

// Earnings returns the daily earnings of the reported days, from 0.
func (p *Project) Earnings(allocations *folio.Table) (folio.Series, error) {
	return p.Analysis().Earnings(allocations, p.transactions, allocations.Len())
}

// Attribute returns the decomposition of allocations by the values of attr.
func (p *Project) Attribute(attr string, allocations *folio.Table) (Attribute, error) {
	weights, ok := p.attributes[attr]
	if !ok {
		return Attribute{}, fmt.Errorf("%w: unknown attribute %q", folio.ErrInvalidFieldValue, attr)
	}
	a := p.Analysis()
	alloc, err := a.AttrAllocations(allocations, weights)
	if err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", attr, err)
	}
	earnings, err := a.AttrEarnings(alloc, p.transactions, weights, alloc.Len())
	if err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", attr, err)
	}
	return Attribute{
		Name:        attr,
		Allocations: alloc,
		Earnings:    earnings,
		Percentages: percentages(earnings, alloc),
	}, nil
}

// percentages returns earnings / allocations, 0 where it is not finite.
func percentages(earnings, allocations *folio.Table) *folio.Table {
	result := folio.NewTable(earnings.Range())
	for _, name := range earnings.Columns() {
		e, alloc := earnings.Column(name), allocations.Column(name)
		for i := range e {
			v := math.NaN()
			if i < len(alloc) {
				v = e[i] / alloc[i]
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			e[i] = v
		}
		result.Set(name, e)
	}
	return result
}

// Report computes the project report.
func (p *Project) Report(ctx context.Context) (*Report, error) {
	allocations, err := p.Allocations()
	if err != nil {
		return nil, err
	}
	earnings, err := p.Earnings(allocations)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Title:        p.cfg.Title(),
		Currency:     p.currency,
		Range:        allocations.Range(),
		Allocations:  allocations,
		Balances:     allocations.Sum(),
		Earnings:     earnings,
		RateOfReturn: p.Analysis().RateOfReturn(allocations, earnings),
	}
	last := allocations.Last()
	for i, name := range allocations.Columns() {
		if name != folio.CashColumn && last[i] > 0 {
			r.Holdings++
		}
	}
	for _, attr := range p.Attributes() {
		a, err := p.Attribute(attr, allocations)
		if err != nil {
			return nil, err
		}
		r.Attributes = append(r.Attributes, a)
	}
	for _, ticker := range p.cfg.Benchmarks() {
		if s, ok := p.benchmark(ctx, ticker, r.Range, r.Balances.Values()[0]); ok {
			r.Benchmarks = append(r.Benchmarks, Benchmark{Ticker: ticker, Earnings: s})
		}
	}
	r.Transactions = p.Transactions()
	slices.SortStableFunc(r.Transactions, func(a, b folio.Transaction) int { return b.Date().Compare(a.Date()) })
	return r, nil
}
