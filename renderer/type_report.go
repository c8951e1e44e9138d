package renderer

import (
	"cmp"
	"math"
	"slices"

	"github.com/etnz/folio"
	"github.com/etnz/folio/project"
)

// Report is a struct to represent a project report for rendering.
type Report struct {
	Title        string
	Currency     string
	From         string
	To           string
	Balance      string
	Earned       string
	RateOfReturn string
	Holdings     int
	Benchmarks   []BenchmarkLine
	Attributes   []AttributeView
	History      []HistoryLine
	Transactions []RenderableTransaction
}

// BenchmarkLine is what the initial balance would have earned in a ticker.
type BenchmarkLine struct {
	Ticker string
	Earned string
	Return string
}

// AttributeView is the allocation table of one attribute.
type AttributeView struct {
	Name string
	Rows []AttributeRow
}

// AttributeRow holds the last day figures of one attribute value.
type AttributeRow struct {
	Value      string
	Allocation string
	Share      string
	Earnings   string
	Return     string
}

// HistoryLine is the balance of a single day.
type HistoryLine struct {
	Date     string
	Balance  string
	Earnings string
}

// RenderableTransaction holds the data for a single transaction line in a report.
type RenderableTransaction struct {
	When   string
	Detail string
}

// NewReport prepares r for rendering. Only the transactions of the reported
// days are kept, at most limit of them unless limit is 0.
func NewReport(r *project.Report, limit int) *Report {
	cur := r.Currency
	rep := &Report{
		Title:        r.Title,
		Currency:     cur.String(),
		From:         r.Range.From.String(),
		To:           r.Range.To.String(),
		Balance:      r.Balance().String(),
		Earned:       r.Earned().SignedString(),
		RateOfReturn: folio.Percent(r.RateOfReturn).SignedString(),
		Holdings:     r.Holdings,
	}

	var initial float64
	if balances := r.Balances.Values(); len(balances) > 0 {
		initial = balances[0]
	}
	for _, b := range r.Benchmarks {
		earned := b.Earnings.Last()
		line := BenchmarkLine{Ticker: b.Ticker, Earned: folio.M(earned, cur).SignedString(), Return: "-"}
		if initial != 0 {
			line.Return = folio.Percent(earned / initial).SignedString()
		}
		rep.Benchmarks = append(rep.Benchmarks, line)
	}

	for _, a := range r.Attributes {
		rep.Attributes = append(rep.Attributes, attributeView(a, cur))
	}

	days := r.Range.Dates()
	balances, earnings := r.Balances.Values(), r.Earnings.Values()
	for i, on := range days {
		if i >= len(balances) || i >= len(earnings) {
			break
		}
		rep.History = append(rep.History, HistoryLine{
			Date:     on.String(),
			Balance:  folio.M(balances[i], cur).String(),
			Earnings: folio.M(earnings[i], cur).SignedString(),
		})
	}

	for _, tx := range r.Transactions {
		if !r.Range.Contains(tx.Date()) {
			continue
		}
		if limit > 0 && len(rep.Transactions) == limit {
			break
		}
		rep.Transactions = append(rep.Transactions, RenderableTransaction{
			When:   tx.Date().String(),
			Detail: Transaction(tx),
		})
	}
	return rep
}

// attributeView lists the values of a with an allocation or earnings on the
// last day, largest allocation first.
func attributeView(a project.Attribute, cur folio.Currency) AttributeView {
	last := a.Allocations.Range().To
	var total float64
	for _, v := range a.Allocations.Last() {
		total += v
	}

	type row struct {
		name                 string
		alloc, earnings, pct float64
	}
	var rows []row
	for _, name := range a.Allocations.Columns() {
		r := row{
			name:     name,
			alloc:    a.Allocations.At(name, last),
			earnings: orZero(a.Earnings.At(name, last)),
			pct:      orZero(a.Percentages.At(name, last)),
		}
		if r.alloc == 0 && r.earnings == 0 {
			continue
		}
		rows = append(rows, r)
	}
	slices.SortStableFunc(rows, func(x, y row) int {
		if c := cmp.Compare(y.alloc, x.alloc); c != 0 {
			return c
		}
		return cmp.Compare(x.name, y.name)
	})

	view := AttributeView{Name: a.Name}
	for _, r := range rows {
		share := "-"
		if total != 0 {
			share = folio.Percent(r.alloc / total).String()
		}
		view.Rows = append(view.Rows, AttributeRow{
			Value:      r.name,
			Allocation: folio.M(r.alloc, cur).String(),
			Share:      share,
			Earnings:   folio.M(r.earnings, cur).SignedString(),
			Return:     folio.Percent(r.pct).SignedString(),
		})
	}
	return view
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
