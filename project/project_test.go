package project

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func day(d int) date.Date { return date.New(2021, time.May, d) }

// market is an in memory price source.
type market map[string]*date.History[float64]

func (m market) Prices(_ context.Context, ticker string, r date.Range) (*date.History[float64], error) {
	h, ok := m[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker %q", ticker)
	}
	prices := new(date.History[float64])
	for on, v := range h.Values() {
		if r.Contains(on) {
			prices.Append(on, v)
		}
	}
	return prices, nil
}

type forex folio.Rates

func (f forex) Rates(context.Context, folio.Currency) (folio.Rates, error) { return folio.Rates(f), nil }

const demo = `
options:
  title: demo
  days: 2
  end_date: 04/05/21
  currency: USD
  benchmarks: [SPY]
transactions:
  - {format: standard, file: tx.csv}
prices:
  - match: {ticker: FB}
    file: fb.csv
meta:
  - match: {ticker: FB}
    apply: {type: equity}
  - match: {ticker: TSM}
    apply: {type: {equity: 50%, bond: 50%}}
`

const ledger = `date,action,name,ticker,isin,quantity,price,fees,amount
03/05/21,cash_in,,,,,,,$10
03/05/21,buy,,FB,,1,$4,,
03/05/21,buy,,TSM,,1,NT$4,,
`

const fbPrices = `date,price
03/05/2021,$4
04/05/2021,$8
`

func newMarket() market {
	return market{
		"TSM": new(date.History[float64]).Append(day(3), 4).Append(day(4), 2),
		"SPY": new(date.History[float64]).Append(day(3), 100).Append(day(4), 110),
	}
}

func open(t *testing.T, doc, txs string, opts ...Option) (*Project, error) {
	t.Helper()
	cfg, err := config.Parse([]byte(doc), "",
		config.Provide("tx.csv", txs),
		config.Provide("fb.csv", fbPrices),
		config.WithLogger(zerolog.Nop()),
	)
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return Open(context.Background(), cfg, opts...)
}

func TestReport(t *testing.T) {
	p, err := open(t, demo, ledger, WithPriceSource(newMarket()), WithRateSource(forex{folio.TWD: 2}))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := p.Range(); got != date.NewRange(day(2), day(4)) {
		t.Errorf("Range() = %v, want 2..4 May", got)
	}
	first := p.FirstHoldings()
	if first["FB"].Date != day(3) || first["TSM"].Holding.Ticker != "TSM" {
		t.Errorf("FirstHoldings() = %v", first)
	}

	r, err := p.Report(context.Background())
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if r.Title != "demo" || r.Range != date.NewRange(day(3), day(4)) {
		t.Errorf("Report() = %q over %v", r.Title, r.Range)
	}
	if diff := cmp.Diff([][]float64{{4, 2, 4}, {8, 1, 4}}, r.Allocations.Rows(), approx); diff != "" {
		t.Errorf("Allocations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{10, 13}, r.Balances.Values(), approx); diff != "" {
		t.Errorf("Balances mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 3}, r.Earnings.Values(), approx); diff != "" {
		t.Errorf("Earnings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(0.3, r.RateOfReturn, approx); diff != "" {
		t.Errorf("RateOfReturn mismatch (-want +got):\n%s", diff)
	}
	if r.Holdings != 2 {
		t.Errorf("Holdings = %d, want 2", r.Holdings)
	}
	if got := r.Balance().String(); got != "$13.00" {
		t.Errorf("Balance() = %s, want $13.00", got)
	}

	if len(r.Benchmarks) != 1 || r.Benchmarks[0].Ticker != "SPY" {
		t.Fatalf("Benchmarks = %v, want SPY", r.Benchmarks)
	}
	if diff := cmp.Diff([]float64{0, 1}, r.Benchmarks[0].Earnings.Values(), approx); diff != "" {
		t.Errorf("SPY earnings mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, a := range r.Attributes {
		names = append(names, a.Name)
	}
	if diff := cmp.Diff([]string{HoldingsAttribute, "type"}, names); diff != "" {
		t.Fatalf("Attributes mismatch (-want +got):\n%s", diff)
	}
	holdings := r.Attributes[0]
	if diff := cmp.Diff([][]float64{{4, 2, 0}, {8, 1, 0}}, holdings.Allocations.Rows(), approx); diff != "" {
		t.Errorf("holdings allocations mismatch (-want +got):\n%s", diff)
	}

	typ := r.Attributes[1]
	if diff := cmp.Diff([]string{"bond", "equity", folio.UnknownColumn}, typ.Allocations.Columns()); diff != "" {
		t.Errorf("type columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{1, 5, 0}, {0.5, 8.5, 0}}, typ.Allocations.Rows(), approx); diff != "" {
		t.Errorf("type allocations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{0, 0, 0}, {-0.5, 3.5, 0}}, typ.Earnings.Rows(), approx); diff != "" {
		t.Errorf("type earnings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{0, 0, 0}, {-1, 3.5 / 8.5, 0}}, typ.Percentages.Rows(), approx); diff != "" {
		t.Errorf("type percentages mismatch (-want +got):\n%s", diff)
	}

	if len(r.Transactions) != 3 || r.Transactions[0].Action() != folio.CashIn {
		t.Errorf("Transactions = %v, want the ledger order for a single day", r.Transactions)
	}
}

func TestInferredPrices(t *testing.T) {
	doc := `
options: {days: 2, end_date: 04/05/21, rates: {TWD: 2}}
transactions: [{format: standard, file: tx.csv}]
prices: [{match: {ticker: FB}, file: fb.csv}]
`
	p, err := open(t, doc, ledger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	alloc, err := p.Allocations()
	if err != nil {
		t.Fatalf("Allocations() error = %v", err)
	}
	// TSM is priced at its buy price: NT$4.
	if diff := cmp.Diff([][]float64{{4, 2, 4}, {8, 2, 4}}, alloc.Rows(), approx); diff != "" {
		t.Errorf("Allocations mismatch (-want +got):\n%s", diff)
	}
	if _, err := p.Attribute("type", alloc); !errors.Is(err, folio.ErrInvalidFieldValue) {
		t.Errorf("Attribute(type) error = %v, want %v", err, folio.ErrInvalidFieldValue)
	}
}

func TestOpenErrors(t *testing.T) {
	doc := `
options: {end_date: 04/05/21}
transactions: [{format: standard, file: tx.csv}]
`
	vest := "date,action,ticker,quantity\n03/05/21,vest,GOOG,1\n"
	if _, err := open(t, doc, vest); !errors.Is(err, folio.ErrUnknownHoldingCurrency) {
		t.Errorf("Open() error = %v, want %v", err, folio.ErrUnknownHoldingCurrency)
	}

	// Without rates only the project currency can be valued.
	p, err := open(t, doc, ledger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := p.Allocations(); !errors.Is(err, folio.ErrUnsupportedCurrency) {
		t.Errorf("Allocations() error = %v, want %v", err, folio.ErrUnsupportedCurrency)
	}
}
