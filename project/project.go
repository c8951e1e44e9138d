// Package project puts together a project configuration, its ledgers and
// market data into an analysis.
package project

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/eodhd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HoldingsAttribute is the attribute listing every holding on its own.
const HoldingsAttribute = "holdings"

// PriceSource provides daily prices by ticker.
type PriceSource interface {
	Prices(ctx context.Context, ticker string, r date.Range) (*date.History[float64], error)
}

// SplitSource provides stock splits by ticker.
type SplitSource interface {
	Splits(ctx context.Context, ticker string, r date.Range) ([]eodhd.Split, error)
}

// RateSource provides destination relative currency rates.
type RateSource interface {
	Rates(ctx context.Context, dst folio.Currency) (folio.Rates, error)
}

// First is the first time a holding appears in the balances.
type First struct {
	Holding folio.Holding
	Date    date.Date
}

// Project is a loaded project ready to be analysed.
type Project struct {
	cfg          *config.Config
	currency     folio.Currency
	rng          date.Range
	transactions []folio.Transaction
	balances     map[date.Date]folio.Balance
	first        map[string]First
	currencies   map[string]folio.Currency
	prices       *folio.Table
	rates        folio.Rates
	attributes   map[string]folio.AttrWeights

	priceSource PriceSource
	rateSource  RateSource
	log         zerolog.Logger
}

// Option customizes how a Project is opened.
type Option func(*Project)

// WithPriceSource sets where prices missing from the price files are fetched.
func WithPriceSource(s PriceSource) Option { return func(p *Project) { p.priceSource = s } }

// WithRateSource sets where rates are fetched when the project has none.
func WithRateSource(s RateSource) Option { return func(p *Project) { p.rateSource = s } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(p *Project) { p.log = l } }

// Open loads the transactions of cfg and the market data required to analyse
// them.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Project, error) {
	p := &Project{cfg: cfg, log: log.Logger}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("component", "project").Logger()

	var err error
	if p.currency, err = cfg.Currency(); err != nil {
		return nil, err
	}
	end, err := cfg.EndDate()
	if err != nil {
		return nil, err
	}
	start, err := cfg.StartDate()
	if err != nil {
		return nil, err
	}
	if p.transactions, err = cfg.Transactions(); err != nil {
		return nil, err
	}
	if p.balances, err = folio.Balances(p.transactions); err != nil {
		return nil, err
	}
	p.first = firstHoldings(p.balances)

	// The analysis starts with the first holding, and covers at least the
	// reported days.
	for _, f := range p.first {
		if f.Date.Before(start) {
			start = f.Date
		}
	}
	p.rng = date.NewRange(start, end)

	if p.rates, err = p.loadRates(ctx); err != nil {
		return nil, err
	}
	if p.currencies, err = p.holdingCurrencies(); err != nil {
		return nil, err
	}
	if p.prices, err = p.loadPrices(ctx); err != nil {
		return nil, err
	}
	if p.attributes, err = p.loadAttributes(); err != nil {
		return nil, err
	}
	p.log.Info().
		Int("transactions", len(p.transactions)).
		Int("balances", len(p.balances)).
		Int("holdings", len(p.first)).
		Stringer("range", p.rng).
		Msg("project opened")
	return p, nil
}

// firstHoldings returns, for every holding key, the first holding seen in the
// balances.
func firstHoldings(balances map[date.Date]folio.Balance) map[string]First {
	first := make(map[string]First)
	for _, b := range folio.Chronological(balances) {
		for _, key := range b.Keys() {
			if _, ok := first[key]; ok {
				continue
			}
			h, _ := b.Holding(key)
			first[key] = First{Holding: h, Date: b.Date()}
		}
	}
	return first
}

// FirstHoldings returns the first holdings by key.
func (p *Project) FirstHoldings() map[string]First { return maps.Clone(p.first) }

// holdings returns the first holdings sorted by key.
func (p *Project) holdings() []folio.Holding {
	var holdings []folio.Holding
	for _, key := range slices.Sorted(maps.Keys(p.first)) {
		holdings = append(holdings, p.first[key].Holding)
	}
	return holdings
}

// Config returns the project configuration.
func (p *Project) Config() *config.Config { return p.cfg }

// Currency is the currency of every value.
func (p *Project) Currency() folio.Currency { return p.currency }

// Range is the analysed days.
func (p *Project) Range() date.Range { return p.rng }

// Transactions returns the transactions up to the end date, sorted by date.
func (p *Project) Transactions() []folio.Transaction { return slices.Clone(p.transactions) }

// Balances returns the balances after each transaction day.
func (p *Project) Balances() []folio.Balance { return folio.Chronological(p.balances) }

// Attributes returns the attribute names, HoldingsAttribute first.
func (p *Project) Attributes() []string {
	names := slices.Sorted(maps.Keys(p.attributes))
	slices.SortStableFunc(names, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == HoldingsAttribute:
			return -1
		case b == HoldingsAttribute:
			return 1
		}
		return 0
	})
	return names
}

// Weights returns the weights of an attribute values.
func (p *Project) Weights(attr string) (folio.AttrWeights, bool) {
	w, ok := p.attributes[attr]
	return w, ok
}

// Analysis returns the analysis engine of the project.
func (p *Project) Analysis() *folio.Analysis {
	return folio.NewAnalysis(p.prices, p.rates, p.currencies)
}

func (p *Project) loadRates(ctx context.Context) (folio.Rates, error) {
	rates, ok, err := p.cfg.Rates()
	if err != nil {
		return nil, err
	}
	if ok {
		p.log.Debug().Msg("using project rates")
		return rates, nil
	}
	if p.rateSource == nil {
		p.log.Warn().Msg("no rates available, only the project currency is supported")
		return folio.NewRates(p.currency, nil), nil
	}
	rates, err = p.rateSource.Rates(ctx, p.currency)
	if err != nil {
		return nil, err
	}
	return folio.NewRates(p.currency, rates), nil
}

// holdingCurrencies finds each holding currency from its transactions prices,
// then from its price file.
func (p *Project) holdingCurrencies() (map[string]folio.Currency, error) {
	currencies := make(map[string]folio.Currency, len(p.first))
	for key, f := range p.first {
		for _, tx := range p.transactions {
			if price, ok := tx.Price(); ok && f.Holding.Match(tx) {
				currencies[key] = price.Currency()
				break
			}
		}
		if _, ok := currencies[key]; ok {
			p.log.Debug().Str("holding", key).Str("currency", currencies[key].String()).Msg("currency from transactions")
			continue
		}
		cur, ok, err := p.cfg.HoldingCurrency(f.Holding)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", folio.ErrUnknownHoldingCurrency, key)
		}
		p.log.Debug().Str("holding", key).Str("currency", cur.String()).Msg("currency from prices")
		currencies[key] = cur
	}
	return currencies, nil
}

func (p *Project) loadAttributes() (map[string]folio.AttrWeights, error) {
	attrs, err := p.cfg.MetaAttributes(p.holdings())
	if err != nil {
		return nil, err
	}
	holdings := make(folio.AttrWeights, len(p.first))
	for key := range p.first {
		holdings[key] = map[string]float64{key: 1}
	}
	attrs[HoldingsAttribute] = holdings
	return attrs, nil
}
