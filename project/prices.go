package project

import (
	"context"
	"maps"
	"slices"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// staleDays is how long without a price before the latest one is considered
// old.
const staleDays = 7

// loadPrices builds the daily price table of every holding.
//
// Holdings without any price are left out of the table, and so out of the
// allocations.
func (p *Project) loadPrices(ctx context.Context) (*folio.Table, error) {
	histories := make(map[string]*date.History[float64])
	for _, key := range slices.Sorted(maps.Keys(p.first)) {
		f := p.first[key]
		r := date.NewRange(f.Date, p.rng.To)
		h, err := p.holdingPrices(ctx, key, f.Holding, r)
		if err != nil {
			return nil, err
		}
		if h.Len() == 0 {
			p.log.Warn().Str("holding", key).Msg("no price found, holding ignored")
			continue
		}
		if latest, _ := h.Latest(); latest.Before(p.rng.To.Add(-staleDays + 1)) {
			p.log.Warn().Str("holding", key).Stringer("latest", latest).Msg("most recent price is older than one week")
		}
		p.checkSplits(ctx, key, f.Holding, r)
		histories[key] = h
	}
	for key := range p.currencies {
		if _, ok := histories[key]; !ok {
			delete(p.currencies, key)
		}
	}
	return folio.NewPriceTable(histories, p.rng)
}

// holdingPrices returns the prices of h from its price file, else from the
// price source, else from its transactions.
func (p *Project) holdingPrices(ctx context.Context, key string, h folio.Holding, r date.Range) (*date.History[float64], error) {
	prices, _, ok, err := p.cfg.Prices(h, r)
	if err != nil {
		return nil, err
	}
	if ok {
		p.log.Info().Str("holding", key).Msg("using user-provided prices")
		return prices, nil
	}

	if h.Ticker != "" && p.priceSource != nil {
		prices, err := p.priceSource.Prices(ctx, h.Ticker, r)
		if err != nil {
			p.log.Warn().Err(err).Str("holding", key).Msg("cannot fetch prices")
		} else if prices.Len() > 0 {
			p.log.Info().Str("holding", key).Msg("using remote prices")
			return prices, nil
		}
	}

	p.log.Warn().Str("holding", key).Msg("inferring prices from transactions, prices could be inaccurate")
	prices = new(date.History[float64])
	for _, tx := range p.transactions {
		if price, ok := tx.Price(); ok && h.Match(tx) {
			prices.Append(tx.Date(), price.Float())
		}
	}
	return prices, nil
}

// checkSplits warns about splits of h, they are not supported.
func (p *Project) checkSplits(ctx context.Context, key string, h folio.Holding, r date.Range) {
	src, ok := p.priceSource.(SplitSource)
	if !ok || h.Ticker == "" {
		return
	}
	splits, err := src.Splits(ctx, h.Ticker, r)
	if err != nil {
		p.log.Debug().Err(err).Str("holding", key).Msg("cannot fetch splits")
		return
	}
	for _, s := range splits {
		p.log.Warn().
			Str("holding", key).
			Stringer("date", s.Date).
			Int64("numerator", s.Numerator).
			Int64("denominator", s.Denominator).
			Msg("split is not reflected in the ledger quantities")
	}
}

// benchmark returns the earnings of the balance at the start of r if it had
// been invested in ticker.
func (p *Project) benchmark(ctx context.Context, ticker string, r date.Range, initial float64) (folio.Series, bool) {
	if p.priceSource == nil {
		return folio.Series{}, false
	}
	prices, err := p.priceSource.Prices(ctx, ticker, r)
	if err != nil || prices.Len() == 0 {
		p.log.Warn().Err(err).Str("benchmark", ticker).Msg("no benchmark prices")
		return folio.Series{}, false
	}
	values := date.Sample(prices, r)
	base := values[0]
	if base <= 0 {
		p.log.Warn().Str("benchmark", ticker).Float64("price", base).Msg("invalid benchmark price")
		return folio.Series{}, false
	}
	for i, v := range values {
		values[i] = initial * (v/base - 1)
	}
	return folio.NewSeries(r, values), true
}
