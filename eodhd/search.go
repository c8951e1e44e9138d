package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/webget"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
	MIC               string    `json:"-"` // Populated by Search, not from API directly.
}

// Ticker is the result ticker, as written in a ledger.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for securities by name, ticker or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	var results []SearchResult
	if err := webget.GetJSON(ctx, c.http, c.url("/search/"+url.PathEscape(term), nil), &results); err != nil {
		return nil, fmt.Errorf("eodhd search %q: %w", term, err)
	}
	// Search results reference an exchange code that could match multiple MIC (only for the US apparently).
	mic2exchange, err := c.Exchanges(ctx)
	if err != nil {
		return nil, err
	}
	exchange2mic := make(map[string][]string)
	for mic, code := range mic2exchange {
		exchange2mic[code] = append(exchange2mic[code], mic)
	}

	var expanded []SearchResult
	for _, result := range results {
		mics := exchange2mic[result.Exchange]
		slices.Sort(mics)
		if len(mics) == 0 {
			expanded = append(expanded, result)
			continue
		}
		for _, mic := range mics {
			r := result
			r.MIC = mic
			expanded = append(expanded, r)
		}
	}
	return expanded, nil
}
