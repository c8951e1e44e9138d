package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/webget"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

func (c *Client) url(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("fmt", "json")
	query.Set("api_token", c.token)
	return c.baseURL + path + "?" + query.Encode()
}

func rangeQuery(r date.Range) url.Values {
	return url.Values{"from": {r.From.String()}, "to": {r.To.String()}}
}

// Prices returns the daily close prices of ticker within r.
func (c *Client) Prices(ctx context.Context, ticker string, r date.Range) (*date.History[float64], error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-13
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response.
	symbol := Symbol(ticker)
	type info struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	var content []info
	if err := webget.GetJSON(ctx, c.http, c.url("/eod/"+url.PathEscape(symbol), rangeQuery(r)), &content); err != nil {
		return nil, fmt.Errorf("eodhd prices of %s: %w", symbol, err)
	}
	prices := new(date.History[float64])
	for _, i := range content {
		prices.Append(i.Date, i.Close.InexactFloat64())
	}
	c.log.Debug().Str("symbol", symbol).Int("prices", prices.Len()).Msg("prices fetched")
	return prices, nil
}

// Split is a stock split: each share became Numerator/Denominator shares.
type Split struct {
	Date        date.Date
	Numerator   int64
	Denominator int64
}

// Splits returns the splits of ticker within r.
func (c *Client) Splits(ctx context.Context, ticker string, r date.Range) ([]Split, error) {
	symbol := Symbol(ticker)
	type apiSplit struct {
		Date  date.Date `json:"date"`
		Split string    `json:"split"`
	}
	var content []apiSplit
	if err := webget.GetJSON(ctx, c.http, c.url("/splits/"+url.PathEscape(symbol), rangeQuery(r)), &content); err != nil {
		return nil, fmt.Errorf("eodhd splits of %s: %w", symbol, err)
	}

	splits := make([]Split, 0, len(content))
	for _, s := range content {
		num, den, ok := strings.Cut(s.Split, "/")
		if !ok {
			return nil, fmt.Errorf("invalid split format from API: %q", s.Split)
		}
		numDecimal, err := decimal.NewFromString(num)
		if err != nil {
			return nil, fmt.Errorf("invalid numerator in split %q: %w", s.Split, err)
		}
		denDecimal, err := decimal.NewFromString(den)
		if err != nil {
			return nil, fmt.Errorf("invalid denominator in split %q: %w", s.Split, err)
		}
		n, d := simplifyDecimalRatio(numDecimal, denDecimal)
		splits = append(splits, Split{Date: s.Date, Numerator: n, Denominator: d})
	}
	return splits, nil
}

// Exchanges returns a map of MIC to EODHD's internal exchange code.
//
// This is required since EODHD use its own id for exchange places.
func (c *Client) Exchanges(ctx context.Context) (map[string]string, error) {
	// [{
	// 	"Name": "Frankfurt Exchange",
	// 	"Code": "F",
	// 	"OperatingMIC": "XFRA",
	// 	...
	// }]
	type info struct {
		Code         string
		OperatingMIC string // could be a comma separated list of MICs
	}
	var content []info
	if err := webget.GetJSON(ctx, c.monthly, c.url("/exchanges-list/", nil), &content); err != nil {
		return nil, fmt.Errorf("eodhd exchanges: %w", err)
	}
	result := make(map[string]string)
	for _, i := range content {
		for _, mic := range strings.Split(i.OperatingMIC, ",") {
			if mic = strings.TrimSpace(mic); mic != "" {
				result[mic] = i.Code
			}
		}
	}
	return result, nil
}
