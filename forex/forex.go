// Package forex fetches the latest currency rates.
//
// The default service is https://www.frankfurter.app, answering
//
//	{"amount":1.0,"base":"USD","date":"2021-05-21","rates":{"EUR":0.8199,"TWD":27.83}}
//
// to https://api.frankfurter.app/latest?from=USD.
package forex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/webget"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultURL is the latest rates endpoint.
const DefaultURL = "https://api.frankfurter.app/latest"

// DefaultPath locates the rates object in the response.
const DefaultPath = "$.rates"

// Client fetches rates relative to a destination currency.
type Client struct {
	url  string
	path string
	http *http.Client
	log  zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithURL changes the endpoint. The destination currency is sent as the
// "from" query parameter.
func WithURL(u string) Option { return func(c *Client) { c.url = u } }

// WithPath changes the JSONPath of the rates object in the response.
func WithPath(p string) Option { return func(c *Client) { c.path = p } }

// WithHTTPClient replaces the daily caching client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient returns a forex client.
func NewClient(opts ...Option) *Client {
	c := &Client{url: DefaultURL, path: DefaultPath, log: log.Logger}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("client", "forex").Logger()
	if c.http == nil {
		c.http = webget.NewCachingClient(webget.WithLogger(c.log))
	}
	return c
}

// Rates returns, for each supported currency, the number of its units worth 1
// dst. Currencies unknown to folio are ignored.
func (c *Client) Rates(ctx context.Context, dst folio.Currency) (folio.Rates, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("invalid forex url %q: %w", c.url, err)
	}
	q := u.Query()
	q.Set("from", dst.String())
	u.RawQuery = q.Encode()

	var jobj any
	if err := webget.GetJSON(ctx, c.http, u.String(), &jobj); err != nil {
		return nil, fmt.Errorf("error fetching %s rates: %w", dst, err)
	}
	jval, err := jsonpath.Get(c.path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s rates: %q %w", dst, c.path, err)
	}
	// jsonpath may return a list of 1 answer, or a single answer.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	jrates, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %s rates: %q is not an object: %v", dst, c.path, jval)
	}

	rates := make(map[folio.Currency]float64)
	for code, v := range jrates {
		cur, err := folio.ParseCurrency(code)
		if err != nil {
			continue
		}
		rate, ok := v.(float64)
		if !ok || rate <= 0 {
			c.log.Warn().Str("currency", code).Interface("rate", v).Msg("invalid rate ignored")
			continue
		}
		rates[cur] = rate
	}
	c.log.Info().Str("currency", dst.String()).Int("rates", len(rates)).Msg("rates fetched")
	return folio.NewRates(dst, rates), nil
}
