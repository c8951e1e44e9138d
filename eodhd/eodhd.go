// Package eodhd fetches end of day market data from https://eodhd.com.
//
// nice to redirect to https://eodhd.com/financial-summary/FB.US
package eodhd

import (
	"net/http"
	"strings"

	"github.com/etnz/folio/webget"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// Requests sent per second at most, in bursts of DefaultBurst.
const (
	DefaultRate  = 5
	DefaultBurst = 10
)

// DefaultExchange is the exchange of tickers given without one.
const DefaultExchange = "US"

// Client queries the EODHD API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	// monthly is used for slow changing listings.
	monthly *http.Client
	log     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL changes the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the caching http clients.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http, c.monthly = h, h }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client authenticated with token.
//
// Responses are cached on disk for a day, a month for exchange listings.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("client", "eodhd").Logger()
	if c.http == nil {
		limit := webget.WithRateLimit(DefaultRate, DefaultBurst)
		c.http = webget.NewCachingClient(webget.WithLogger(c.log), limit)
		c.monthly = webget.NewCachingClient(webget.WithLogger(c.log), limit, webget.WithPeriod(webget.Monthly))
	}
	return c
}

// Symbol returns the EODHD symbol of a ticker, "SYMBOL.EXCHANGE".
// Tickers without an exchange are on the DefaultExchange.
func Symbol(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + "." + DefaultExchange
}
