// Package webget contains http utils to deal with remote services.
package webget

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Period is how long a cached response is used.
type Period int

const (
	Daily Period = iota
	Monthly
)

func (p Period) String() string {
	if p == Monthly {
		return "monthly"
	}
	return "daily"
}

// stamp identifies the period containing on.
func (p Period) stamp(on date.Date) string {
	if p == Monthly {
		return on.Format("2006-01")
	}
	return on.String()
}

// diskCache implements a simple disk cache for HTTP responses.
//
// Successful responses are stored in dir under a key unique to the period,
// so the cache expires when the period changes.
type diskCache struct {
	base   http.RoundTripper
	dir    string
	period Period
	today  func() date.Date
	// limiter throttles cache misses, nil means unlimited.
	limiter *rate.Limiter
	log     zerolog.Logger
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", c.period.stamp(c.today()), req.Method, req.URL.String())
	key = fmt.Sprintf("folio-%s-%x", c.period, sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		c.log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Msg("cache hit")
		return cached, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limited %s%s: %w", req.URL.Host, req.URL.Path, err)
		}
	}
	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Info().
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("http request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk. DumpResponse leaves resp readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o600)
}

// Option customizes a caching client.
type Option func(*diskCache)

// WithDir stores the cache in dir instead of the temporary directory.
func WithDir(dir string) Option { return func(c *diskCache) { c.dir = dir } }

// WithPeriod sets how long responses are cached.
func WithPeriod(p Period) Option { return func(c *diskCache) { c.period = p } }

// WithTransport sets the transport used on cache misses.
func WithTransport(rt http.RoundTripper) Option { return func(c *diskCache) { c.base = rt } }

// WithRateLimit limits the requests actually sent to perSecond, with bursts
// of burst requests. Cache hits are not limited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *diskCache) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithLogger sets the logger reporting requests.
func WithLogger(l zerolog.Logger) Option { return func(c *diskCache) { c.log = l } }

// NewCachingClient returns a client caching successful responses on disk,
// daily by default.
func NewCachingClient(opts ...Option) *http.Client {
	c := &diskCache{
		base:  http.DefaultTransport,
		dir:   os.TempDir(),
		today: date.Today,
		log:   log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "webget").Logger()
	return &http.Client{Transport: c}
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into
// data.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("invalid json from %v%v: %w", resp.Request.URL.Host, resp.Request.URL.Path, err)
	}
	return nil
}
