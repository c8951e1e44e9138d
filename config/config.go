// Package config reads folio project files.
//
// A project file is a YAML document listing the ledgers to load, the price
// files to use for some holdings, and meta attributes describing holdings:
//
//	options:
//	  title: My portfolio
//	  days: 90
//	  end_date: 23/05/21
//	  currency: USD
//	include: [common.yaml]
//	transactions:
//	  - format: standard
//	    file: transactions.csv
//	prices:
//	  - match: {ticker: FB}
//	    file: fb.csv
//	meta:
//	  - match: {ticker: FB}
//	    apply: {type: equity}
//
// Relative paths are resolved against the directory of the file declaring
// them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Defaults for missing options.
const (
	DefaultTitle = "Unnamed Project"
	DefaultDays  = 90
)

// Ledger formats.
const (
	FormatStandard = "standard"
	FormatSchwab   = "schwab"
	FormatJSONL    = "jsonl"
)

// Options are the project wide settings.
type Options struct {
	Title    string `yaml:"title"`
	Days     int    `yaml:"days"`
	EndDate  string `yaml:"end_date"`
	Currency string `yaml:"currency"`
	// Rates are the currency rates relative to Currency. When empty they are
	// fetched.
	Rates map[string]float64 `yaml:"rates"`
	// Benchmarks are tickers whose performance is reported next to the
	// portfolio one.
	Benchmarks []string `yaml:"benchmarks"`
}

// merge fills unset options from o.
func (opts *Options) merge(o Options) {
	if opts.Title == "" {
		opts.Title = o.Title
	}
	if opts.Days == 0 {
		opts.Days = o.Days
	}
	if opts.EndDate == "" {
		opts.EndDate = o.EndDate
	}
	if opts.Currency == "" {
		opts.Currency = o.Currency
	}
	if opts.Rates == nil {
		opts.Rates = o.Rates
	}
	if opts.Benchmarks == nil {
		opts.Benchmarks = o.Benchmarks
	}
}

// Match selects holdings: every field set must be equal to the holding's one.
type Match struct {
	Name   string `yaml:"name"`
	Ticker string `yaml:"ticker"`
	ISIN   string `yaml:"isin"`
}

// Matches reports whether h satisfies every field of m.
func (m Match) Matches(h folio.Holding) bool {
	eq := func(want, got string) bool {
		want = strings.TrimSpace(want)
		return want == "" || want == got
	}
	return eq(m.Name, h.Name) && eq(m.Ticker, h.Ticker) && eq(m.ISIN, h.ISIN)
}

// Holding returns the holding described by m.
func (m Match) Holding() folio.Holding {
	return folio.Holding{
		Name:   strings.TrimSpace(m.Name),
		Ticker: strings.TrimSpace(m.Ticker),
		ISIN:   strings.TrimSpace(m.ISIN),
	}
}

// Ledger is a transactions file.
type Ledger struct {
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	dir    string
}

// PriceFile is the price history of the holdings it matches.
type PriceFile struct {
	Match *Match `yaml:"match"`
	File  string `yaml:"file"`
	dir   string
}

type document struct {
	Options      Options     `yaml:"options"`
	Include      []string    `yaml:"include"`
	Transactions []Ledger    `yaml:"transactions"`
	Prices       []PriceFile `yaml:"prices"`
	Meta         []Meta      `yaml:"meta"`
}

// Config is a parsed project file, includes merged.
type Config struct {
	path         string
	options      Options
	transactions []Ledger
	prices       []PriceFile
	meta         []Meta
	files        map[string]string
	log          zerolog.Logger
}

// Option customizes how a Config is read.
type Option func(*Config)

// Provide serves content whenever path is read, instead of the file system.
//
// path is compared after resolution against the declaring file directory.
func Provide(path, content string) Option {
	return func(c *Config) { c.files[filepath.Clean(path)] = content }
}

// WithLogger sets the logger used to report what is loaded.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.log = l }
}

// Load reads the project file at path.
func Load(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read project %q: %w", path, err)
	}
	return Parse(data, path, opts...)
}

// Parse parses a project document. path is where it was read from, it is used
// to resolve relative paths and can be empty.
func Parse(data []byte, path string, opts ...Option) (*Config, error) {
	c := &Config{
		path:  path,
		files: make(map[string]string),
		log:   log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "config").Logger()

	doc, err := c.parse(data, path, nil)
	if err != nil {
		return nil, err
	}
	c.options = doc.Options
	c.transactions = doc.Transactions
	c.prices = doc.Prices
	c.meta = doc.Meta
	c.log.Debug().
		Str("path", path).
		Int("ledgers", len(c.transactions)).
		Int("prices", len(c.prices)).
		Int("meta", len(c.meta)).
		Msg("project loaded")
	return c, nil
}

// parse decodes data, then merges its includes. Included sections come
// first, own options win.
func (c *Config) parse(data []byte, path string, parents []string) (document, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return doc, fmt.Errorf("could not parse project %q: %w", path, err)
	}
	if err := doc.validate(); err != nil {
		return doc, fmt.Errorf("invalid project %q: %w", path, err)
	}
	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}
	for i := range doc.Transactions {
		doc.Transactions[i].dir = dir
	}
	for i := range doc.Prices {
		doc.Prices[i].dir = dir
	}

	var merged document
	parents = append(parents, filepath.Clean(path))
	for _, inc := range doc.Include {
		incPath := resolve(dir, inc)
		if slices.Contains(parents, incPath) {
			return doc, fmt.Errorf("project %q: include cycle through %q", path, incPath)
		}
		incData, err := c.read(incPath)
		if err != nil {
			return doc, err
		}
		included, err := c.parse([]byte(incData), incPath, parents)
		if err != nil {
			return doc, err
		}
		c.log.Debug().Str("path", path).Str("include", incPath).Msg("include merged")
		merged.Options.merge(included.Options)
		merged.Transactions = append(merged.Transactions, included.Transactions...)
		merged.Prices = append(merged.Prices, included.Prices...)
		merged.Meta = append(merged.Meta, included.Meta...)
	}
	doc.Options.merge(merged.Options)
	doc.Transactions = append(merged.Transactions, doc.Transactions...)
	doc.Prices = append(merged.Prices, doc.Prices...)
	doc.Meta = append(merged.Meta, doc.Meta...)
	return doc, nil
}

func (doc document) validate() error {
	for i, l := range doc.Transactions {
		if l.File == "" {
			return fmt.Errorf("%w: transactions entry %d has no file", folio.ErrMissingRequiredField, i+1)
		}
		switch l.Format {
		case FormatStandard, FormatSchwab, FormatJSONL:
		default:
			return fmt.Errorf("%w: unsupported transactions format %q", folio.ErrInvalidFieldValue, l.Format)
		}
	}
	for i, p := range doc.Prices {
		if p.Match == nil {
			return fmt.Errorf("%w: prices entry %d has no match", folio.ErrMissingRequiredField, i+1)
		}
		if p.File == "" {
			return fmt.Errorf("%w: prices entry %d has no file", folio.ErrMissingRequiredField, i+1)
		}
	}
	for i, m := range doc.Meta {
		if m.Match == nil {
			return fmt.Errorf("%w: meta entry %d has no match", folio.ErrMissingRequiredField, i+1)
		}
	}
	return nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// read returns the content of a resolved path.
func (c *Config) read(path string) (string, error) {
	if content, ok := c.files[filepath.Clean(path)]; ok {
		return content, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", path, err)
	}
	return string(data), nil
}

// Path is where the project was read from.
func (c *Config) Path() string { return c.path }

// Title of the project.
func (c *Config) Title() string {
	if c.options.Title == "" {
		return DefaultTitle
	}
	return c.options.Title
}

// Days is the number of days to analyse.
func (c *Config) Days() int {
	if c.options.Days <= 0 {
		return DefaultDays
	}
	return c.options.Days
}

// EndDate is the last day analysed, today by default.
func (c *Config) EndDate() (date.Date, error) {
	if c.options.EndDate == "" {
		return date.Today(), nil
	}
	on, err := date.ParseDayFirst(c.options.EndDate)
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: end_date: %w", folio.ErrInvalidFieldValue, err)
	}
	return on, nil
}

// StartDate is Days before the EndDate.
func (c *Config) StartDate() (date.Date, error) {
	end, err := c.EndDate()
	if err != nil {
		return date.Date{}, err
	}
	return end.Add(-c.Days()), nil
}

// Currency is the currency values are reported in, USD by default.
func (c *Config) Currency() (folio.Currency, error) {
	if c.options.Currency == "" {
		return folio.USD, nil
	}
	return folio.ParseCurrency(c.options.Currency)
}

// Rates returns the configured rates relative to the project currency. ok is
// false when none is configured.
func (c *Config) Rates() (rates folio.Rates, ok bool, err error) {
	if len(c.options.Rates) == 0 {
		return nil, false, nil
	}
	dst, err := c.Currency()
	if err != nil {
		return nil, false, err
	}
	m := make(map[folio.Currency]float64, len(c.options.Rates))
	for code, rate := range c.options.Rates {
		cur, err := folio.ParseCurrency(code)
		if err != nil {
			return nil, false, fmt.Errorf("rates: %w", err)
		}
		m[cur] = rate
	}
	return folio.NewRates(dst, m), true, nil
}

// Benchmarks returns the tickers to compare the portfolio with.
func (c *Config) Benchmarks() []string { return slices.Clone(c.options.Benchmarks) }

// Transactions loads every ledger, drops transactions after the EndDate and
// sorts them by date. Transactions of the same day keep their ledger order.
func (c *Config) Transactions() ([]folio.Transaction, error) {
	end, err := c.EndDate()
	if err != nil {
		return nil, err
	}
	var txs []folio.Transaction
	for _, l := range c.transactions {
		path := resolve(l.dir, l.File)
		content, err := c.read(path)
		if err != nil {
			return nil, err
		}
		var decoded []folio.Transaction
		r := strings.NewReader(content)
		switch l.Format {
		case FormatStandard:
			decoded, err = folio.DecodeStandard(r)
		case FormatSchwab:
			decoded, err = folio.DecodeSchwab(r)
		case FormatJSONL:
			decoded, err = folio.DecodeJSONL(r)
		}
		if err != nil {
			return nil, fmt.Errorf("ledger %q: %w", path, err)
		}
		c.log.Debug().Str("ledger", path).Str("format", l.Format).Int("transactions", len(decoded)).Msg("ledger decoded")
		txs = append(txs, decoded...)
	}
	txs = slices.DeleteFunc(txs, func(tx folio.Transaction) bool { return tx.Date().After(end) })
	slices.SortStableFunc(txs, func(a, b folio.Transaction) int { return a.Date().Compare(b.Date()) })
	return txs, nil
}

// TransactionsOf returns the transactions concerning h.
func (c *Config) TransactionsOf(h folio.Holding) ([]folio.Transaction, error) {
	txs, err := c.Transactions()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(txs, func(tx folio.Transaction) bool { return !h.Match(tx) }), nil
}

// priceFile returns the path of the first price file matching h.
func (c *Config) priceFile(h folio.Holding) (string, bool) {
	for _, p := range c.prices {
		if p.Match.Matches(h) {
			return resolve(p.dir, p.File), true
		}
	}
	return "", false
}

// Prices returns the prices of h in the range r, and their currency.
//
// ok is false if no price file matches h.
func (c *Config) Prices(h folio.Holding, r date.Range) (prices *date.History[float64], cur folio.Currency, ok bool, err error) {
	path, ok := c.priceFile(h)
	if !ok {
		return nil, "", false, nil
	}
	content, err := c.read(path)
	if err != nil {
		return nil, "", true, err
	}
	all, cur, err := folio.DecodePrices(strings.NewReader(content))
	if err != nil {
		return nil, "", true, fmt.Errorf("prices %q: %w", path, err)
	}
	prices = new(date.History[float64])
	for day, price := range all.Values() {
		if r.Contains(day) {
			prices.Append(day, price)
		}
	}
	return prices, cur, true, nil
}

// HoldingCurrency returns the currency of the price file matching h.
func (c *Config) HoldingCurrency(h folio.Holding) (folio.Currency, bool, error) {
	path, ok := c.priceFile(h)
	if !ok {
		return "", false, nil
	}
	content, err := c.read(path)
	if err != nil {
		return "", false, err
	}
	_, cur, err := folio.DecodePrices(strings.NewReader(content))
	if err != nil {
		return "", false, fmt.Errorf("prices %q: %w", path, err)
	}
	return cur, cur != "", nil
}
