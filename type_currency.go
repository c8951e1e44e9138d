package folio

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is an ISO 4217 currency code from the closed set of supported currencies.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	TWD Currency = "TWD"
	JPY Currency = "JPY"
	CHF Currency = "CHF"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	HKD Currency = "HKD"
	CNY Currency = "CNY"
	INR Currency = "INR"
	KRW Currency = "KRW"
	SGD Currency = "SGD"
)

// symbols holds the display symbol of every supported currency.
var symbols = map[Currency]string{
	USD: "$",
	EUR: "€",
	GBP: "£",
	TWD: "NT$",
	JPY: "¥",
	CHF: "Fr.",
	CAD: "C$",
	AUD: "A$",
	HKD: "HK$",
	CNY: "CN¥",
	INR: "₹",
	KRW: "₩",
	SGD: "S$",
}

// Currencies returns all supported currencies sorted by code.
func Currencies() []Currency {
	all := make([]Currency, 0, len(symbols))
	for c := range symbols {
		all = append(all, c)
	}
	slices.Sort(all)
	return all
}

// ParseCurrency returns the currency for an ISO code, case insensitive.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate returns ErrUnsupportedCurrency if c is not part of the supported set.
func (c Currency) Validate() error {
	if _, ok := symbols[c]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, string(c))
	}
	return nil
}

// Symbol returns the display symbol, or the code for unknown currencies.
func (c Currency) Symbol() string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c)
}

func (c Currency) String() string { return string(c) }

// info returns the go-money currency definition, never nil.
func (c Currency) info() *money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return money.New(0, string(c)).Currency()
}

// Fraction returns the number of digits of the minor unit.
func (c Currency) Fraction() int { return c.info().Fraction }

// bySymbolLength lists currency markers, longest first, so that "NT$" is
// detected before "$".
func bySymbolLength() []struct {
	marker string
	cur    Currency
} {
	type entry = struct {
		marker string
		cur    Currency
	}
	var markers []entry
	for _, c := range Currencies() {
		markers = append(markers, entry{string(c), c}, entry{symbols[c], c})
	}
	slices.SortStableFunc(markers, func(a, b entry) int { return len(b.marker) - len(a.marker) })
	return markers
}

// Rates maps a currency to the number of its units worth 1 unit of the
// destination currency. The destination currency maps to 1.
type Rates map[Currency]float64

// Normalize converts amount expressed in cur into the destination currency.
func (r Rates) Normalize(amount float64, cur Currency) (float64, error) {
	rate, ok := r[cur]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s", ErrUnsupportedCurrency, cur)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: rate for %s must be positive, got %v", ErrInvalidFieldValue, cur, rate)
	}
	return amount / rate, nil
}

// NewRates returns destination relative rates from a table of rates, the
// destination currency is always set to 1.
func NewRates(dst Currency, rates map[Currency]float64) Rates {
	r := make(Rates, len(rates)+1)
	for c, v := range rates {
		r[c] = v
	}
	r[dst] = 1
	return r
}
