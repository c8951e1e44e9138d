package folio

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   Currency
}

// M returns a Money of value in currency.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency Currency) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// String returns the string representation of the money value.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.String()
	}
	cur := m.cur.info()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

func (m Money) Currency() Currency        { return m.cur }
func (m Money) Amount() decimal.Decimal   { return m.value }
func (m Money) Float() float64            { return m.value.InexactFloat64() }
func (m Money) IsZero() bool              { return m.value.IsZero() }
func (m Money) IsPositive() bool          { return m.value.IsPositive() }
func (m Money) IsNegative() bool          { return m.value.IsNegative() }
func (m Money) Neg() Money                { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Scale(n Quantity) Money    { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money      { return Money{value: m.value.Div(n.value), cur: m.cur} }
func (m Money) DivPrice(n Money) Quantity { return Quantity{value: m.value.Div(n.value)} }

// binary operators.

// Equal reports whether m and n have the same currency and the same amount.
// Amounts in different currencies are never equal, use Compare to get an
// ErrCurrencyMismatch instead.
func (m Money) Equal(n Money) bool {
	if m.cur != n.cur {
		return false
	}
	return m.value.Equal(n.value)
}

func (m Money) Add(n Money) (Money, error) {
	if err := sameCurrency(m, n); err != nil {
		return Money{}, err
	}
	return Money{value: m.value.Add(n.value), cur: m.cur}, nil
}

func (m Money) Sub(n Money) (Money, error) {
	if err := sameCurrency(m, n); err != nil {
		return Money{}, err
	}
	return Money{value: m.value.Sub(n.value), cur: m.cur}, nil
}

func (m Money) Mul(n Money) (Money, error) {
	if err := sameCurrency(m, n); err != nil {
		return Money{}, err
	}
	return Money{value: m.value.Mul(n.value), cur: m.cur}, nil
}

// Compare returns -1, 0, +1 when m is lower, equal or greater than n.
func (m Money) Compare(n Money) (int, error) {
	if err := sameCurrency(m, n); err != nil {
		return 0, err
	}
	return m.value.Cmp(n.value), nil
}

func sameCurrency(a, b Money) error {
	if a.cur != b.cur {
		return fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, a.cur, b.cur)
	}
	return nil
}

// Normalize converts m into the destination currency of rates.
func (m Money) Normalize(rates Rates) (float64, error) {
	return rates.Normalize(m.Float(), m.cur)
}

var amountPattern = regexp.MustCompile(`[\d.,]+`)

// ParseMoney parses strings like "$1,234.56", "-12.3 EUR" or "NT$ 40".
//
// The currency is detected from its code or its symbol. With expectNegative
// the value must carry a leading '-', and the absolute value is returned.
func ParseMoney(s string, expectNegative bool) (Money, error) {
	number := amountPattern.FindString(s)
	digits := strings.ReplaceAll(number, ",", "")
	if strings.Trim(digits, ".") == "" {
		return Money{}, fmt.Errorf("%w: cannot find an amount in %q", ErrMalformedPrice, s)
	}
	value, err := decimal.NewFromString(digits)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrMalformedPrice, s, err)
	}
	negative := strings.HasPrefix(strings.TrimSpace(s), "-")
	if negative {
		value = value.Neg()
	}

	var cur Currency
	for _, m := range bySymbolLength() {
		if strings.Contains(s, m.marker) {
			cur = m.cur
			break
		}
	}
	if cur == "" {
		return Money{}, fmt.Errorf("%w: no currency in %q", ErrUnparseablePrice, s)
	}

	if expectNegative {
		if !negative {
			return Money{}, fmt.Errorf("%w: expected a negative amount, got %q", ErrInvalidFieldValue, s)
		}
		value = value.Abs()
	}
	return Money{value: value, cur: cur}, nil
}

// SignedString is like String with a "+" for positive values.
func (m Money) SignedString() string {
	if m.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
