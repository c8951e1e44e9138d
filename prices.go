package folio

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/etnz/folio/date"
)

// DecodePrices reads a "date, price" CSV price history.
//
// It returns the prices and the currency of the first row, all rows must
// share it. Dates are day first.
func DecodePrices(r io.Reader) (*date.History[float64], Currency, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, "", err
	}
	history := new(date.History[float64])
	if len(rows) == 0 {
		return history, "", nil
	}
	header := newHeader(rows[0])
	for _, required := range []string{"date", "price"} {
		if _, ok := header[required]; !ok {
			return nil, "", fmt.Errorf("%w: missing column %q", ErrMissingRequiredField, required)
		}
	}

	var cur Currency
	for i, cells := range rows[1:] {
		rec := record{line: i + 2, header: header, cells: cells}
		on, err := date.ParseDayFirst(rec.get("date"))
		if err != nil {
			return nil, "", fmt.Errorf("line %d: %w", rec.line, err)
		}
		price, err := ParseMoney(rec.get("price"), false)
		if err != nil {
			return nil, "", fmt.Errorf("line %d: %w", rec.line, err)
		}
		if cur == "" {
			cur = price.Currency()
		} else if cur != price.Currency() {
			return nil, "", fmt.Errorf("line %d: %w: %s != %s", rec.line, ErrCurrencyMismatch, price.Currency(), cur)
		}
		history.Append(on, price.Float())
	}
	return history, cur, nil
}

// NewPriceTable returns one column per holding key, sorted, with one price
// per day of r.
//
// Missing days are linearly interpolated in time between known prices.
// Before the first and after the last known price the nearest one is used.
func NewPriceTable(histories map[string]*date.History[float64], r date.Range) (*Table, error) {
	table := NewTable(r)
	for _, key := range slices.Sorted(maps.Keys(histories)) {
		h := histories[key]
		if h == nil || h.Len() == 0 {
			return nil, fmt.Errorf("%w: no price for %q", ErrMissingRequiredField, key)
		}
		table.Set(key, date.Sample(h, r))
	}
	return table, nil
}
