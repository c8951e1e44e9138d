package folio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio/date"
)

// record gives access to the cells of a CSV row by header name.
type record struct {
	line   int
	header map[string]int
	cells  []string
}

func (r record) get(name string) string {
	i, ok := r.header[name]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func newHeader(cells []string) map[string]int {
	header := make(map[string]int, len(cells))
	for i, name := range cells {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return header
}

func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// money parses an optional monetary cell.
func (r record) money(name string, expectNegative bool) (*Money, error) {
	cell := r.get(name)
	if cell == "" {
		return nil, nil
	}
	m, err := ParseMoney(cell, expectNegative)
	if err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", r.line, name, err)
	}
	return &m, nil
}

// quantity parses an optional quantity cell as an absolute value.
func (r record) quantity(name string) (*Quantity, error) {
	cell := r.get(name)
	if cell == "" {
		return nil, nil
	}
	q, err := ParseQuantity(cell)
	if err != nil {
		return nil, fmt.Errorf("line %d: %s: %w: %v", r.line, name, ErrInvalidFieldValue, err)
	}
	q = q.Abs()
	return &q, nil
}

// options converts the optional monetary and quantity cells.
func (r record) options(quantity, price, fees, amount string, negativeAmount bool) ([]TxOption, error) {
	var opts []TxOption
	q, err := r.quantity(quantity)
	if err != nil {
		return nil, err
	}
	if q != nil {
		opts = append(opts, WithQuantity(*q))
	}
	for _, field := range []struct {
		name     string
		negative bool
		with     func(Money) TxOption
	}{
		{price, false, WithPrice},
		{fees, false, WithFees},
		{amount, negativeAmount, WithAmount},
	} {
		m, err := r.money(field.name, field.negative)
		if err != nil {
			return nil, err
		}
		if m != nil {
			opts = append(opts, field.with(*m))
		}
	}
	return opts, nil
}

// DecodeStandard reads a ledger in the standard CSV format.
//
// The header names the columns date, action, name, ticker, isin, quantity,
// price, fees and amount. Dates are day first, empty cells are absent fields.
func DecodeStandard(r io.Reader) ([]Transaction, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := newHeader(rows[0])
	for _, required := range []string{"date", "action"} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMissingRequiredField, required)
		}
	}

	var txs []Transaction
	for i, cells := range rows[1:] {
		rec := record{line: i + 2, header: header, cells: cells}
		on, err := date.ParseDayFirst(rec.get("date"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		action, err := ParseAction(rec.get("action"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		opts, err := rec.options("quantity", "price", "fees", "amount", false)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithName(rec.get("name")), WithTicker(rec.get("ticker")), WithISIN(rec.get("isin")))
		tx, err := NewTransaction(action, on, opts...)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// DecodeSchwab reads a Schwab transactions export.
//
// The first row is the document title and the last one the total, both are
// skipped. Dates like "05/03/2021 as of 05/01/2021" use the first date.
// BUY and TAX amounts are negative in the export.
func DecodeSchwab(r io.Reader) ([]Transaction, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("schwab export needs a title and a header row")
	}
	header := newHeader(rows[1])
	body := rows[2:]
	if len(body) > 0 {
		body = body[:len(body)-1]
	}

	var txs []Transaction
	for i, cells := range body {
		rec := record{line: i + 3, header: header, cells: cells}
		day, _, _ := strings.Cut(rec.get("date"), " ")
		on, err := date.ParseUS(day)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		action, err := SchwabAction(rec.get("action"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		negative := action == Tax || action == Buy
		opts, err := rec.options("quantity", "price", "fees & comm", "amount", negative)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTicker(rec.get("symbol")), WithName(rec.get("description")))
		tx, err := NewTransaction(action, on, opts...)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
