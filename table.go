package folio

import (
	"fmt"
	"math"
	"slices"

	"github.com/etnz/folio/date"
	"gonum.org/v1/gonum/floats"
)

// Series is one value per calendar day of a date range.
type Series struct {
	rng    date.Range
	values []float64
}

// NewSeries returns a series over r, values must have r.Len() items.
func NewSeries(r date.Range, values []float64) Series {
	if len(values) != r.Len() {
		panic(fmt.Sprintf("series over %s needs %d values, got %d", r, r.Len(), len(values)))
	}
	return Series{rng: r, values: values}
}

func (s Series) Range() date.Range { return s.rng }
func (s Series) Len() int          { return len(s.values) }

// Values returns a copy of the values.
func (s Series) Values() []float64 { return slices.Clone(s.values) }

// At returns the value on day, NaN if day is outside the range.
func (s Series) At(day date.Date) float64 {
	i := s.rng.Index(day)
	if i < 0 {
		return math.NaN()
	}
	return s.values[i]
}

// Last returns the most recent value, NaN for an empty series.
func (s Series) Last() float64 {
	if len(s.values) == 0 {
		return math.NaN()
	}
	return s.values[len(s.values)-1]
}

// Tail returns the series restricted to its last n days. n <= 0 keeps everything.
func (s Series) Tail(n int) Series {
	if n <= 0 || n >= len(s.values) {
		return s
	}
	return Series{
		rng:    date.NewRange(s.rng.To.Add(1-n), s.rng.To),
		values: slices.Clone(s.values[len(s.values)-n:]),
	}
}

// Rebase returns the series shifted so that its first value is 0.
func (s Series) Rebase() Series {
	values := slices.Clone(s.values)
	if len(values) > 0 {
		floats.AddConst(-values[0], values)
	}
	return Series{rng: s.rng, values: values}
}

// shiftFrom adds delta to every value on or after day.
func (s Series) shiftFrom(day date.Date, delta float64) {
	floats.AddConst(delta, s.values[fromIndex(s.rng, day):])
}

// fromIndex returns the index of the first day on or after day, clamped to the range.
func fromIndex(r date.Range, day date.Date) int {
	switch {
	case day.Before(r.From):
		return 0
	case day.After(r.To):
		return r.Len()
	}
	return r.Index(day)
}

// Table is a set of named columns sharing the same daily index.
//
// Columns keep their insertion order.
type Table struct {
	rng   date.Range
	names []string
	cols  map[string][]float64
}

// NewTable returns an empty table over r.
func NewTable(r date.Range) *Table {
	return &Table{rng: r, cols: make(map[string][]float64)}
}

func (t *Table) Range() date.Range { return t.rng }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rng.Len() }

// Columns returns the column names in order.
func (t *Table) Columns() []string { return slices.Clone(t.names) }

// Has reports whether the table has a column name.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns a copy of a column, nil if absent.
func (t *Table) Column(name string) []float64 { return slices.Clone(t.cols[name]) }

// Series returns a column as a Series.
func (t *Table) Series(name string) (Series, bool) {
	col, ok := t.cols[name]
	if !ok {
		return Series{}, false
	}
	return Series{rng: t.rng, values: slices.Clone(col)}, true
}

// Set replaces or appends a column. values must have one item per row.
func (t *Table) Set(name string, values []float64) {
	if len(values) != t.Len() {
		panic(fmt.Sprintf("column %q over %s needs %d values, got %d", name, t.rng, t.Len(), len(values)))
	}
	if !t.Has(name) {
		t.names = append(t.names, name)
	}
	t.cols[name] = values
}

// column returns the column for name, creating it filled with v if needed.
func (t *Table) column(name string, v float64) []float64 {
	col, ok := t.cols[name]
	if !ok {
		col = make([]float64, t.Len())
		if v != 0 {
			floats.AddConst(v, col)
		}
		t.Set(name, col)
	}
	return col
}

// At returns the value of a column on a given day, NaN if missing.
func (t *Table) At(name string, day date.Date) float64 {
	col, ok := t.cols[name]
	i := t.rng.Index(day)
	if !ok || i < 0 {
		return math.NaN()
	}
	return col[i]
}

// Row returns the values of a day in column order.
func (t *Table) Row(day date.Date) []float64 {
	row := make([]float64, 0, len(t.names))
	for _, name := range t.names {
		row = append(row, t.At(name, day))
	}
	return row
}

// Last returns the last row in column order.
func (t *Table) Last() []float64 { return t.Row(t.rng.To) }

// Rows returns the rows in chronological order.
func (t *Table) Rows() [][]float64 {
	rows := make([][]float64, 0, t.Len())
	for day := range t.rng.Days() {
		rows = append(rows, t.Row(day))
	}
	return rows
}

// Sum returns the row wise sum.
func (t *Table) Sum() Series {
	sum := make([]float64, t.Len())
	for _, name := range t.names {
		floats.Add(sum, t.cols[name])
	}
	return Series{rng: t.rng, values: sum}
}

// Tail returns a table restricted to the last n rows. n <= 0 keeps everything.
func (t *Table) Tail(n int) *Table {
	if n <= 0 || n >= t.Len() {
		return t.Clone()
	}
	tail := NewTable(date.NewRange(t.rng.To.Add(1-n), t.rng.To))
	for _, name := range t.names {
		col := t.cols[name]
		tail.Set(name, slices.Clone(col[len(col)-n:]))
	}
	return tail
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := NewTable(t.rng)
	for _, name := range t.names {
		c.Set(name, slices.Clone(t.cols[name]))
	}
	return c
}

// Rebase returns a copy where every column starts at 0.
func (t *Table) Rebase() *Table {
	c := t.Clone()
	for _, col := range c.cols {
		if len(col) > 0 {
			floats.AddConst(-col[0], col)
		}
	}
	return c
}

// forwardFill replaces NaN by the previous value, leading NaN are kept.
func forwardFill(values []float64) {
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
			continue
		}
		last = v
	}
}

// fillNaN replaces NaN by v.
func fillNaN(values []float64, v float64) {
	for i := range values {
		if math.IsNaN(values[i]) {
			values[i] = v
		}
	}
}

// nans returns n NaN values.
func nans(n int) []float64 {
	values := make([]float64, n)
	floats.AddConst(math.NaN(), values)
	return values
}
