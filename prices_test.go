package folio

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
)

func TestDecodePrices(t *testing.T) {
	prices := `date,price
21 May 2021,$1234.56
22 May 2021,$42
`
	h, cur, err := DecodePrices(strings.NewReader(prices))
	if err != nil {
		t.Fatalf("DecodePrices() error = %v", err)
	}
	if cur != USD {
		t.Errorf("DecodePrices() currency = %v, want USD", cur)
	}
	if v, ok := h.Get(day(21)); !ok || v != 1234.56 {
		t.Errorf("price on 21 May = %v, %v, want 1234.56", v, ok)
	}
	if v, ok := h.Get(day(22)); !ok || v != 42 {
		t.Errorf("price on 22 May = %v, %v, want 42", v, ok)
	}
	if _, ok := h.Get(day(23)); ok {
		t.Errorf("price on 23 May is set")
	}

	mixed := "date,price\n21/05/2021,$1\n22/05/2021,€1\n"
	if _, _, err := DecodePrices(strings.NewReader(mixed)); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("DecodePrices() error = %v, want %v", err, ErrCurrencyMismatch)
	}
}

func TestNewPriceTable(t *testing.T) {
	fb := new(date.History[float64]).Append(day(3), 4).Append(day(5), 8)
	tsm := new(date.History[float64]).Append(day(4), 2)

	got, err := NewPriceTable(map[string]*date.History[float64]{"TSM": tsm, "FB": fb}, date.NewRange(day(2), day(6)))
	if err != nil {
		t.Fatalf("NewPriceTable() error = %v", err)
	}
	if diff := cmp.Diff([]string{"FB", "TSM"}, got.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{4, 4, 6, 8, 8}, got.Column("FB"), approx); diff != "" {
		t.Errorf("FB prices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 2, 2, 2, 2}, got.Column("TSM"), approx); diff != "" {
		t.Errorf("TSM prices mismatch (-want +got):\n%s", diff)
	}

	empty := map[string]*date.History[float64]{"FB": new(date.History[float64])}
	if _, err := NewPriceTable(empty, date.NewRange(day(2), day(6))); !errors.Is(err, ErrMissingRequiredField) {
		t.Errorf("NewPriceTable() error = %v, want %v", err, ErrMissingRequiredField)
	}
}
