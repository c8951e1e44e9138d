package folio

import (
	"math"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestForwardFill(t *testing.T) {
	nan := math.NaN()
	values := []float64{nan, 1, nan, nan, 3, nan}
	forwardFill(values)
	want := []float64{nan, 1, 1, 1, 3, 3}
	if diff := cmp.Diff(want, values, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("forwardFill() mismatch (-want +got):\n%s", diff)
	}
	fillNaN(values, 0)
	if diff := cmp.Diff([]float64{0, 1, 1, 1, 3, 3}, values); diff != "" {
		t.Errorf("fillNaN() mismatch (-want +got):\n%s", diff)
	}
}

func TestTable(t *testing.T) {
	table := NewTable(date.NewRange(day(1), day(3)))
	table.Set("b", []float64{1, 2, 3})
	table.Set("a", []float64{10, 20, 30})

	if diff := cmp.Diff([]string{"b", "a"}, table.Columns()); diff != "" {
		t.Errorf("Columns() keep insertion order (-want +got):\n%s", diff)
	}
	if got := table.At("a", day(2)); got != 20 {
		t.Errorf("At(a, 2) = %v, want 20", got)
	}
	if got := table.At("a", day(4)); !math.IsNaN(got) {
		t.Errorf("At(a, 4) = %v, want NaN", got)
	}
	if diff := cmp.Diff([]float64{11, 22, 33}, table.Sum().Values()); diff != "" {
		t.Errorf("Sum() mismatch (-want +got):\n%s", diff)
	}

	tail := table.Tail(2)
	if tail.Range() != date.NewRange(day(2), day(3)) {
		t.Errorf("Tail(2).Range() = %v", tail.Range())
	}
	if diff := cmp.Diff([][]float64{{2, 20}, {3, 30}}, tail.Rows()); diff != "" {
		t.Errorf("Tail(2) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{0, 0}, {1, 10}}, tail.Rebase().Rows()); diff != "" {
		t.Errorf("Rebase() mismatch (-want +got):\n%s", diff)
	}
	// Tail and Rebase copy.
	if table.At("b", day(2)) != 2 {
		t.Errorf("Tail() modified the table")
	}
}

func TestSeries(t *testing.T) {
	s := NewSeries(date.NewRange(day(1), day(4)), []float64{5, 6, 8, 11})
	s.shiftFrom(day(3), -1)
	if diff := cmp.Diff([]float64{5, 6, 7, 10}, s.Values()); diff != "" {
		t.Errorf("shiftFrom() mismatch (-want +got):\n%s", diff)
	}
	s.shiftFrom(day(0), 1)
	s.shiftFrom(day(9), 100)
	if diff := cmp.Diff([]float64{6, 7, 8, 11}, s.Values()); diff != "" {
		t.Errorf("shiftFrom() out of range mismatch (-want +got):\n%s", diff)
	}
	rebased := s.Tail(3).Rebase()
	if diff := cmp.Diff([]float64{0, 1, 4}, rebased.Values()); diff != "" {
		t.Errorf("Tail(3).Rebase() mismatch (-want +got):\n%s", diff)
	}
	if rebased.Last() != 4 {
		t.Errorf("Last() = %v, want 4", rebased.Last())
	}
}
