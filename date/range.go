package date

import (
	"fmt"
	"iter"
)

// Range represents a range of dates, both boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Len returns the number of calendar days in the range, 0 if the range is empty.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Sub(r.From) + 1
}

// Index returns the position of day in the range, or -1.
func (r Range) Index(day Date) int {
	if !r.Contains(day) {
		return -1
	}
	return day.Sub(r.From)
}

// Days iterates over every calendar day of the range.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Dates returns the calendar days of the range as a slice.
func (r Range) Dates() []Date {
	days := make([]Date, 0, r.Len())
	for d := range r.Days() {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
