package folio

import (
	"testing"
	"time"

	"github.com/etnz/folio/date"
)

// usd is a helper for test to create usd money from const
func usd(v float64) Money { return M(v, USD) }

// twd is a helper for test to create taiwan dollars from const
func twd(v float64) Money { return M(v, TWD) }

// day is a helper for test to create a date in May 2021.
func day(d int) date.Date { return date.New(2021, time.May, d) }

// mustTx builds a transaction or fails the test.
func mustTx(t *testing.T, action Action, on date.Date, opts ...TxOption) Transaction {
	t.Helper()
	tx, err := NewTransaction(action, on, opts...)
	if err != nil {
		t.Fatalf("NewTransaction(%s, %s) error = %v", action, on, err)
	}
	return tx
}
