package folio

import (
	"fmt"
	"math"

	"github.com/etnz/folio/date"
	"gonum.org/v1/gonum/floats"
)

// CashColumn is the allocation column holding the total cash.
const CashColumn = "cash"

// Analysis computes allocation, earnings and return series in a destination
// currency.
type Analysis struct {
	prices     *Table
	rates      Rates
	currencies map[string]Currency
}

// NewAnalysis returns an analysis over a daily price table (one column per
// holding key, no missing value), destination relative rates, and the
// currency of each holding.
func NewAnalysis(prices *Table, rates Rates, currencies map[string]Currency) *Analysis {
	return &Analysis{prices: prices, rates: rates, currencies: currencies}
}

// Range returns the days covered by the analysis.
func (a *Analysis) Range() date.Range { return a.prices.Range() }

// Holdings returns the holding keys analysed, in price table order.
func (a *Analysis) Holdings() []string { return a.prices.Columns() }

// rate returns the rate of the holding currency.
func (a *Analysis) rate(key string) (float64, error) {
	cur, ok := a.currencies[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHoldingCurrency, key)
	}
	rate, ok := a.rates[cur]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s (holding %q)", ErrUnsupportedCurrency, cur, key)
	}
	return rate, nil
}

// Allocations returns the daily value of each holding and of the cash, in the
// destination currency.
//
// Each balance writes its quantities and cash on its own day and is carried
// forward until the next one. The most recent balance before the analysis
// range seeds its first day, balances after it are ignored. Days before any
// balance are 0. ndays > 0 keeps only the last ndays rows.
func (a *Analysis) Allocations(balances map[date.Date]Balance, ndays int) (*Table, error) {
	rng := a.prices.Range()
	keys := a.prices.Columns()
	n := rng.Len()

	quantities := make(map[string][]float64, len(keys))
	for _, key := range keys {
		quantities[key] = nans(n)
	}
	cash := nans(n)

	write := func(i int, b Balance) error {
		for _, key := range keys {
			if h, ok := b.Holding(key); ok {
				quantities[key][i] = h.Quantity.Float()
			}
		}
		v, err := b.CashValue(a.rates)
		if err != nil {
			return fmt.Errorf("cash on %s: %w", b.Date(), err)
		}
		cash[i] = v
		return nil
	}

	for _, b := range Chronological(balances) {
		// Balances outside the priced days are ignored.
		i := rng.Index(b.Date())
		if i < 0 {
			continue
		}
		if err := write(i, b); err != nil {
			return nil, err
		}
	}

	allocations := NewTable(rng)
	for _, key := range keys {
		values := quantities[key]
		forwardFill(values)
		floats.Mul(values, a.prices.cols[key])
		rate, err := a.rate(key)
		if err != nil {
			return nil, err
		}
		floats.Scale(1/rate, values)
		fillNaN(values, 0)
		allocations.Set(key, values)
	}
	forwardFill(cash)
	fillNaN(cash, 0)
	allocations.Set(CashColumn, cash)

	return allocations.Tail(ndays), nil
}

// vestValue returns the destination value of a VEST transaction, using the
// first price on or after its date. ok is false if there is no such price.
func (a *Analysis) vestValue(tx Transaction) (value float64, ok bool, err error) {
	key, err := tx.HoldingKey()
	if err != nil {
		return 0, false, err
	}
	prices, found := a.prices.cols[key]
	if !found {
		return 0, false, nil
	}
	price := math.NaN()
	for _, p := range prices[fromIndex(a.prices.rng, tx.date):] {
		if !math.IsNaN(p) {
			price = p
			break
		}
	}
	if math.IsNaN(price) {
		return 0, false, nil
	}
	rate, err := a.rate(key)
	if err != nil {
		return 0, false, err
	}
	qty, _ := tx.Quantity()
	return qty.Float() * price / rate, true, nil
}

// amountValue returns the destination value of the transaction amount.
func (a *Analysis) amountValue(tx Transaction) (float64, error) {
	amount, ok := tx.Amount()
	if !ok {
		return 0, fmt.Errorf("%w: %s has no amount", ErrMissingRequiredField, tx)
	}
	return amount.Normalize(a.rates)
}

// Earnings returns the daily portfolio value net of deposits, withdrawals and
// vested compensation, starting at 0.
func (a *Analysis) Earnings(allocations *Table, txs []Transaction, ndays int) (Series, error) {
	earnings := allocations.Sum()
	for _, tx := range txs {
		switch tx.action {
		case CashIn, CashOut:
			v, err := a.amountValue(tx)
			if err != nil {
				return Series{}, err
			}
			if tx.action == CashIn {
				v = -v
			}
			earnings.shiftFrom(tx.date, v)
		case Vest:
			v, ok, err := a.vestValue(tx)
			if err != nil {
				return Series{}, err
			}
			if ok {
				earnings.shiftFrom(tx.date, -v)
			}
		}
	}
	return earnings.Tail(ndays).Rebase(), nil
}

// RateOfReturn returns the time weighted rate of return over the earnings range.
//
// Each day contributes a factor (balance + earned) / balance where earned is
// the earnings increase to the next day. Days with a zero balance do not
// contribute.
func (a *Analysis) RateOfReturn(allocations *Table, earnings Series) float64 {
	total := allocations.Sum()
	days := earnings.rng.Dates()
	ror := 1.0
	for t := 0; t+1 < len(days); t++ {
		balance := total.At(days[t])
		if balance == 0 || math.IsNaN(balance) {
			continue
		}
		delta := earnings.values[t+1] - earnings.values[t]
		ror *= (balance + delta) / balance
	}
	return ror - 1
}
