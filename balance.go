package folio

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/folio/date"
)

// Balance is a dated snapshot of holdings quantities and cash per currency.
//
// A Balance is a value: Process returns a new Balance and leaves the receiver
// untouched, accessors return copies.
type Balance struct {
	date     date.Date
	holdings map[string]Holding
	cash     map[Currency]Money
}

// NewBalance returns an empty balance on a given day.
func NewBalance(on date.Date) Balance {
	return Balance{date: on, holdings: map[string]Holding{}, cash: map[Currency]Money{}}
}

// Date returns the date of the snapshot.
func (b Balance) Date() date.Date { return b.date }

// Keys returns the sorted holding keys.
func (b Balance) Keys() []string { return slices.Sorted(maps.Keys(b.holdings)) }

// Holding returns the holding for key.
func (b Balance) Holding(key string) (Holding, bool) {
	h, ok := b.holdings[key]
	return h, ok
}

// Holdings returns all holdings sorted by key.
func (b Balance) Holdings() []Holding {
	holdings := make([]Holding, 0, len(b.holdings))
	for _, key := range b.Keys() {
		holdings = append(holdings, b.holdings[key])
	}
	return holdings
}

// Currencies returns the sorted currencies with a cash account.
func (b Balance) Currencies() []Currency { return slices.Sorted(maps.Keys(b.cash)) }

// Cash returns the cash balance in a currency, zero if there is no such account.
func (b Balance) Cash(cur Currency) Money {
	if m, ok := b.cash[cur]; ok {
		return m
	}
	return M(0, cur)
}

// CashValue returns the total cash converted into the destination currency of rates.
func (b Balance) CashValue(rates Rates) (float64, error) {
	total := 0.0
	for _, cur := range b.Currencies() {
		v, err := b.cash[cur].Normalize(rates)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func (b Balance) String() string {
	cash := make([]Money, 0, len(b.cash))
	for _, cur := range b.Currencies() {
		cash = append(cash, b.cash[cur])
	}
	return fmt.Sprintf("%s CASH: %v, HOLDINGS: %v", b.date, cash, b.Holdings())
}

// clone returns a copy of b with its own maps, allocated even for the zero
// Balance.
func (b Balance) clone() Balance {
	c := Balance{date: b.date, holdings: maps.Clone(b.holdings), cash: maps.Clone(b.cash)}
	if c.holdings == nil {
		c.holdings = make(map[string]Holding)
	}
	if c.cash == nil {
		c.cash = make(map[Currency]Money)
	}
	return c
}

// Process returns the balance resulting from applying tx.
//
// The new date is the latest of the balance and transaction dates.
// SPLIT transactions are not supported.
func (b Balance) Process(tx Transaction) (Balance, error) {
	next := b.clone()
	next.date = date.Max(b.date, tx.date)

	var err error
	switch tx.action {
	case Buy:
		err = next.trade(tx, -1)
	case Sell:
		err = next.trade(tx, +1)
	case Vest:
		err = next.vest(tx)
	case CashIn, Dividend:
		err = next.deposit(tx, +1)
	case CashOut, Tax:
		err = next.deposit(tx, -1)
	case Split:
		err = fmt.Errorf("%w: %s cannot be processed", ErrUnsupportedAction, tx.action)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedAction, string(tx.action))
	}
	if err != nil {
		return Balance{}, fmt.Errorf("processing %s: %w", tx, err)
	}
	return next, nil
}

// move adds delta to the cash account of its currency.
func (b *Balance) move(delta Money) error {
	cash, err := b.Cash(delta.cur).Add(delta)
	if err != nil {
		return err
	}
	b.cash[delta.cur] = cash
	return nil
}

// position adds h to the holdings, h is negated first when sign is negative.
func (b *Balance) position(h Holding, sign int) error {
	key, err := h.Key()
	if err != nil {
		return err
	}
	if sign < 0 {
		h = h.Neg()
	}
	current, ok := b.holdings[key]
	if !ok {
		b.holdings[key] = h
		return nil
	}
	if current, err = current.Add(h); err != nil {
		return err
	}
	b.holdings[key] = current
	return nil
}

// trade applies a BUY (sign -1 on cash) or a SELL (sign +1 on cash).
// Fees are always paid.
func (b *Balance) trade(tx Transaction, sign int) error {
	price, qty := *tx.price, *tx.quantity
	value := price.Scale(qty)
	if sign < 0 {
		value = value.Neg()
	}
	if err := b.move(value); err != nil {
		return err
	}
	if tx.fees != nil {
		if err := b.move(tx.fees.Neg()); err != nil {
			return err
		}
	}
	return b.position(tx.Holding(), -sign)
}

func (b *Balance) vest(tx Transaction) error {
	if tx.fees != nil {
		if err := b.move(tx.fees.Neg()); err != nil {
			return err
		}
	}
	return b.position(tx.Holding(), +1)
}

// deposit applies amount minus fees, with sign.
func (b *Balance) deposit(tx Transaction, sign int) error {
	net := *tx.amount
	if tx.fees != nil {
		var err error
		if net, err = net.Sub(*tx.fees); err != nil {
			return err
		}
	}
	if sign < 0 {
		net = net.Neg()
	}
	return b.move(net)
}

// Balances folds transactions, sorted by date, into one balance per date.
//
// The fold starts from an empty balance on the first transaction date. For
// each date only the last balance is kept. No transaction yields no balance.
func Balances(txs []Transaction) (map[date.Date]Balance, error) {
	balances := make(map[date.Date]Balance)
	if len(txs) == 0 {
		return balances, nil
	}
	current := NewBalance(txs[0].date)
	for _, tx := range txs {
		next, err := current.Process(tx)
		if err != nil {
			return nil, err
		}
		current = next
		balances[current.date] = current
	}
	return balances, nil
}

// Chronological returns the balances sorted by date.
func Chronological(balances map[date.Date]Balance) []Balance {
	days := slices.SortedFunc(maps.Keys(balances), date.Date.Compare)
	sorted := make([]Balance, 0, len(days))
	for _, d := range days {
		sorted = append(sorted, balances[d])
	}
	return sorted
}
