package folio

import (
	"fmt"
	"strings"

	"github.com/etnz/folio/date"
)

// Action is the kind of a transaction. Its value is the ledger wire value.
type Action string

// Actions recorded in a ledger.
const (
	Buy      Action = "buy"
	Sell     Action = "sell"
	Vest     Action = "vest"
	Tax      Action = "tax"
	Dividend Action = "dividends"
	CashIn   Action = "cash_in"
	CashOut  Action = "cash_out"
	Split    Action = "split"
)

// Actions lists every action in ledger order.
var Actions = []Action{Buy, Sell, Vest, Tax, Dividend, CashIn, CashOut, Split}

// ParseAction returns the action for a wire value.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidFieldValue, s)
}

// SchwabAction maps a Schwab export action label to an Action.
func SchwabAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "reinvest shares":
		return Buy, nil
	case "sell":
		return Sell, nil
	case "stock plan activity":
		return Vest, nil
	case "nra tax adj", "foreign tax paid":
		return Tax, nil
	case "qual div reinvest", "qualified dividend", "cash dividend":
		return Dividend, nil
	}
	return "", fmt.Errorf("%w: cannot translate schwab action %q", ErrInvalidFieldValue, s)
}

// Transaction is a validated ledger event.
//
// Optional fields are nil when absent, missing price, quantity and amount are
// inferred at construction. A Transaction is never modified once built.
type Transaction struct {
	action   Action
	date     date.Date
	quantity *Quantity
	price    *Money
	fees     *Money
	amount   *Money
	name     string
	ticker   string
	isin     string
}

// TxOption sets an optional field of a Transaction.
type TxOption func(*Transaction)

func WithQuantity(q Quantity) TxOption { return func(t *Transaction) { t.quantity = &q } }
func WithPrice(m Money) TxOption       { return func(t *Transaction) { t.price = &m } }
func WithFees(m Money) TxOption        { return func(t *Transaction) { t.fees = &m } }
func WithAmount(m Money) TxOption      { return func(t *Transaction) { t.amount = &m } }
func WithName(s string) TxOption       { return func(t *Transaction) { t.name = strings.TrimSpace(s) } }
func WithTicker(s string) TxOption     { return func(t *Transaction) { t.ticker = strings.TrimSpace(s) } }
func WithISIN(s string) TxOption       { return func(t *Transaction) { t.isin = strings.TrimSpace(s) } }

// NewTransaction builds and validates a transaction.
//
// Field checks happen in this order: positivity of quantity, price and fees
// (amount may be zero), per action requirements with inference, and finally
// currency consistency between price, fees and amount.
func NewTransaction(action Action, on date.Date, opts ...TxOption) (Transaction, error) {
	t := Transaction{action: action, date: on}
	for _, opt := range opts {
		opt(&t)
	}
	if err := t.validate(); err != nil {
		return Transaction{}, fmt.Errorf("%s %s: %w", on, action, err)
	}
	return t, nil
}

func (t *Transaction) validate() error {
	if t.quantity != nil && !t.quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be > 0, got %s", ErrInvalidFieldValue, t.quantity)
	}
	if t.price != nil && !t.price.IsPositive() {
		return fmt.Errorf("%w: price must be > 0, got %s", ErrInvalidFieldValue, t.price)
	}
	if t.fees != nil && !t.fees.IsPositive() {
		return fmt.Errorf("%w: fees must be > 0, got %s", ErrInvalidFieldValue, t.fees)
	}
	if t.amount != nil && t.amount.IsNegative() {
		return fmt.Errorf("%w: amount must be >= 0, got %s", ErrInvalidFieldValue, t.amount)
	}

	switch t.action {
	case Buy, Sell:
		if t.quantity == nil {
			one := Q(1)
			t.quantity = &one
		}
		if !t.hasIdentifier() {
			return ErrMissingIdentifier
		}
		if t.price == nil && t.amount == nil {
			return fmt.Errorf("%w: price or amount must be set for %s", ErrMissingRequiredField, t.action)
		}
		if t.price == nil {
			price := t.amount.Div(*t.quantity).Abs()
			if !price.IsPositive() {
				return fmt.Errorf("%w: cannot infer a positive price from amount %s", ErrInvalidFieldValue, t.amount)
			}
			t.price = &price
		}
	case Vest:
		if t.quantity == nil {
			return fmt.Errorf("%w: quantity must be set for %s", ErrMissingRequiredField, t.action)
		}
		if !t.hasIdentifier() {
			return ErrMissingIdentifier
		}
	case Tax, Dividend, CashIn, CashOut:
		if t.amount == nil {
			return fmt.Errorf("%w: amount must be set for %s", ErrMissingRequiredField, t.action)
		}
	case Split:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedAction, string(t.action))
	}

	if t.amount == nil && t.quantity != nil && t.price != nil {
		amount := t.price.Scale(*t.quantity)
		if t.fees != nil {
			var err error
			if amount, err = amount.Sub(*t.fees); err != nil {
				return err
			}
		}
		if amount.IsNegative() {
			return fmt.Errorf("%w: fees %s exceed the traded value", ErrInvalidFieldValue, t.fees)
		}
		t.amount = &amount
	}

	var cur Currency
	for _, m := range []*Money{t.price, t.fees, t.amount} {
		switch {
		case m == nil:
		case cur == "":
			cur = m.cur
		case cur != m.cur:
			return fmt.Errorf("%w: price, fees and amount must share one currency, got %s and %s", ErrCurrencyMismatch, cur, m.cur)
		}
	}
	return nil
}

func (t Transaction) hasIdentifier() bool { return t.isin != "" || t.ticker != "" || t.name != "" }

func (t Transaction) Action() Action  { return t.action }
func (t Transaction) Date() date.Date { return t.date }
func (t Transaction) Name() string    { return t.name }
func (t Transaction) Ticker() string  { return t.ticker }
func (t Transaction) ISIN() string    { return t.isin }

func (t Transaction) Quantity() (Quantity, bool) { return deref(t.quantity) }
func (t Transaction) Price() (Money, bool)       { return deref(t.price) }
func (t Transaction) Fees() (Money, bool)        { return deref(t.fees) }
func (t Transaction) Amount() (Money, bool)      { return deref(t.amount) }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Currency returns the common currency of the transaction monetary fields,
// empty when it has none.
func (t Transaction) Currency() Currency {
	for _, m := range []*Money{t.price, t.fees, t.amount} {
		if m != nil {
			return m.cur
		}
	}
	return ""
}

// HoldingKey returns the key of the holding the transaction is about.
// Only BUY, SELL, VEST and SPLIT transactions are about a holding.
func (t Transaction) HoldingKey() (string, error) {
	switch t.action {
	case Buy, Sell, Vest, Split:
		return holdingKey(t.isin, t.ticker, t.name)
	}
	return "", fmt.Errorf("%w: %s transactions have no holding", ErrUnsupportedAction, t.action)
}

// Holding returns the holding moved by this transaction.
func (t Transaction) Holding() Holding {
	h := Holding{Name: t.name, Ticker: t.ticker, ISIN: t.isin}
	if t.quantity != nil {
		h.Quantity = *t.quantity
	}
	return h
}

// Match reports whether every identifier of h that is set equals the transaction's one.
func (h Holding) Match(t Transaction) bool {
	return (h.Ticker == "" || h.Ticker == t.ticker) &&
		(h.ISIN == "" || h.ISIN == t.isin) &&
		(h.Name == "" || h.Name == t.name)
}

// Equal reports whether both transactions have the same fields.
func (t Transaction) Equal(o Transaction) bool {
	return t.action == o.action && t.date == o.date &&
		t.name == o.name && t.ticker == o.ticker && t.isin == o.isin &&
		equalPtr(t.quantity, o.quantity, Quantity.Equal) &&
		equalPtr(t.price, o.price, Money.Equal) &&
		equalPtr(t.fees, o.fees, Money.Equal) &&
		equalPtr(t.amount, o.amount, Money.Equal)
}

func equalPtr[T any](a, b *T, eq func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return eq(*a, *b)
}

func (t Transaction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", t.date, t.action)
	if key, err := holdingKey(t.isin, t.ticker, t.name); err == nil {
		fmt.Fprintf(&b, " %s", key)
	}
	if t.quantity != nil {
		fmt.Fprintf(&b, " x%s", t.quantity)
	}
	if t.amount != nil {
		fmt.Fprintf(&b, " %s", t.amount)
	}
	return b.String()
}
