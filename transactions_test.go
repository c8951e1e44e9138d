package folio

import (
	"errors"
	"testing"
)

func TestNewTransaction(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		opts    []TxOption
		wantErr error
	}{
		{name: "buy with price", action: Buy, opts: []TxOption{WithTicker("FB"), WithQuantity(Q(1)), WithPrice(usd(4))}},
		{name: "buy with amount only", action: Buy, opts: []TxOption{WithTicker("FB"), WithAmount(usd(4))}},
		{name: "buy without identifier", action: Buy, opts: []TxOption{WithPrice(usd(4))}, wantErr: ErrMissingIdentifier},
		{name: "buy without price nor amount", action: Buy, opts: []TxOption{WithTicker("FB")}, wantErr: ErrMissingRequiredField},
		{name: "sell like buy", action: Sell, opts: []TxOption{WithName("Meta"), WithQuantity(Q(2)), WithPrice(usd(4))}},
		{name: "negative quantity", action: Buy, opts: []TxOption{WithTicker("FB"), WithQuantity(Q(-1)), WithPrice(usd(4))}, wantErr: ErrInvalidFieldValue},
		{name: "zero price", action: Buy, opts: []TxOption{WithTicker("FB"), WithPrice(usd(0))}, wantErr: ErrInvalidFieldValue},
		{name: "zero fees", action: Buy, opts: []TxOption{WithTicker("FB"), WithPrice(usd(1)), WithFees(usd(0))}, wantErr: ErrInvalidFieldValue},
		{name: "fees above value", action: Buy, opts: []TxOption{WithTicker("FB"), WithQuantity(Q(1)), WithPrice(usd(1)), WithFees(usd(2))}, wantErr: ErrInvalidFieldValue},
		{name: "negative amount", action: CashIn, opts: []TxOption{WithAmount(usd(-1))}, wantErr: ErrInvalidFieldValue},
		{name: "mixed currencies", action: Buy, opts: []TxOption{WithTicker("FB"), WithPrice(usd(4)), WithFees(twd(1))}, wantErr: ErrCurrencyMismatch},
		{name: "vest", action: Vest, opts: []TxOption{WithTicker("FB"), WithQuantity(Q(1))}},
		{name: "vest without quantity", action: Vest, opts: []TxOption{WithTicker("FB")}, wantErr: ErrMissingRequiredField},
		{name: "cash in", action: CashIn, opts: []TxOption{WithAmount(usd(10))}},
		{name: "cash out without amount", action: CashOut, wantErr: ErrMissingRequiredField},
		{name: "tax without amount", action: Tax, wantErr: ErrMissingRequiredField},
		{name: "dividend without amount", action: Dividend, wantErr: ErrMissingRequiredField},
		{name: "split", action: Split, opts: []TxOption{WithTicker("FB")}},
		{name: "unknown action", action: Action("gift"), wantErr: ErrUnsupportedAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(tt.action, day(3), tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionInference(t *testing.T) {
	t.Run("price and quantity from amount", func(t *testing.T) {
		tx := mustTx(t, Buy, day(3), WithTicker("FB"), WithAmount(usd(12)))
		q, _ := tx.Quantity()
		p, _ := tx.Price()
		if !q.Equal(Q(1)) || !p.Equal(usd(12)) {
			t.Errorf("got quantity %v price %v, want 1 and $12", q, p)
		}
	})
	t.Run("price divides amount", func(t *testing.T) {
		tx := mustTx(t, Sell, day(3), WithTicker("FB"), WithQuantity(Q(4)), WithAmount(usd(10)))
		if p, _ := tx.Price(); !p.Equal(usd(2.5)) {
			t.Errorf("Price() = %v, want $2.50", p)
		}
	})
	t.Run("amount from quantity price and fees", func(t *testing.T) {
		tx := mustTx(t, Buy, day(3), WithTicker("FB"), WithQuantity(Q(3)), WithPrice(usd(4)), WithFees(usd(1)))
		if a, _ := tx.Amount(); !a.Equal(usd(11)) {
			t.Errorf("Amount() = %v, want $11.00", a)
		}
		if tx.Currency() != USD {
			t.Errorf("Currency() = %v, want USD", tx.Currency())
		}
	})
	t.Run("absent fields", func(t *testing.T) {
		tx := mustTx(t, CashIn, day(3), WithAmount(usd(10)))
		if _, ok := tx.Quantity(); ok {
			t.Errorf("Quantity() is set for a cash in")
		}
		if _, ok := tx.Price(); ok {
			t.Errorf("Price() is set for a cash in")
		}
	})
}

func TestHoldingKey(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		want    string
		wantErr error
	}{
		{name: "isin first", tx: mustTx(t, Buy, day(3), WithName("Meta"), WithTicker("FB"), WithISIN("US30303M1027"), WithPrice(usd(1))), want: "US30303M1027"},
		{name: "then ticker", tx: mustTx(t, Sell, day(3), WithName("Meta"), WithTicker("FB"), WithPrice(usd(1))), want: "FB"},
		{name: "then name", tx: mustTx(t, Vest, day(3), WithName("Meta"), WithQuantity(Q(1))), want: "Meta"},
		{name: "split", tx: mustTx(t, Split, day(3), WithTicker("FB")), want: "FB"},
		{name: "cash has no holding", tx: mustTx(t, CashIn, day(3), WithAmount(usd(1))), wantErr: ErrUnsupportedAction},
		{name: "split without identifier", tx: mustTx(t, Split, day(3)), wantErr: ErrMissingIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tx.HoldingKey()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HoldingKey() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("HoldingKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActions(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(string(a))
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %q, %v", a, got, err)
		}
	}
	if _, err := ParseAction("cash"); !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("ParseAction(cash) error = %v, want %v", err, ErrInvalidFieldValue)
	}

	schwab := map[string]Action{
		"Buy":                 Buy,
		"Reinvest Shares":     Buy,
		"Sell":                Sell,
		"Stock Plan Activity": Vest,
		"NRA Tax Adj":         Tax,
		"Foreign Tax Paid":    Tax,
		"Qual Div Reinvest":   Dividend,
		"Qualified Dividend":  Dividend,
		"Cash Dividend":       Dividend,
	}
	for label, want := range schwab {
		if got, err := SchwabAction(label); err != nil || got != want {
			t.Errorf("SchwabAction(%q) = %q, %v, want %q", label, got, err, want)
		}
	}
	if _, err := SchwabAction("Journal"); err == nil {
		t.Errorf("SchwabAction(Journal) succeeded, want an error")
	}
}
