package folio

import (
	"errors"
	"testing"
)

func TestBalance_Process(t *testing.T) {
	start := NewBalance(day(3))
	tests := []struct {
		name     string
		tx       Transaction
		wantCash Money
		wantFB   float64
	}{
		{
			name:     "buy",
			tx:       mustTx(t, Buy, day(3), WithTicker("FB"), WithQuantity(Q(2)), WithPrice(usd(4)), WithFees(usd(1))),
			wantCash: usd(-9),
			wantFB:   2,
		},
		{
			name:     "sell may go short",
			tx:       mustTx(t, Sell, day(3), WithTicker("FB"), WithQuantity(Q(2)), WithPrice(usd(4)), WithFees(usd(1))),
			wantCash: usd(7),
			wantFB:   -2,
		},
		{
			name:     "vest pays fees only",
			tx:       mustTx(t, Vest, day(3), WithTicker("FB"), WithQuantity(Q(3)), WithFees(usd(0.5))),
			wantCash: usd(-0.5),
			wantFB:   3,
		},
		{
			name:     "cash in",
			tx:       mustTx(t, CashIn, day(3), WithAmount(usd(10)), WithFees(usd(1))),
			wantCash: usd(9),
		},
		{
			name:     "dividend like cash in",
			tx:       mustTx(t, Dividend, day(3), WithAmount(usd(10))),
			wantCash: usd(10),
		},
		{
			name:     "cash out",
			tx:       mustTx(t, CashOut, day(3), WithAmount(usd(10)), WithFees(usd(1))),
			wantCash: usd(-9),
		},
		{
			name:     "tax like cash out",
			tx:       mustTx(t, Tax, day(3), WithAmount(usd(2))),
			wantCash: usd(-2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := start.Process(tt.tx)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if cash := got.Cash(USD); !cash.Equal(tt.wantCash) {
				t.Errorf("Cash(USD) = %v, want %v", cash, tt.wantCash)
			}
			h, _ := got.Holding("FB")
			if q := h.Quantity.Float(); q != tt.wantFB {
				t.Errorf("FB quantity = %v, want %v", q, tt.wantFB)
			}
			if len(start.Keys()) != 0 || len(start.Currencies()) != 0 {
				t.Errorf("Process() modified the original balance: %v", start)
			}
		})
	}
}

func TestBalance_ProcessDate(t *testing.T) {
	b := NewBalance(day(4))
	got, err := b.Process(mustTx(t, CashIn, day(3), WithAmount(usd(1))))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got.Date() != day(4) {
		t.Errorf("Date() = %v, want %v", got.Date(), day(4))
	}
	got, err = got.Process(mustTx(t, CashIn, day(5), WithAmount(usd(1))))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got.Date() != day(5) {
		t.Errorf("Date() = %v, want %v", got.Date(), day(5))
	}
}

func TestBalance_ZeroValue(t *testing.T) {
	var b Balance
	got, err := b.Process(mustTx(t, CashIn, day(3), WithAmount(usd(10))))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	got, err = got.Process(mustTx(t, Buy, day(3), WithTicker("FB"), WithQuantity(Q(1)), WithPrice(usd(4))))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if c := got.Cash(USD); !c.Equal(usd(6)) {
		t.Errorf("Cash(USD) = %v, want %v", c, usd(6))
	}
	if _, ok := got.Holding("FB"); !ok {
		t.Errorf("Holding(FB) not found")
	}
	if got.Date() != day(3) {
		t.Errorf("Date() = %v, want %v", got.Date(), day(3))
	}
}

func TestBalance_Split(t *testing.T) {
	_, err := NewBalance(day(3)).Process(mustTx(t, Split, day(3), WithTicker("FB")))
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("Process(split) error = %v, want %v", err, ErrUnsupportedAction)
	}
}

func TestBalance_RoundTrip(t *testing.T) {
	b := NewBalance(day(3))
	b, _ = b.Process(mustTx(t, CashIn, day(3), WithAmount(usd(100))))
	trade := []TxOption{WithTicker("FB"), WithQuantity(Q(3)), WithPrice(usd(7)), WithFees(usd(0.25))}

	bought, err := b.Process(mustTx(t, Buy, day(3), trade...))
	if err != nil {
		t.Fatalf("Process(buy) error = %v", err)
	}
	sold, err := bought.Process(mustTx(t, Sell, day(4), trade...))
	if err != nil {
		t.Fatalf("Process(sell) error = %v", err)
	}
	if h, _ := sold.Holding("FB"); !h.Quantity.IsZero() {
		t.Errorf("FB quantity = %v, want 0", h.Quantity)
	}
	// both fees are paid.
	if got, want := sold.Cash(USD), usd(99.5); !got.Equal(want) {
		t.Errorf("Cash(USD) = %v, want %v", got, want)
	}
}

func TestBalances(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		got, err := Balances(nil)
		if err != nil || len(got) != 0 {
			t.Errorf("Balances(nil) = %v, %v, want empty", got, err)
		}
	})

	t.Run("one balance per day", func(t *testing.T) {
		txs := []Transaction{
			mustTx(t, CashIn, day(3), WithAmount(usd(10))),
			mustTx(t, Buy, day(3), WithTicker("FB"), WithQuantity(Q(1)), WithPrice(usd(4))),
			mustTx(t, Buy, day(3), WithTicker("TSM"), WithQuantity(Q(1)), WithPrice(twd(4))),
			mustTx(t, CashIn, day(4), WithAmount(usd(10))),
		}
		got, err := Balances(txs)
		if err != nil {
			t.Fatalf("Balances() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Balances() returned %d balances, want 2", len(got))
		}
		first := got[day(3)]
		if cash := first.Cash(USD); !cash.Equal(usd(6)) {
			t.Errorf("USD cash on day 3 = %v, want $6.00", cash)
		}
		if cash := first.Cash(TWD); !cash.Equal(twd(-4)) {
			t.Errorf("TWD cash on day 3 = %v, want -4", cash)
		}
		if keys := first.Keys(); len(keys) != 2 || keys[0] != "FB" || keys[1] != "TSM" {
			t.Errorf("Keys() on day 3 = %v, want [FB TSM]", keys)
		}
		if cash := got[day(4)].Cash(USD); !cash.Equal(usd(16)) {
			t.Errorf("USD cash on day 4 = %v, want $16.00", cash)
		}
		rates := NewRates(USD, map[Currency]float64{TWD: 2})
		if v, err := first.CashValue(rates); err != nil || v != 4 {
			t.Errorf("CashValue() = %v, %v, want 4", v, err)
		}

		again, _ := Balances(txs)
		for d, b := range got {
			if b.String() != again[d].String() {
				t.Errorf("Balances() is not deterministic on %s: %v != %v", d, b, again[d])
			}
		}
	})

	t.Run("failure aborts", func(t *testing.T) {
		txs := []Transaction{
			mustTx(t, CashIn, day(3), WithAmount(usd(10))),
			mustTx(t, Split, day(4), WithTicker("FB")),
		}
		if _, err := Balances(txs); !errors.Is(err, ErrUnsupportedAction) {
			t.Errorf("Balances() error = %v, want %v", err, ErrUnsupportedAction)
		}
	})
}
