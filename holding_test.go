package folio

import (
	"errors"
	"testing"
)

func TestHolding_Key(t *testing.T) {
	tests := []struct {
		holding Holding
		want    string
		wantErr error
	}{
		{holding: Holding{Name: "Meta", Ticker: "FB", ISIN: "US30303M1027"}, want: "US30303M1027"},
		{holding: Holding{Name: "Meta", Ticker: "FB"}, want: "FB"},
		{holding: Holding{Name: "Meta"}, want: "Meta"},
		{holding: Holding{}, wantErr: ErrMissingIdentifier},
	}
	for _, tt := range tests {
		got, err := tt.holding.Key()
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%v.Key() error = %v, want %v", tt.holding, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("%v.Key() = %q, want %q", tt.holding, got, tt.want)
		}
	}
}

func TestHolding_Arithmetic(t *testing.T) {
	fb := Holding{Ticker: "FB", Quantity: Q(3)}

	sum, err := fb.Add(Holding{Ticker: "FB", Name: "Meta", Quantity: Q(2)})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !sum.Quantity.Equal(Q(5)) || sum.Name != "" {
		t.Errorf("Add() = %+v, want 5 FB keeping the receiver identity", sum)
	}

	diff, err := fb.Sub(Holding{Ticker: "FB", Quantity: Q(5)})
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if !diff.Quantity.Equal(Q(-2)) {
		t.Errorf("Sub() quantity = %v, want -2", diff.Quantity)
	}

	if neg := fb.Neg(); !neg.Quantity.Equal(Q(-3)) {
		t.Errorf("Neg() quantity = %v, want -3", neg.Quantity)
	}

	if _, err := fb.Add(Holding{Ticker: "TSM", Quantity: Q(1)}); !errors.Is(err, ErrHoldingKeyMismatch) {
		t.Errorf("Add(TSM) error = %v, want %v", err, ErrHoldingKeyMismatch)
	}
	if _, err := fb.Sub(Holding{Quantity: Q(1)}); !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("Sub(anonymous) error = %v, want %v", err, ErrMissingIdentifier)
	}
}

func TestHolding_Match(t *testing.T) {
	tx := mustTx(t, Buy, day(3), WithName("Meta"), WithTicker("FB"), WithPrice(usd(1)))
	tests := []struct {
		holding Holding
		want    bool
	}{
		{Holding{Ticker: "FB"}, true},
		{Holding{Name: "Meta", Ticker: "FB"}, true},
		{Holding{Ticker: "FB", ISIN: "US30303M1027"}, false},
		{Holding{Name: "Facebook"}, false},
		{Holding{}, true},
	}
	for _, tt := range tests {
		if got := tt.holding.Match(tx); got != tt.want {
			t.Errorf("%+v.Match(%v) = %v, want %v", tt.holding, tx, got, tt.want)
		}
	}
}
