package folio

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeStandard(t *testing.T) {
	ledger := `date,action,name,ticker,isin,quantity,price,fees,amount
10/02/21,cash_in,,,,,,,"$4,000.00"
12/02/21,buy,,FB,,4,$1234.56,,
13/02/21,vest,Meta,,US30303M1027,2,,$1.50,
`
	got, err := DecodeStandard(strings.NewReader(ledger))
	if err != nil {
		t.Fatalf("DecodeStandard() error = %v", err)
	}
	want := []Transaction{
		mustTx(t, CashIn, date.New(2021, time.February, 10), WithAmount(usd(4000))),
		mustTx(t, Buy, date.New(2021, time.February, 12), WithTicker("FB"), WithQuantity(Q(4)), WithPrice(usd(1234.56))),
		mustTx(t, Vest, date.New(2021, time.February, 13), WithName("Meta"), WithISIN("US30303M1027"), WithQuantity(Q(2)), WithFees(usd(1.5))),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeStandard() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeStandardErrors(t *testing.T) {
	tests := []struct {
		name    string
		ledger  string
		wantErr error
	}{
		{name: "missing column", ledger: "day,action\n", wantErr: ErrMissingRequiredField},
		{name: "unknown action", ledger: "date,action,amount\n10/02/21,cash,$1\n", wantErr: ErrInvalidFieldValue},
		{name: "missing amount", ledger: "date,action,amount\n10/02/21,cash_in,\n", wantErr: ErrMissingRequiredField},
		{name: "no currency", ledger: "date,action,amount\n10/02/21,cash_in,12\n", wantErr: ErrUnparseablePrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeStandard(strings.NewReader(tt.ledger))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeStandard() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeSchwab(t *testing.T) {
	export := `"Transactions  for account XXXX-1234 as of 05/23/2021 22:18:23 ET"
"Date","Action","Symbol","Description","Quantity","Price","Fees & Comm","Amount",
"05/04/2021 as of 05/03/2021","Buy","FB","FACEBOOK INC CLASS A","1","$4.00","","-$4.00",
"05/03/2021","Stock Plan Activity","FB","FACEBOOK INC CLASS A","2","","","",
"05/02/2021","NRA Tax Adj","FB","FACEBOOK INC CLASS A","","","","-$0.30",
"05/01/2021","Qualified Dividend","FB","FACEBOOK INC CLASS A","","","","$1.00",
"05/01/2021","Sell","FB","FACEBOOK INC CLASS A","-1","$8.00","$0.10","$7.90",
Transactions Total,"","","","","","","$4.60",
`
	got, err := DecodeSchwab(strings.NewReader(export))
	if err != nil {
		t.Fatalf("DecodeSchwab() error = %v", err)
	}
	fb := []TxOption{WithTicker("FB"), WithName("FACEBOOK INC CLASS A")}
	opts := func(more ...TxOption) []TxOption { return append(append([]TxOption(nil), fb...), more...) }
	want := []Transaction{
		mustTx(t, Buy, day(4), opts(WithQuantity(Q(1)), WithPrice(usd(4)), WithAmount(usd(4)))...),
		mustTx(t, Vest, day(3), opts(WithQuantity(Q(2)))...),
		mustTx(t, Tax, day(2), opts(WithAmount(usd(0.3)))...),
		mustTx(t, Dividend, day(1), opts(WithAmount(usd(1)))...),
		mustTx(t, Sell, day(1), opts(WithQuantity(Q(1)), WithPrice(usd(8)), WithFees(usd(0.1)), WithAmount(usd(7.9)))...),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeSchwab() mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONL(t *testing.T) {
	txs := []Transaction{
		mustTx(t, CashIn, day(3), WithAmount(usd(10))),
		mustTx(t, Buy, day(3), WithTicker("TSM"), WithQuantity(Q(1)), WithPrice(twd(4)), WithFees(twd(0.5))),
	}
	var buf bytes.Buffer
	if err := EncodeJSONL(&buf, txs); err != nil {
		t.Fatalf("EncodeJSONL() error = %v", err)
	}
	want := `{"date":"2021-05-03","action":"cash_in","amount":10,"currency":"USD"}
{"date":"2021-05-03","action":"buy","ticker":"TSM","quantity":1,"price":4,"fees":0.5,"amount":3.5,"currency":"TWD"}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeJSONL() = %s, want %s", got, want)
	}

	got, err := DecodeJSONL(&buf)
	if err != nil {
		t.Fatalf("DecodeJSONL() error = %v", err)
	}
	if diff := cmp.Diff(txs, got); diff != "" {
		t.Errorf("DecodeJSONL() mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeJSONL(strings.NewReader(`{"date":"2021-05-03","action":"cash_in","amount":1,"currency":"XXX"}`)); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Errorf("DecodeJSONL() error = %v, want %v", err, ErrUnsupportedCurrency)
	}
}
