package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amount returns the decimal value of an optional Money.
func amount(m *Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	return &m.value
}

// MarshalJSON writes the transaction as a flat object. Monetary fields share
// a single "currency" field.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.date)
	w.Append("action", t.action)
	w.Optional("name", t.name)
	w.Optional("ticker", t.ticker)
	w.Optional("isin", t.isin)
	w.Optional("quantity", t.quantity)
	w.Optional("price", amount(t.price))
	w.Optional("fees", amount(t.fees))
	w.Optional("amount", amount(t.amount))
	w.Optional("currency", t.Currency())
	return w.MarshalJSON()
}

// jsonTransaction is the decoding side of Transaction.MarshalJSON.
type jsonTransaction struct {
	Date     date.Date        `json:"date"`
	Action   Action           `json:"action"`
	Name     string           `json:"name"`
	Ticker   string           `json:"ticker"`
	ISIN     string           `json:"isin"`
	Quantity *Quantity        `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
	Fees     *decimal.Decimal `json:"fees"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency Currency         `json:"currency"`
}

func (j jsonTransaction) transaction() (Transaction, error) {
	opts := []TxOption{WithName(j.Name), WithTicker(j.Ticker), WithISIN(j.ISIN)}
	if j.Quantity != nil {
		opts = append(opts, WithQuantity(*j.Quantity))
	}
	money := []struct {
		value *decimal.Decimal
		with  func(Money) TxOption
	}{{j.Price, WithPrice}, {j.Fees, WithFees}, {j.Amount, WithAmount}}
	for _, m := range money {
		if m.value == nil {
			continue
		}
		if err := j.Currency.Validate(); err != nil {
			return Transaction{}, err
		}
		opts = append(opts, m.with(M(*m.value, j.Currency)))
	}
	return NewTransaction(j.Action, j.Date, opts...)
}

// DecodeJSONL reads a ledger of one JSON transaction per line. Empty lines are skipped.
func DecodeJSONL(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var j jsonTransaction
		if err := json.Unmarshal(lineBytes, &j); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tx, err := j.transaction()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return txs, nil
}

// EncodeJSONL writes transactions, one JSON object per line.
func EncodeJSONL(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		data, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", tx, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write transaction: %w", err)
		}
	}
	return nil
}
