package renderer

import (
	"fmt"

	"github.com/etnz/folio"
)

// Transaction renders a transaction to a string.
func Transaction(tx folio.Transaction) string {
	key, err := tx.HoldingKey()
	if err != nil {
		key = "?"
	}
	qty, _ := tx.Quantity()
	amount, hasAmount := tx.Amount()
	switch tx.Action() {
	case folio.Buy:
		if !hasAmount {
			return fmt.Sprintf("Bought %s of %s", qty, key)
		}
		return fmt.Sprintf("Bought %s of %s for %s", qty, key, amount)
	case folio.Sell:
		if !hasAmount {
			return fmt.Sprintf("Sold %s of %s", qty, key)
		}
		return fmt.Sprintf("Sold %s of %s for %s", qty, key, amount)
	case folio.Vest:
		return fmt.Sprintf("Vested %s of %s", qty, key)
	case folio.Split:
		return fmt.Sprintf("Split of %s", key)
	case folio.Dividend:
		return fmt.Sprintf("Dividend of %s", amount)
	case folio.Tax:
		return fmt.Sprintf("Tax of %s", amount)
	case folio.CashIn:
		return fmt.Sprintf("Deposited %s", amount)
	case folio.CashOut:
		return fmt.Sprintf("Withdrew %s", amount)
	default:
		return tx.String()
	}
}
