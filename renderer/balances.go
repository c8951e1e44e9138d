package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio"
)

// BalancesMarkdown renders each balance as a section with its non zero
// holdings and cash accounts.
func BalancesMarkdown(balances []folio.Balance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Balances\n\n")
	if len(balances) == 0 {
		fmt.Fprintf(&b, "*No balances.*\n")
		return b.String()
	}
	for _, bal := range balances {
		fmt.Fprintf(&b, "## %s\n\n", bal.Date())

		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintln(w, "| Holding | Name | Ticker | ISIN | Quantity |")
			fmt.Fprintln(w, "|:---|:---|:---|:---|---:|")
			n := 0
			for _, key := range bal.Keys() {
				h, _ := bal.Holding(key)
				if h.Quantity.IsZero() {
					continue
				}
				n++
				fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", key, h.Name, h.Ticker, h.ISIN, h.Quantity)
			}
			fmt.Fprintln(w)
			return n > 0
		})

		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintln(w, "| Cash | Value |")
			fmt.Fprintln(w, "|:---|---:|")
			for _, cur := range bal.Currencies() {
				fmt.Fprintf(w, "| %s | %s |\n", cur, bal.Cash(cur))
			}
			fmt.Fprintln(w)
			return len(bal.Currencies()) > 0
		})
	}
	return b.String()
}
