package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search tickers on EODHD" }
func (*searchCmd) Usage() string {
	return `folio search <name|ticker|isin>...

  Search securities on EODHD, to find the ticker to write in a ledger.
  Requires EODHD_API_TOKEN.
`
}

func (*searchCmd) SetFlags(f *flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: nothing to search")
		return subcommands.ExitUsageError
	}
	client := eodhdClient()
	if client == nil {
		return fail("searching", errors.New("EODHD_API_TOKEN is not set or FOLIO_OFFLINE is on"))
	}
	results, err := client.Search(ctx, strings.Join(f.Args(), " "))
	if err != nil {
		return fail("searching", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tMIC\tISIN\tCURRENCY\tTYPE\tNAME")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Ticker(), r.MIC, r.ISIN, r.Currency, r.Type, r.Name)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
