package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
)

type checkCmd struct {
	export string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the project file and its ledgers" }
func (*checkCmd) Usage() string {
	return `folio check [-export <file.jsonl>]

  Load the project ledgers and compute their balances, then print the number
  of transactions and balances. With -export, the transactions are written
  in the jsonl format.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.export, "export", "", "write the transactions to this jsonl file")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("loading project", err)
	}
	txs, err := cfg.Transactions()
	if err != nil {
		return fail("loading transactions", err)
	}
	balances, err := folio.Balances(txs)
	if err != nil {
		return fail("computing balances", err)
	}
	if _, err := cfg.MetaAttributes(holdings(balances)); err != nil {
		return fail("reading meta", err)
	}
	fmt.Printf("%d transactions, %d balances\n", len(txs), len(balances))

	if c.export == "" {
		return subcommands.ExitSuccess
	}
	out, err := os.Create(c.export)
	if err != nil {
		return fail("creating export", err)
	}
	defer out.Close()
	if err := folio.EncodeJSONL(out, txs); err != nil {
		return fail("exporting transactions", err)
	}
	return subcommands.ExitSuccess
}

// holdings returns every holding found in balances, once per key.
func holdings(balances map[date.Date]folio.Balance) []folio.Holding {
	seen := make(map[string]bool)
	var result []folio.Holding
	for _, b := range folio.Chronological(balances) {
		for _, key := range b.Keys() {
			if seen[key] {
				continue
			}
			seen[key] = true
			h, _ := b.Holding(key)
			result = append(result, h)
		}
	}
	return result
}
