package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type balancesCmd struct {
	raw bool
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "show the holdings and cash after each transaction day" }
func (*balancesCmd) Usage() string {
	return `folio balances [-raw]

  Show the balances of the project ledgers, one per transaction day.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print the markdown source")
}

func (c *balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	md := renderer.BalancesMarkdown(folio.Chronological(balances))
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
