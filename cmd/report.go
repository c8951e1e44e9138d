package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	raw     bool
	history bool
	n       int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "report the allocations and earnings of the project" }
func (*reportCmd) Usage() string {
	return `folio report [-raw] [-history] [-n <transactions>]

  Report the balance, earnings, rate of return and the allocation of every
  attribute over the project days.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print the markdown source")
	f.BoolVar(&c.history, "history", false, "include the daily balances")
	f.IntVar(&c.n, "n", 20, "maximum number of transactions, 0 for all")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := openProject(ctx)
	if err != nil {
		return fail("opening project", err)
	}
	r, err := p.Report(ctx)
	if err != nil {
		return fail("computing report", err)
	}
	md := renderer.ReportMarkdown(r, renderer.ReportRenderOptions{
		SkipHistory:     !c.history,
		MaxTransactions: c.n,
	})
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
