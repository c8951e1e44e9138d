package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/project"
	"github.com/google/subcommands"
)

// writeTSV writes t as tab separated values, one row per day.
func writeTSV(w io.Writer, t *folio.Table) error {
	columns := t.Columns()
	if _, err := fmt.Fprintf(w, "date\t%s\n", strings.Join(columns, "\t")); err != nil {
		return err
	}
	cells := make([]string, len(columns))
	for day := range t.Range().Days() {
		for i, v := range t.Row(day) {
			cells[i] = strconv.FormatFloat(v, 'f', 2, 64)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", day, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// tableCmd prints the daily allocations or earnings of every holding.
type tableCmd struct {
	name string
	days int
}

func (c *tableCmd) Name() string { return c.name }
func (c *tableCmd) Synopsis() string {
	return fmt.Sprintf("print the daily %s of each holding as tab separated values", c.name)
}
func (c *tableCmd) Usage() string {
	return fmt.Sprintf(`folio %s [-days <n>]

  Print the daily %s of each holding, one row per day, as tab separated
  values.
`, c.name, c.name)
}

func (c *tableCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "only print the last days, 0 prints every reported day")
}

func (c *tableCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := openProject(ctx)
	if err != nil {
		return fail("opening project", err)
	}
	t, err := c.table(p)
	if err != nil {
		return fail("computing "+c.name, err)
	}
	if err := writeTSV(os.Stdout, t.Tail(c.days)); err != nil {
		return fail("writing "+c.name, err)
	}
	return subcommands.ExitSuccess
}

func (c *tableCmd) table(p *project.Project) (*folio.Table, error) {
	alloc, err := p.Allocations()
	if err != nil {
		return nil, err
	}
	if c.name == "allocations" {
		return alloc, nil
	}
	holdings, err := p.Attribute(project.HoldingsAttribute, alloc)
	if err != nil {
		return nil, err
	}
	earnings, err := p.Earnings(alloc)
	if err != nil {
		return nil, err
	}
	t := holdings.Earnings.Clone()
	t.Set("total", earnings.Values())
	return t, nil
}

// attributesCmd prints the daily decomposition of an attribute.
type attributesCmd struct {
	attr string
	what string
	days int
}

func (*attributesCmd) Name() string { return "attributes" }
func (*attributesCmd) Synopsis() string {
	return "print the daily allocations or earnings by attribute value"
}
func (*attributesCmd) Usage() string {
	return `folio attributes [-attr <name>] [-show allocations|earnings|percentages] [-days <n>]

  Print the daily allocations, earnings or earnings percentages of each
  value of an attribute as tab separated values. Without -attr, the
  attributes are listed.
`
}

func (c *attributesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.attr, "attr", "", "attribute name")
	f.StringVar(&c.what, "show", "allocations", "allocations, earnings or percentages")
	f.IntVar(&c.days, "days", 0, "only print the last days, 0 prints every reported day")
}

func (c *attributesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.what {
	case "allocations", "earnings", "percentages":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown -show %q\n", c.what)
		return subcommands.ExitUsageError
	}
	p, err := openProject(ctx)
	if err != nil {
		return fail("opening project", err)
	}
	if c.attr == "" {
		for _, name := range p.Attributes() {
			fmt.Println(name)
		}
		return subcommands.ExitSuccess
	}
	alloc, err := p.Allocations()
	if err != nil {
		return fail("computing allocations", err)
	}
	a, err := p.Attribute(c.attr, alloc)
	if err != nil {
		return fail("computing attribute", err)
	}
	t := a.Allocations
	switch c.what {
	case "earnings":
		t = a.Earnings
	case "percentages":
		t = a.Percentages
	}
	if err := writeTSV(os.Stdout, t.Tail(c.days)); err != nil {
		return fail("writing attribute", err)
	}
	return subcommands.ExitSuccess
}
