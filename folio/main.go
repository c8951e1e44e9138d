// Command folio analyses the allocations and earnings of a portfolio project.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio/cmd"
	"github.com/google/subcommands"
)

func main() {
	if err := cmd.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	commander := subcommands.NewCommander(flag.CommandLine, "folio")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	cmd.Completion(commander, flag.CommandLine).Complete("folio")
	flag.Parse()

	ctx := context.Background()
	if name := flag.Arg(0); name != "" && !known(commander, name) {
		if found, code := cmd.RunExtension(ctx, name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(ctx)))
}

// known reports whether name is a registered command.
func known(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		if sub.Name() == name {
			found = true
		}
	})
	return found
}
