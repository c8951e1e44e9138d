// Package cmd implements the CLI application to analyse a folio project.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/eodhd"
	"github.com/etnz/folio/forex"
	"github.com/etnz/folio/project"
	"github.com/etnz/folio/webget"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "analysis")
	c.Register(&balancesCmd{}, "analysis")
	c.Register(&tableCmd{name: "allocations"}, "analysis")
	c.Register(&tableCmd{name: "earnings"}, "analysis")
	c.Register(&attributesCmd{}, "analysis")

	c.Register(&checkCmd{}, "project")
	c.Register(&searchCmd{}, "project")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var projectFile = flag.String("c", "", "Path to the project file. Defaults to $FOLIO_PROJECT, or folio.yaml")

// projectPath returns the project file to use.
func projectPath() string {
	if *projectFile != "" {
		return *projectFile
	}
	return environment.Project
}

// loadConfig reads the project file.
func loadConfig() (*config.Config, error) {
	return config.Load(projectPath())
}

// cachingOptions returns the cache options for remote clients.
func cachingOptions() []webget.Option {
	if environment.CacheDir == "" {
		return nil
	}
	return []webget.Option{webget.WithDir(environment.CacheDir)}
}

// eodhdClient returns the EODHD client, nil when offline or without token.
func eodhdClient() *eodhd.Client {
	if environment.Offline || environment.EODHD == "" {
		return nil
	}
	var opts []eodhd.Option
	if cache := cachingOptions(); cache != nil {
		cache = append(cache, webget.WithRateLimit(eodhd.DefaultRate, eodhd.DefaultBurst))
		opts = append(opts, eodhd.WithHTTPClient(webget.NewCachingClient(cache...)))
	}
	return eodhd.NewClient(environment.EODHD, opts...)
}

// openProject loads the project and its market data.
func openProject(ctx context.Context) (*project.Project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	var opts []project.Option
	if c := eodhdClient(); c != nil {
		opts = append(opts, project.WithPriceSource(c))
	} else {
		log.Info().Msg("remote prices disabled")
	}
	if !environment.Offline {
		fx := []forex.Option{forex.WithURL(environment.ForexURL), forex.WithPath(environment.ForexPath)}
		if cache := cachingOptions(); cache != nil {
			fx = append(fx, forex.WithHTTPClient(webget.NewCachingClient(cache...)))
		}
		opts = append(opts, project.WithRateSource(forex.NewClient(fx...)))
	}
	return project.Open(ctx, cfg, opts...)
}

// printMarkdown renders md for the terminal, or prints it raw when it cannot.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Debug().Err(err).Msg("markdown renderer unavailable")
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown")
		return md
	}
	return out
}

// fail reports err and returns the failure status.
func fail(what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}
