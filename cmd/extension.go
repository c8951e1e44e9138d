package cmd

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// EnvProject is how extensions learn the project file.
const EnvProject = "FOLIO_PROJECT"

// RunExtension attempts to find and execute an external folio-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(ctx context.Context, subcommand string, args []string) (bool, int) {
	name := "folio-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Err(err).Str("extension", name).Msg("extension not found")
		return false, 0
	}

	cmd := exec.CommandContext(ctx, lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), EnvProject+"="+projectPath())

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		log.Error().Err(err).Str("extension", name).Msg("cannot execute extension")
		return true, 1
	}
	return true, 0
}
