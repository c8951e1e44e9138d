package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Env is the process configuration, read from the environment.
type Env struct {
	Project   string `env:"FOLIO_PROJECT" envDefault:"folio.yaml"`
	LogLevel  string `env:"FOLIO_LOG_LEVEL" envDefault:"warn"`
	LogPretty bool   `env:"FOLIO_LOG_PRETTY"`
	Offline   bool   `env:"FOLIO_OFFLINE"`
	CacheDir  string `env:"FOLIO_CACHE_DIR"`
	EODHD     string `env:"EODHD_API_TOKEN"`
	ForexURL  string `env:"FOLIO_FOREX_URL" envDefault:"https://api.frankfurter.app/latest"`
	ForexPath string `env:"FOLIO_FOREX_PATH" envDefault:"$.rates"`
}

// LoadEnv reads the environment, after loading the .env file of the current
// directory if there is one.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()
	e, err := env.ParseAs[Env]()
	if err != nil {
		return e, fmt.Errorf("reading environment: %w", err)
	}
	return e, nil
}

// SetupLogging configures the global logger. Logs go to w, stderr usually,
// so that they never mix with the command output.
func SetupLogging(e Env, w io.Writer) {
	level, err := zerolog.ParseLevel(e.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if e.LogPretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// environment is the configuration the commands run with, set by Setup.
var environment = Env{
	Project:   "folio.yaml",
	LogLevel:  "warn",
	ForexURL:  "https://api.frankfurter.app/latest",
	ForexPath: "$.rates",
}

// Setup reads the environment and configures logging for the commands.
func Setup() error {
	e, err := LoadEnv()
	if err != nil {
		return err
	}
	environment = e
	SetupLogging(e, os.Stderr)
	return nil
}
