package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the process logger for the named binary component
// ("api", "web", "cli") writing to stdout.
func NewLogger(cfg LoggerConfig, component string) zerolog.Logger {
	return newLogger(cfg, component, os.Stdout)
}

func newLogger(cfg LoggerConfig, component string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).With().
		Timestamp().
		Str("component", component).
		Logger()
}
