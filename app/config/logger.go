package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogger is the logger used before the configuration is known.
func DefaultLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}

// NewLogger returns the application logger for the given environment:
// console output with trace level for local runs, JSON otherwise.
func NewLogger(env string) zerolog.Logger {
	w := io.Writer(os.Stdout)
	switch env {
	case EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Str("env", env).
		Logger()
}
