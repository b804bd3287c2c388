package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/counts2csv/pkg/log"
)

// Logger returns the console logger on stderr at the given level name.
// An unknown level falls back to info and is reported as an error.
func Logger(level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return log.NewConsoleLogger(os.Stderr, zerolog.InfoLevel), err
	}
	return log.NewConsoleLogger(os.Stderr, lvl), nil
}

// ParseLevel parses a zerolog level name. The empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}
