// Package logging builds the zerolog logger used by the strata CLI and
// bindings.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/chazu/strata/pkg/config"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// New creates a logger from cfg. The returned closer releases the log file
// when Output names one; it is a no-op for stdout and stderr.
func New(cfg config.Logging) (zerolog.Logger, io.Closer, error) {
	var (
		writer io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "stdout":
		writer = os.Stdout
	case "stderr", "":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, errors.Wrap(err, "opening log file")
		}
		writer, closer = f, f
	}
	return NewWriter(cfg, writer), closer, nil
}

// NewWriter creates a logger from cfg that writes to w, ignoring
// cfg.Output.
func NewWriter(cfg config.Logging, w io.Writer) zerolog.Logger {
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(cfg.Level))
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
