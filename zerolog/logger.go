package zerolog

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewConsoleLogger returns a human readable logger writing to w. Quiet
// disables all output and verbose enables debug events.
func NewConsoleLogger(w io.Writer, quiet, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.Disabled
	case verbose:
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()
}
