package util

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. format "json" emits structured lines,
// anything else a human-readable console stream.
func NewLogger(level, format string) zerolog.Logger {
	return NewLoggerTo(os.Stdout, level, format)
}

func NewLoggerTo(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
