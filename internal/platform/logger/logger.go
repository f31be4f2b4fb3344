package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger for the given component. APP_ENV=dev selects a
// human-readable console writer; anything else logs JSON to stdout.
func New(component string, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, strings.ToLower(os.Getenv("APP_ENV")) == "dev", component, level)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(w io.Writer, console bool, component string, level string) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
}
