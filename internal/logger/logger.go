package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a logger writing to stderr, JSON by default and a console
// format at debug level when debug is set.
func Setup(debug bool) zerolog.Logger {
	return New(os.Stderr, debug)
}

// New returns a logger writing to w with caller and timestamp fields.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if debug {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Timestamp().Caller().Stack().Logger()
	}

	return zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}
