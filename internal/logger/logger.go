// Package logger configures the zerolog logger used by the development
// backend. The TUI logs through internal/debug instead, since it owns the
// terminal.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level is a log level name.
type Level string

// Supported levels.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(level Level) zerolog.Level {
	switch Level(strings.ToLower(string(level))) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger writing to w. Dev mode uses the human readable
// console writer.
func New(w io.Writer, level Level, dev bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if dev {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// LevelFromEnv reads the DEBUG environment variable. Debug output is on when
// forced is true or DEBUG is "1" or "true".
func LevelFromEnv(forced bool) Level {
	if forced {
		return LevelDebug
	}
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true":
		return LevelDebug
	}
	return LevelInfo
}
