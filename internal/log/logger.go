// Package log builds the coordinator's console logger.
package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used at boot, before configuration is loaded, and
// whenever an unknown level string is supplied.
const DefaultLevel = "info"

// New builds a zerolog console logger for the given level string
// (trace, debug, info, warn, error). Output goes to stderr so piped
// tool output stays clean.
func New(level string) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	logger := zerolog.New(output).Level(parseLevel(level)).With().Timestamp().Logger()
	return &logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
