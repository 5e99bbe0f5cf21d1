package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. In development mode it writes
// colorized console output at debug level; otherwise structured JSON at the
// given level.
func Init(level string, development bool) {
	if development {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(zerolog.DebugLevel)
		return
	}

	lvl := parseLevel(level)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
