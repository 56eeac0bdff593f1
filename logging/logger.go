// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/config"
)

const App = "techmap"

// Init builds the global logger from LOG_LEVEL (default info) and LOG_FORMAT
// ("json" for machine output, console otherwise) and writes to stdout.
func Init(cfg map[string]string) zerolog.Logger {
	return InitTo(os.Stdout, cfg)
}

func InitTo(out io.Writer, cfg map[string]string) zerolog.Logger {
	if !strings.EqualFold(config.GetString(cfg, "LOG_FORMAT", "console"), "json") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level := ParseLevel(config.GetString(cfg, "LOG_LEVEL", "info"))
	logger := zerolog.New(out).Level(level).With().Timestamp().Str("app", App).Logger()
	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	return logger
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
