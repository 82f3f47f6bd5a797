// Package logging builds the zerolog loggers used by tmscope.
//
// Library packages never create loggers of their own; they accept one through
// an option and default to zerolog.Nop(). The CLI builds the root logger here
// and hands each component a child tagged with its name.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Components.
const (
	CompTheme    = "theme"
	CompRegistry = "registry"
	CompWatcher  = "watcher"
	CompCLI      = "cli"
)

// Config controls the root logger.
type Config struct {
	Level  string
	Pretty bool

	// Out defaults to os.Stderr.
	Out io.Writer
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// New builds a logger from cfg. Pretty output uses zerolog's console writer,
// otherwise one JSON object is written per line.
func New(cfg Config) (zerolog.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Component returns a child of logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
