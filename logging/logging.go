// Package logging constructs the structured loggers used by the SDK
// and the verdictctl CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Output formats accepted by NewLogger.
const (
	FormatTerminal = "terminal"
	FormatLogfmt   = "logfmt"
	FormatJSON     = "json"
)

// Config describes how a logger should be built.
type Config struct {
	Level  string // trace, debug, info, warn, error, crit
	Format string // terminal, logfmt, json
	Color  bool   // colorize terminal output
}

// DefaultConfig returns the logger configuration used when no flags are set.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatTerminal,
	}
}

// LevelFromString parses a level name into a slog level.
func LevelFromString(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// NewLogger builds a structured logger writing to wr according to cfg.
func NewLogger(wr io.Writer, cfg Config) (log.Logger, error) {
	lvl, err := LevelFromString(cfg.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatTerminal, "":
		handler = log.NewTerminalHandlerWithLevel(wr, lvl, cfg.Color)
	case FormatLogfmt:
		handler = log.LogfmtHandlerWithLevel(wr, lvl)
	case FormatJSON:
		handler = log.JSONHandlerWithLevel(wr, lvl)
	default:
		return nil, fmt.Errorf("unknown log format: %q", cfg.Format)
	}

	return log.NewLogger(handler), nil
}

// SetGlobalLogger installs l as the process-wide default logger, so
// package-level log calls everywhere share the same handler.
func SetGlobalLogger(l log.Logger) {
	log.SetDefault(l)
}
