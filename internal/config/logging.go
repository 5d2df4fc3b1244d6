package config

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps a config string to a slog level, defaulting to info.
func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogging installs the process-wide slog default per the logging config.
// Verbose forces debug level regardless of the configured one. Returns the
// LevelVar so the level can be adjusted on config reload.
func SetupLogging(cfg LoggingConfig, verbose bool) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(ParseLogLevel(cfg.Level))
	if verbose {
		level.Set(slog.LevelDebug)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	return level
}
