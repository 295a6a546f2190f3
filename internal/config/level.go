package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseLevel maps a log_level value to a slog.Level. Matching is case-insensitive.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level %q is not one of debug, info, warn, error", s)
	}
}
