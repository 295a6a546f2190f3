// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/sakif/todo-api/internal/config"
)

// InitSlog builds the process logger from cfg. When stdin is a terminal it
// writes human-readable text, otherwise JSON suitable for log shippers.
// Logs always go to stderr.
func InitSlog(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stderr, cfg, term.IsTerminal(int(os.Stdin.Fd())))
}

func newLogger(w io.Writer, cfg *config.Config, tty bool) *slog.Logger {
	// Validate has already rejected unknown levels; fall back to info anyway.
	level, _ := config.ParseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{
		AddSource: cfg.DevMode,
		Level:     level,
	}
	var handler slog.Handler
	if tty {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
