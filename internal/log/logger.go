// Package log holds the slog setup, shared field names and the request
// trace middleware.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler as the process default and returns it.
// Mains call this once before anything logs.
func Setup(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
