// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger writing to stdout as the default logger
// and returns it. service is attached to every record.
func Setup(level slog.Level, service string) *slog.Logger {
	return setup(os.Stdout, level, service)
}

func setup(w io.Writer, level slog.Level, service string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(h).With("service", service)
	slog.SetDefault(logger)
	return logger
}
