// Package gshlog sets up gosh's structured logging, following
// cmd/fluid-cli/main.go's pattern of opening a log file under the data
// directory and building a slog.TextHandler over it so that debug output
// never collides with the shell's own terminal UI.
package gshlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Open opens (creating it if needed) the log file at path, whose parent
// directory must already exist, and returns a logger tagged with a fresh per-run session id. The
// returned io.Closer must be closed when the shell exits; if the file
// can't be opened, logging falls back to io.Discard rather than failing
// startup.
func Open(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		return withSession(logger), nopCloser{}, fmt.Errorf("gshlog: open %s: %w", path, err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return withSession(slog.New(handler)), f, nil
}

func withSession(logger *slog.Logger) *slog.Logger {
	return logger.With("session_id", uuid.NewString())
}

// ParseLevel maps the config's log_level string to a slog.Level,
// defaulting to Info on an unrecognised value.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
