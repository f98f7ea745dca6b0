package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Setup configures slog to write JSONL to stderr, and also to logFile when
// it is non-empty. Returns a logger and a cleanup function to close the file handle.
func Setup(logFile string, level slog.Level) (*slog.Logger, func(), error) {
	return setup(os.Stderr, logFile, level)
}

func setup(stderr io.Writer, logFile string, level slog.Level) (*slog.Logger, func(), error) {
	cleanup := func() {}
	w := stderr

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, err
		}

		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}

		w = io.MultiWriter(stderr, f)
		cleanup = func() {
			_ = f.Close()
		}
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), cleanup, nil
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (valid: debug, info, warn, error)", s)
	}
}
