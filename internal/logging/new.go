package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Backend names accepted by New.
const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

// New builds a Logger writing to w. backend is "slog" or "zerolog", format is
// "json" or "text", and level is one of debug, info, warn, error.
func New(w io.Writer, backend, format, level string) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		lvl, err := parseSlogLevel(level)
		if err != nil {
			return nil, err
		}
		opts := &slog.HandlerOptions{Level: lvl}
		var h slog.Handler
		switch strings.ToLower(format) {
		case "", "json":
			h = slog.NewJSONHandler(w, opts)
		case "text":
			h = slog.NewTextHandler(w, opts)
		default:
			return nil, fmt.Errorf("unknown log format %q", format)
		}
		return NewSlogLogger(slog.New(h)), nil

	case BackendZerolog:
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil || level == "" {
			if level != "" {
				return nil, fmt.Errorf("unknown log level %q", level)
			}
			lvl = zerolog.InfoLevel
		}
		out := w
		switch strings.ToLower(format) {
		case "", "json":
		case "text":
			out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
		default:
			return nil, fmt.Errorf("unknown log format %q", format)
		}
		return NewZerologLogger(zerolog.New(out).Level(lvl).With().Timestamp().Logger()), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func parseSlogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}
