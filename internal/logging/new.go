package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// New picks a backend: zerolog with a rotating file when fileName is set,
// otherwise slog text output to w.
func New(w io.Writer, fileName string, level string) Logger {
	if fileName != "" {
		return NewFileLogger(w, fileName, zerologLevel(level))
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
	return NewSlogLogger(slog.New(h))
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func zerologLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}
