package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a JSON logger on stdout at the level named by AIRLOG_LOG_LEVEL.
// It is meant for the window before configuration has been parsed.
func New(component string) *slog.Logger {
	return Build(component, os.Getenv("AIRLOG_LOG_LEVEL"), os.Stdout)
}

// Build returns a JSON logger writing to w, tagged with component.
func Build(component, level string, w io.Writer) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h).With("component", component)
}

func ParseLevel(lvl string) slog.Level {
	switch lvl {
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

// Rotating returns a size-rotated log file writer. Close it on shutdown.
func Rotating(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
}
