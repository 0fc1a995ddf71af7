package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// New creates logger for environment: text for dev, JSON for prod.
// Logs go to stderr and, if file is not empty, to rotated file as well.
// Returned close func releases the file and is safe to call when there is none.
func New(environment string, level string, file string) (Logger, func() error, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if file != "" {
		rotated := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, rotated)
		closeFn = rotated.Close
	}

	switch environment {
	case EnvDev:
		return newSlogLogger(slog.NewTextHandler(w, handlerOptions(lvl))), closeFn, nil
	case EnvProd:
		return newSlogLogger(slog.NewJSONHandler(w, handlerOptions(lvl))), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown environment %q, expected %q or %q", environment, EnvDev, EnvProd)
	}
}

// NewNoOpLogger creates a logger that discards all log messages
func NewNoOpLogger() Logger {
	return newSlogLogger(slog.DiscardHandler)
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replace,
	}
}
