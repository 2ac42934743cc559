// Package rlog provides the rasterizer's structured logging, adapted from
// mmp-vice's pkg/log: a *slog.Logger wrapped to (a) accept a nil receiver
// so call sites don't need a "logging enabled" check, and (b) write to a
// rotating file via gopkg.in/natefinch/lumberjack.v2. It is intentionally
// smaller than the teacher's mmp-vice original: no build-info dump, no
// callstack injection — a CPU rasterizer's worker pool and resource loader
// don't need a multi-year flight sim's forensic logging depth.
package rlog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger so every call site can use a nil *Logger as
// "logging disabled" without a branch at every call.
type Logger struct {
	*slog.Logger
	LogFile string
}

// Config selects the log level and destination file.
type Config struct {
	Level   string // "debug", "info", "warn", "error"
	LogFile string // empty disables file output; Logger remains usable
}

// New constructs a Logger writing newline-delimited JSON to a
// size-rotated file, or to stderr when cfg.LogFile is empty. A nil
// *Logger is also valid: it discards Debug/Info while Warn/Error go to
// slog's default logger.
func New(cfg Config) *Logger {
	lvl := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "":
	default:
		fmt.Fprintf(os.Stderr, "rlog: invalid level %q, defaulting to info\n", cfg.Level)
	}

	if cfg.LogFile == "" {
		return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))}
	}

	w := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    32, // MB
		MaxBackups: 3,
		Compress:   true,
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return &Logger{Logger: slog.New(h), LogFile: cfg.LogFile}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Debugf(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		slog.Warn(msg, args...)
		return
	}
	l.Logger.Warn(msg, args...)
}

func (l *Logger) Warnf(msg string, args ...any) {
	if l == nil {
		slog.Warn(fmt.Sprintf(msg, args...))
		return
	}
	l.Logger.Warn(fmt.Sprintf(msg, args...))
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		slog.Error(msg, args...)
		return
	}
	l.Logger.Error(msg, args...)
}

func (l *Logger) Errorf(msg string, args ...any) {
	if l == nil {
		slog.Error(fmt.Sprintf(msg, args...))
		return
	}
	l.Logger.Error(fmt.Sprintf(msg, args...))
}
