package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level  int
	logger *slog.Logger
}

func NewLogger(level int) *defaultLogger {
	return NewLoggerWithWriter(level, os.Stderr, false)
}

// NewLoggerWithWriter writes records as text, or as JSON lines if json is set.
func NewLoggerWithWriter(level int, w io.Writer, json bool) *defaultLogger {
	opts := &slog.HandlerOptions{Level: toSlogLevel(level)}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &defaultLogger{level: level, logger: slog.New(handler)}
}

// ParseLevel accepts debug, info, warning, error or silence.
func ParseLevel(s string) int {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence":
		return SILENCE
	default:
		return INFO
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.log(DEBUG, msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.log(INFO, msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.log(WARNING, msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.log(ERROR, msg, a...)
}

func (l *defaultLogger) log(level int, msg string, a ...any) {
	if l.level > level {
		return
	}

	l.logger.Log(context.Background(), toSlogLevel(level), fmt.Sprintf(msg, a...))
}

func toSlogLevel(level int) slog.Level {
	switch level {
	case DEBUG:
		return slog.LevelDebug
	case INFO:
		return slog.LevelInfo
	case WARNING:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
