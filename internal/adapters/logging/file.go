package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/rs/zerolog"
)

// FileLogger writes JSON lines to a persistent log via zerolog.
type FileLogger struct {
	mu    *sync.RWMutex
	level *ports.Level
	zl    zerolog.Logger
}

// NewFileLogger creates a FileLogger writing to w at Debug level.
func NewFileLogger(w io.Writer) *FileLogger {
	level := ports.LevelDebug
	return &FileLogger{
		mu:    &sync.RWMutex{},
		level: &level,
		zl:    zerolog.New(w).With().Timestamp().Logger(),
	}
}

// OpenFileLogger opens path in append mode, creating its parent
// directories. The caller closes the returned file.
func OpenFileLogger(path string) (*FileLogger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewFileLogger(f), f, nil
}

// Debug logs a debug message.
func (l *FileLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *FileLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *FileLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *FileLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelError, msg, fields)
}

// With returns a logger that adds fields to every entry.
func (l *FileLogger) With(fields ...ports.Field) ports.Logger {
	zctx := l.zl.With()
	for _, f := range fields {
		zctx = zctx.Interface(f.Key, f.Value)
	}
	return &FileLogger{mu: l.mu, level: l.level, zl: zctx.Logger()}
}

// Level returns the minimum log level.
func (l *FileLogger) Level() ports.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return *l.level
}

// SetLevel sets the minimum log level for this logger and its derivatives.
func (l *FileLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

func (l *FileLogger) log(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < l.Level() {
		return
	}

	var ev *zerolog.Event
	switch level {
	case ports.LevelDebug:
		ev = l.zl.Debug()
	case ports.LevelWarn:
		ev = l.zl.Warn()
	case ports.LevelError:
		ev = l.zl.Error()
	default:
		ev = l.zl.Info()
	}

	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

// Ensure FileLogger implements Logger.
var _ ports.Logger = (*FileLogger)(nil)
