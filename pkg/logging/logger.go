// Package logging provides structured logging for the reverb tracing core.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors zap's level type so callers never need to import zap directly.
type Level = zapcore.Level

const (
	// LevelDebug is for detailed tracing of bounce-by-bounce decisions.
	LevelDebug = zapcore.DebugLevel
	// LevelInfo is for general informational messages.
	LevelInfo = zapcore.InfoLevel
	// LevelWarn is for warnings, e.g. runaway-path terminations.
	LevelWarn = zapcore.WarnLevel
	// LevelError is for errors, e.g. rejected parameters or malformed batches.
	LevelError = zapcore.ErrorLevel
)

// Logger wraps a zap.SugaredLogger with the level-scoped methods the rest
// of this module calls. Kept as a thin named type, not a type alias, so
// Fatal can be overridden to avoid zap's default os.Exit in tests.
type Logger struct {
	mu   sync.Mutex
	sug  *zap.SugaredLogger
	lvl  zap.AtomicLevel
	exit func(code int)
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// New creates a Logger writing to stderr at the given minimum level, in the
// console encoding zap recommends for development use.
func New(level Level) *Logger {
	lvl := zap.NewAtomicLevelAt(level)
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stderr), lvl)
	base := zap.New(core, zap.AddCaller())
	return &Logger{sug: base.Sugar(), lvl: lvl, exit: os.Exit}
}

// Default returns the package-level logger, created lazily at LevelInfo.
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(LevelInfo)
	})
	return defaultLogger
}

// SetLevel adjusts the minimum level this logger emits, without replacing
// the underlying zap core.
func (l *Logger) SetLevel(level Level) {
	l.lvl.SetLevel(level)
}

// With returns a child logger with the given structured fields attached to
// every subsequent message, mirroring zap.SugaredLogger.With.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sug: l.sug.With(keysAndValues...), lvl: l.lvl, exit: l.exit}
}

// Debug logs a debug-level message with structured key/value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sug.Debugw(msg, keysAndValues...)
}

// Info logs an info-level message with structured key/value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sug.Infow(msg, keysAndValues...)
}

// Warn logs a warning-level message with structured key/value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sug.Warnw(msg, keysAndValues...)
}

// Error logs an error-level message with structured key/value pairs.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sug.Errorw(msg, keysAndValues...)
}

// Fatal logs an error-level message with structured key/value pairs, then
// terminates the process via the Logger's exit func (os.Exit by default).
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sug.Errorw(msg, keysAndValues...)
	l.sug.Sync()
	exit := l.exit
	if exit == nil {
		exit = os.Exit
	}
	exit(1)
}

// Sync flushes any buffered log entries. Callers should defer Sync on
// process shutdown.
func (l *Logger) Sync() error {
	return l.sug.Sync()
}
