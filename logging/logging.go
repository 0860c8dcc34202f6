// Package logging contains the structured logger shared by the configurator packages and binaries.
package logging

import (
	"io"
	"sync"

	"go.uber.org/zap"
)

// Logger interface for logging to.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger with the same level and outputs, named "<parent>.<subname>".
	Sublogger(subname string) Logger
	// With returns a copy of the logger that adds the key value pairs to every entry.
	With(keysAndValues ...interface{}) Logger
	SetLevel(level Level)
	GetLevel() Level
	AddAppender(appender Appender)
	Sync() error

	// AsZap returns a zap logger that writes to the same appenders.
	AsZap() *zap.SugaredLogger
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewLogger("configurator")
)

// ReplaceGlobal replaces the global loggers.
func ReplaceGlobal(logger Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// Global returns the global logger.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewLogger returns a new logger that outputs Info+ logs to stdout in UTC.
func NewLogger(name string) Logger {
	return newImpl(name, INFO, true, NewStdoutAppender())
}

// NewDebugLogger is NewLogger at Debug level.
func NewDebugLogger(name string) Logger {
	return newImpl(name, DEBUG, true, NewStdoutAppender())
}

// NewWriterLogger returns a new logger that outputs logs at or above level to the writer in UTC.
func NewWriterLogger(name string, level Level, writer io.Writer) Logger {
	return newImpl(name, level, true, NewWriterAppender(writer))
}

// NewBlankLogger returns a Debug+ logger without any outputs. Appenders can be added later.
func NewBlankLogger(name string) Logger {
	return newImpl(name, DEBUG, true)
}
