package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testAppender forwards entries to tb.Log so they show up under the test that wrote them.
type testAppender struct {
	tb      testing.TB
	encoder zapcore.Encoder
}

// NewTestAppender returns an appender writing console formatted lines to tb.
func NewTestAppender(tb testing.TB) Appender {
	return &testAppender{tb: tb, encoder: newConsoleEncoder()}
}

func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	buf, err := tapp.encoder.EncodeEntry(entry, fields)
	if err != nil {
		tapp.tb.Log(entry.Message)
		return err
	}
	defer buf.Free()
	tapp.tb.Log(strings.TrimSuffix(buf.String(), "\n"))
	return nil
}

func (tapp *testAppender) Sync() error {
	return nil
}

// NewTestLogger returns a Debug+ logger writing to tb in local time.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is NewTestLogger that also records every entry, for assertions on what was logged.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	return newImpl("", DEBUG, false, NewTestAppender(tb), core), logs
}
