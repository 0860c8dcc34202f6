package logging

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// callerSkip is the number of frames between callerAt and the code that called a Logger method.
const callerSkip = 4

type impl struct {
	name  string
	level AtomicLevel
	inUTC bool
	// fields are attached to every entry, in front of the entry's own fields.
	fields []zapcore.Field

	appenders []Appender
}

func newImpl(name string, level Level, inUTC bool, appenders ...Appender) *impl {
	return &impl{name: name, level: NewAtomicLevelAt(level), inUTC: inUTC, appenders: appenders}
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

// child copies the logger's outputs and fields. The copy gets its own level.
func (imp *impl) child(name string) *impl {
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(imp.level.Get()),
		inUTC:     imp.inUTC,
		fields:    imp.fields,
		appenders: imp.appenders,
	}
}

func (imp *impl) Sublogger(subname string) Logger {
	if imp.name == "" {
		return imp.child(subname)
	}
	return imp.child(imp.name + "." + subname)
}

func (imp *impl) With(keysAndValues ...interface{}) Logger {
	ret := imp.child(imp.name)
	ret.fields = append(append([]zapcore.Field(nil), imp.fields...), toFields(keysAndValues)...)
	return ret
}

func (imp *impl) Sync() error {
	var errs error
	for _, appender := range imp.appenders {
		errs = multierr.Append(errs, appender.Sync())
	}
	return errs
}

// appenderCore lets an Appender back a zap logger.
type appenderCore struct {
	zapcore.LevelEnabler
	appender Appender
	fields   []zapcore.Field
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	return &appenderCore{c.LevelEnabler, c.appender, append(append([]zapcore.Field(nil), c.fields...), fields...)}
}

func (c *appenderCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.appender.Write(entry, append(append([]zapcore.Field(nil), c.fields...), fields...))
}

func (c *appenderCore) Sync() error {
	return c.appender.Sync()
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	enabler := zap.LevelEnablerFunc(func(level zapcore.Level) bool {
		return level >= imp.level.Get().AsZap()
	})
	cores := make([]zapcore.Core, 0, len(imp.appenders))
	for _, appender := range imp.appenders {
		cores = append(cores, &appenderCore{LevelEnabler: enabler, appender: appender, fields: imp.fields})
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar().Named(imp.name)
}

func (imp *impl) enabled(level Level) bool {
	return level >= imp.level.Get()
}

// write hands one entry to every appender. Appender failures go to stderr since there is nowhere
// else to report them.
func (imp *impl) write(level Level, msg string, fields []zapcore.Field) {
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
		Caller:     callerAt(callerSkip),
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	if len(imp.fields) > 0 {
		fields = append(append([]zapcore.Field(nil), imp.fields...), fields...)
	}
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func (imp *impl) log(level Level, args []interface{}) {
	if imp.enabled(level) {
		imp.write(level, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) logf(level Level, template string, args []interface{}) {
	if imp.enabled(level) {
		imp.write(level, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) logw(level Level, msg string, keysAndValues []interface{}) {
	if imp.enabled(level) {
		imp.write(level, msg, toFields(keysAndValues))
	}
}

// toFields pairs up alternating keys and values. An unpaired trailing key gets an error as its value.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		var key string
		if stringer, ok := keysAndValues[i].(fmt.Stringer); ok {
			key = stringer.String()
		} else {
			key = fmt.Sprint(keysAndValues[i])
		}
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
		}
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) { imp.log(DEBUG, args) }

func (imp *impl) Debugf(template string, args ...interface{}) { imp.logf(DEBUG, template, args) }

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) { imp.logw(DEBUG, msg, keysAndValues) }

func (imp *impl) Info(args ...interface{}) { imp.log(INFO, args) }

func (imp *impl) Infof(template string, args ...interface{}) { imp.logf(INFO, template, args) }

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) { imp.logw(INFO, msg, keysAndValues) }

func (imp *impl) Warn(args ...interface{}) { imp.log(WARN, args) }

func (imp *impl) Warnf(template string, args ...interface{}) { imp.logf(WARN, template, args) }

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) { imp.logw(WARN, msg, keysAndValues) }

func (imp *impl) Error(args ...interface{}) { imp.log(ERROR, args) }

func (imp *impl) Errorf(template string, args ...interface{}) { imp.logf(ERROR, template, args) }

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) { imp.logw(ERROR, msg, keysAndValues) }

// callerAt returns the caller skip frames above callerAt itself, e.g. "logging/logging_test.go:52".
func callerAt(skip int) zapcore.EntryCaller {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return zapcore.EntryCaller{}
	}
	caller := zapcore.EntryCaller{Defined: true, PC: pc, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}
