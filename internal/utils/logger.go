package utils

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the service-wide logger. Calls take loosely typed values the
// same way fmt.Println does.
type Logger struct {
	sugar *zap.SugaredLogger
}

func NewLogger(debug bool, writers ...io.Writer) *Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	var sink zapcore.WriteSyncer = zapcore.AddSync(os.Stdout)
	if len(writers) > 0 {
		syncers := make([]zapcore.WriteSyncer, 0, len(writers))
		for _, w := range writers {
			syncers = append(syncers, zapcore.AddSync(w))
		}
		sink = zapcore.NewMultiWriteSyncer(syncers...)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)

	return FromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
}

// FromZap wraps an existing zap logger. Tests use it with zaptest/observer.
func FromZap(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{sugar: l.Sugar()}
}

// NopLogger discards everything.
func NopLogger() *Logger {
	return FromZap(zap.NewNop())
}

func (l *Logger) Debug(v ...interface{}) {
	l.sugar.Debugln(v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.sugar.Infoln(v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.sugar.Warnln(v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.sugar.Errorln(v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.sugar.Fatalln(v...)
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
