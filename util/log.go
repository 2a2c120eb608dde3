package util


import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)


type LogLevel uint8


const (
	LOG_SILENT LogLevel = 0
	LOG_FATAL  LogLevel = 1
	LOG_ERROR  LogLevel = 2
	LOG_WARN   LogLevel = 3
	LOG_INFO   LogLevel = 4
	LOG_DEBUG  LogLevel = 5
	LOG_TRACE  LogLevel = 6
)


type Logger interface {
	// Log a message with a printf format for different log levels.
	// Fatalf does not terminate the process.
	//
	Fatalf(string, ...interface{})
	Errorf(string, ...interface{})
	Warnf(string, ...interface{})
	Infof(string, ...interface{})
	Debugf(string, ...interface{})
	Tracef(string, ...interface{})

	// Return a new logger with the given `name` appended to this logger
	// current name.
	//
	Extend(string) Logger
}


var globalLogger Logger = &noLogger{}


func SetLogger(logger Logger) {
	globalLogger = logger
}

func Errorf(format string, args ...interface{}) {
	globalLogger.Errorf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	globalLogger.Warnf(format, args...)
}

func Infof(format string, args ...interface{}) {
	globalLogger.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	globalLogger.Debugf(format, args...)
}

func ExtendLogger(name string) Logger {
	return globalLogger.Extend(name)
}

func ParseLogLevel(name string) (LogLevel, error) {
	var levels = map[string]LogLevel{
		"silent": LOG_SILENT,
		"fatal": LOG_FATAL,
		"error": LOG_ERROR,
		"warning": LOG_WARN,
		"info": LOG_INFO,
		"debug": LOG_DEBUG,
		"trace": LOG_TRACE,
	}
	var lowName, key string
	var level LogLevel

	lowName = strings.ToLower(name)
	if len(lowName) == 0 {
		return LOG_SILENT, fmt.Errorf("invalid log level name '%s'",
			name)
	}

	for key, level = range levels {
		if strings.HasPrefix(key, lowName) {
			return level, nil
		}
	}

	return LOG_SILENT, fmt.Errorf("unknown log level '%s'", name)
}


type noLogger struct {
}

func (this *noLogger) Fatalf(string, ...interface{}) {}
func (this *noLogger) Errorf(string, ...interface{}) {}
func (this *noLogger) Warnf(string, ...interface{}) {}
func (this *noLogger) Infof(string, ...interface{}) {}
func (this *noLogger) Debugf(string, ...interface{}) {}
func (this *noLogger) Tracef(string, ...interface{}) {}
func (this *noLogger) Extend(string) Logger { return this }


type zapLogger struct {
	inner  *zap.SugaredLogger
	trace  bool
}

// Wrap an existing zap logger. Trace messages are emitted at debug level
// when `trace` is set and dropped otherwise.
//
func NewZapLogger(base *zap.Logger, trace bool) Logger {
	return &zapLogger{ base.Sugar(), trace }
}

func NewConsoleLogger(stream io.Writer, name string, level LogLevel) Logger {
	var config zapcore.EncoderConfig
	var core zapcore.Core

	if level == LOG_SILENT {
		return &zapLogger{ zap.NewNop().Sugar(), false }
	}

	config = zap.NewDevelopmentEncoderConfig()
	config.EncodeTime = zapcore.TimeEncoderOfLayout(
		"2006-01-02 15:04:05.000")

	core = zapcore.NewCore(zapcore.NewConsoleEncoder(config),
		zapcore.AddSync(stream), zapLevel(level))

	return &zapLogger{
		inner: zap.New(core).Named(name).Sugar(),
		trace: level >= LOG_TRACE,
	}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LOG_FATAL: return zapcore.DPanicLevel
	case LOG_ERROR: return zapcore.ErrorLevel
	case LOG_WARN: return zapcore.WarnLevel
	case LOG_INFO: return zapcore.InfoLevel
	default: return zapcore.DebugLevel
	}
}

func (this *zapLogger) Fatalf(format string, args ...interface{}) {
	this.inner.DPanicf(format, args...)
}

func (this *zapLogger) Errorf(format string, args ...interface{}) {
	this.inner.Errorf(format, args...)
}

func (this *zapLogger) Warnf(format string, args ...interface{}) {
	this.inner.Warnf(format, args...)
}

func (this *zapLogger) Infof(format string, args ...interface{}) {
	this.inner.Infof(format, args...)
}

func (this *zapLogger) Debugf(format string, args ...interface{}) {
	this.inner.Debugf(format, args...)
}

func (this *zapLogger) Tracef(format string, args ...interface{}) {
	if this.trace {
		this.inner.Debugf(format, args...)
	}
}

func (this *zapLogger) Extend(name string) Logger {
	return &zapLogger{ this.inner.Named(name), this.trace }
}
