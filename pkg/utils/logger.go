package utils

import (
	"fmt"

	"github.com/iotaledger/hive.go/logger"
)

// WrappedLogger forwards log calls to the underlying logger, if one was passed.
// Library types embed it so they can be used without a logger in tests.
type WrappedLogger struct {
	logger *logger.Logger
}

// NewWrappedLogger creates a new WrappedLogger. log may be nil.
func NewWrappedLogger(log *logger.Logger) *WrappedLogger {
	return &WrappedLogger{logger: log}
}

// Logger returns the underlying logger or nil.
func (l *WrappedLogger) Logger() *logger.Logger {
	return l.logger
}

// LogDebugf uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogDebugf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debugf(template, args...)
	}
}

// LogInfo uses fmt.Sprint to construct and log a message.
func (l *WrappedLogger) LogInfo(args ...interface{}) {
	if l.logger != nil {
		l.logger.Info(args...)
	}
}

// LogInfof uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogInfof(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Infof(template, args...)
	}
}

// LogWarnf uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogWarnf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Warnf(template, args...)
	}
}

// LogErrorf uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogErrorf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Errorf(template, args...)
	}
}

// LogPanic uses fmt.Sprint to construct and log a message, then panics.
// Without a logger it still panics.
func (l *WrappedLogger) LogPanic(args ...interface{}) {
	if l.logger != nil {
		l.logger.Panic(args...)
	}
	panic(args)
}

// LogPanicf uses fmt.Sprintf to log a templated message, then panics.
// Without a logger it still panics.
func (l *WrappedLogger) LogPanicf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Panicf(template, args...)
	}
	panic(fmt.Sprintf(template, args...))
}
