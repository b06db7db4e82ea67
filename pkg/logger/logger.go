package logger

import (
	"log"
)

// Severity thresholds. A logger emits records at or above its level;
// SILENCE turns it off entirely, which the test harness relies on.
const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

// Logger is the printf-style surface the rest of the service logs
// through, usually reached with xcontext.Logger(ctx).
type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
}

func NewLogger(level int) *defaultLogger {
	return &defaultLogger{level: level}
}

func (l *defaultLogger) logf(level int, tag, msg string, a ...any) {
	if l.level <= level {
		log.Printf(tag+" "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.logf(DEBUG, "[DEBUG]", msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.logf(INFO, "[INFO]", msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.logf(WARNING, "[WARN]", msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.logf(ERROR, "[ERROR]", msg, a...)
}
