// Package log is a small leveled logging facade. The rest of the module logs
// through it so that embedders can plug in their own logger with SetLogger.
package log

import (
	"fmt"
	"log"
	"strings"
)

// Level controls which messages the default logger emits.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var level = LevelInfo

// SetLevel sets the default logger's level.
func SetLevel(l Level) {
	level = l
}

// SetVerbose is a convenience switch used by the CLI's --verbose flag.
func SetVerbose(v bool) {
	if v {
		level = LevelDebug
	} else {
		level = LevelInfo
	}
}

// ParseLogLevel converts a level name (error, warn, info, debug, trace)
// to a Level.
func ParseLogLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Logger lets embedders replace the default logging functions.
type Logger struct {
	Tracef func(format string, args ...interface{})
	Debugf func(format string, args ...interface{})
	Infof  func(format string, args ...interface{})
	Warnf  func(format string, args ...interface{}) error
	Errorf func(format string, args ...interface{}) error
}

var logger = Logger{
	Tracef: defaultTracef,
	Debugf: defaultDebugf,
	Infof:  defaultInfof,
	Warnf:  defaultWarnf,
	Errorf: defaultErrorf,
}

// SetLogger replaces the default logger. Nil fields silence that level.
func SetLogger(l Logger) {
	logger = l
}

func Tracef(format string, args ...interface{}) {
	if logger.Tracef != nil {
		logger.Tracef(format, args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if logger.Debugf != nil {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if logger.Infof != nil {
		logger.Infof(format, args...)
	}
}

func Warnf(format string, args ...interface{}) error {
	if logger.Warnf != nil {
		return logger.Warnf(format, args...)
	}
	return nil
}

func Errorf(format string, args ...interface{}) error {
	if logger.Errorf != nil {
		return logger.Errorf(format, args...)
	}
	return nil
}

var (
	defaultTracef = func(format string, args ...interface{}) {
		if level >= LevelTrace {
			log.Printf("[TRACE] "+format, args...)
		}
	}

	defaultDebugf = func(format string, args ...interface{}) {
		if level >= LevelDebug {
			log.Printf("[DEBUG] "+format, args...)
		}
	}

	defaultInfof = func(format string, args ...interface{}) {
		if level >= LevelInfo {
			log.Printf("[INFO] "+format, args...)
		}
	}

	defaultWarnf = func(format string, args ...interface{}) error {
		if level >= LevelWarn {
			log.Printf("[WARN] "+format, args...)
		}
		return nil
	}

	defaultErrorf = func(format string, args ...interface{}) error {
		log.Printf("[ERROR] "+format, args...)
		return nil
	}
)
