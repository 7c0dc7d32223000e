package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Default *logrus.Logger

type Logger = logrus.Logger

func init() {
	Default = logrus.New()
	Default.SetOutput(os.Stdout)
	Default.SetLevel(logrus.InfoLevel)
}

// SetFile mirrors log output into a rotated file next to stdout.
func SetFile(path string) {
	output := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 4,
		MaxAge:     7, // days
		LocalTime:  true,
	}
	Default.SetOutput(io.MultiWriter(os.Stdout, output))
}

func SetLevel(lvstr string) {
	lv, err := logrus.ParseLevel(lvstr)
	if err != nil {
		Default.Error(err)
	} else {
		Default.SetLevel(lv)
	}
}

// WithField returns an entry tagged with one structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return Default.WithField(key, value)
}

// WithFields returns an entry tagged with structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Default.WithFields(fields)
}

// Debugf logs a message at level Debug on the standard logger.
func Debugf(format string, args ...interface{}) {
	Default.Debugf(format, args...)
}

// Infof logs a message at level Info on the standard logger.
func Infof(format string, args ...interface{}) {
	Default.Infof(format, args...)
}

// Warnf logs a message at level Warn on the standard logger.
func Warnf(format string, args ...interface{}) {
	Default.Warnf(format, args...)
}

// Errorf logs a message at level Error on the standard logger.
func Errorf(format string, args ...interface{}) {
	Default.Errorf(format, args...)
}

// Fatalf logs a message at level Fatal on the standard logger then the process will exit with status set to 1.
func Fatalf(format string, args ...interface{}) {
	Default.Fatalf(format, args...)
}

// Debug logs a message at level Debug on the standard logger.
func Debug(args ...interface{}) {
	Default.Debug(args...)
}

// Info logs a message at level Info on the standard logger.
func Info(args ...interface{}) {
	Default.Info(args...)
}

// Warn logs a message at level Warn on the standard logger.
func Warn(args ...interface{}) {
	Default.Warn(args...)
}

// Error logs a message at level Error on the standard logger.
func Error(args ...interface{}) {
	Default.Error(args...)
}
