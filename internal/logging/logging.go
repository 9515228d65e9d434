package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr. level is a logrus level name
// (unknown names fall back to info); format is "text" or "json".
func New(level, format string) *logrus.Logger {
	log := logrus.New()
	if strings.EqualFold(format, "json") {
		log.Formatter = &logrus.JSONFormatter{}
	} else {
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	log.Out = os.Stderr
	return log
}

// Discard returns a logger that drops everything; used when callers pass none.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

// ValidLevel reports whether level names a logrus level.
func ValidLevel(level string) bool {
	_, err := logrus.ParseLevel(level)
	return err == nil
}
