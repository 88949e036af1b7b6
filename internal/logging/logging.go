package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New configures the standard logrus logger used across the service.
func New(level, format string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
