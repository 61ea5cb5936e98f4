package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

const projectName = "eote"

var (
	once sync.Once
	base *logrus.Logger
)

func root() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		base.SetLevel(logrus.InfoLevel)
	})
	return base
}

// GetProjectLogger returns the logger shared by the whole program.
func GetProjectLogger() *logrus.Entry {
	return root().WithField("name", projectName)
}

// SetLevel parses a logrus level name such as "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if nil != err {
		return err
	}
	root().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, for instance away from a raw terminal.
func SetOutput(w io.Writer) {
	root().SetOutput(w)
}
