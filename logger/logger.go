package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const FileName = "autocaption.log"

type Options struct {
	Dir    string
	Level  string
	Format string
	// Console receives a copy of every entry. Defaults to stdout.
	Console io.Writer
}

// Setup configures the standard logrus logger to write to the console and
// a rotated file under opts.Dir. The returned closer flushes the file.
func Setup(opts Options) (io.Closer, error) {
	if err := os.MkdirAll(opts.Dir, os.ModePerm); err != nil {
		return nil, err
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	logrus.SetOutput(io.MultiWriter(console, logFile))

	if strings.EqualFold(opts.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logrus.WithField("level", opts.Level).Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return logFile, nil
}
