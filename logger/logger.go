package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  *logrus.Logger
	WarnLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// InitLoggers sets up the level-split loggers. Each one writes to its own
// rotating file under logs/ and mirrors to stdout/stderr.
func InitLoggers() {
	InfoLogger = newLogger("logs/info.log", logrus.InfoLevel, os.Stdout)
	WarnLogger = newLogger("logs/warn.log", logrus.WarnLevel, os.Stdout)
	ErrorLogger = newLogger("logs/error.log", logrus.ErrorLevel, os.Stderr)
}

func newLogger(filename string, level logrus.Level, console io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetOutput(io.MultiWriter(console, &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}))
	return l
}
