package types

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log levels
const (
	LogDebug = "DEBUG"
	LogInfo  = "INFO"
	LogWarn  = "WARN"
	LogError = "ERROR"
)

const (
	// Rotation limits for the console log file.
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// NewLogger builds the console logger. An empty file logs to stderr, otherwise
// output goes to a rotated log file.
func NewLogger(level, file string) (*logrus.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000",
	})

	if file == "" {
		logger.SetOutput(os.Stderr)
		return logger, nil
	}

	logger.SetOutput(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	})
	return logger, nil
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a logrus level.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToUpper(level) {
	case LogDebug:
		return logrus.DebugLevel, nil
	case LogInfo, "":
		return logrus.InfoLevel, nil
	case LogWarn, "WARNING":
		return logrus.WarnLevel, nil
	case LogError:
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// DiscardLogger returns a logger that drops everything. Used by tests.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
