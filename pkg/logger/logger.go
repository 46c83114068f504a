// Package logger wraps logrus with the JSON configuration used by every
// BidKeeper binary.
package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a configured logrus logger.
type Logger struct {
	*logrus.Logger
}

// ContextKey is the type for context values carried for logging.
type ContextKey string

// RequestIDKey carries the per-request correlation id.
const RequestIDKey ContextKey = "request_id"

// New builds a JSON structured logger at the given level.
// Unparseable levels fall back to info.
func New(level string) *Logger {
	log := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetOutput(os.Stdout)

	return &Logger{Logger: log}
}

// WithContext returns an entry annotated with the request id from ctx,
// when present.
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithContext(ctx)
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}
	return entry
}
