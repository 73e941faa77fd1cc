// Package logger configures the process-wide structured logger and error
// reporting.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// Options controls logger setup.
type Options struct {
	Env       string // APP_ENV
	Level     string // LOG_LEVEL
	Format    string // LOG_FORMAT: "json" or "text"
	SentryDSN string
}

// New builds a logger. Production and an explicit json format log JSON;
// everything else logs text. An unparseable level falls back to info in
// production and debug elsewhere.
func New(opts Options) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stdout

	if opts.Env == "production" || strings.EqualFold(opts.Format, "json") {
		l.Formatter = &logrus.JSONFormatter{}
	} else {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.DebugLevel
		if opts.Env == "production" {
			level = logrus.InfoLevel
		}
	}
	l.Level = level

	return l
}

// Setup configures the standard logrus logger and, when a DSN is given,
// the Sentry client. It returns the configured logger.
func Setup(opts Options) (*logrus.Logger, error) {
	l := New(opts)

	std := logrus.StandardLogger()
	std.Out = l.Out
	std.Formatter = l.Formatter
	std.Level = l.Level

	if opts.SentryDSN == "" {
		return l, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.SentryDSN,
		Environment: opts.Env,
	})
	if err != nil {
		return l, err
	}
	return l, nil
}

// Flush waits for buffered Sentry events to be delivered.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// CaptureError logs err with its context and reports it to Sentry.
func CaptureError(log logrus.FieldLogger, errorType string, err error, fields map[string]interface{}) {
	entry := log.WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	})
	for k, v := range fields {
		entry = entry.WithField(k, v)
	}
	entry.Error("error occurred")

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range fields {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Event logs a structured event and records it as a Sentry breadcrumb.
func Event(log logrus.FieldLogger, eventType string, data map[string]interface{}) {
	entry := log.WithField("event_type", eventType)
	for k, v := range data {
		entry = entry.WithField(k, v)
	}
	entry.Info("event occurred")

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}
