// Package sentryutil wraps sentry-go. With an empty DSN every call is a
// no-op, so callers never check whether reporting is enabled.
package sentryutil

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

type Options struct {
	DSN         string
	Environment string
	Release     string
	Debug       bool
}

func Init(opts Options) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		Debug:       opts.Debug,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		logger.Warn("Sentry init failed, error tracking disabled", "error", err)
		return
	}
	if opts.DSN == "" {
		logger.Debug("SENTRY_DSN empty, error tracking disabled")
	} else {
		logger.Info("Sentry initialized", "environment", opts.Environment)
	}
}

func Flush() { sentry.Flush(2 * time.Second) }

func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value at fatal level.
func CapturePanic(recovered any, tags map[string]string) {
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.Recover(recovered)
	})
}
