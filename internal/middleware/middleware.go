package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	sentryutil "github.com/pavelc4/gofile-relay-bot/internal/sentry"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

// SlowThreshold is the duration above which a handler is logged at info.
const SlowThreshold = 100 * time.Millisecond

func Recover(name string) func(func()) func() {
	return func(next func()) func() {
		return func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Panic recovered", "handler", name, "error", r, "stack", string(debug.Stack()))
					sentryutil.CapturePanic(r, map[string]string{"handler": name})
				}
			}()
			next()
		}
	}
}

func Logger(name string) func(func()) func() {
	return func(next func()) func() {
		return func() {
			start := time.Now()

			defer func() {
				duration := time.Since(start)
				if duration > SlowThreshold {
					logger.Info("Handler completed (slow)", "name", name, "duration", duration)
				} else {
					logger.Debug("Handler completed", "name", name, "duration", duration)
				}
			}()

			next()
		}
	}
}

func Chain(f func(), middlewares ...func(func()) func()) func() {
	for i := len(middlewares) - 1; i >= 0; i-- {
		f = middlewares[i](f)
	}
	return f
}

// Recovery is the HTTP counterpart of Recover.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered", "method", r.Method, "path", r.URL.Path, "error", fmt.Sprint(rec), "stack", string(debug.Stack()))
				sentryutil.CapturePanic(rec, map[string]string{"endpoint": r.URL.Path, "method": r.Method})
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
