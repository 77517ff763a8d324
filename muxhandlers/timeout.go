package muxhandlers

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vitalvas/switchyard/mux"
)

// ErrInvalidTimeout is returned when TimeoutConfig.Duration is not greater
// than zero.
var ErrInvalidTimeout = errors.New("timeout: duration must be greater than zero")

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	// Duration bounds the whole routing pipeline of a request, forwards
	// and not-found or exception routing included. Must be greater than zero.
	Duration time.Duration

	// Message is the 503 response body. When empty, the standard library
	// default is used.
	Message string

	// Logger receives a warning for every request that timed out. Nil
	// disables it.
	Logger logrus.FieldLogger
}

// TimeoutMiddleware returns a middleware for Router.Use that answers 503
// Service Unavailable when the routing pipeline does not finish within
// Duration. The request context is cancelled at the deadline, so handlers
// blocking on it return early. Whatever the pipeline buffered is discarded.
//
// It returns ErrInvalidTimeout if Duration is not greater than zero.
func TimeoutMiddleware(cfg TimeoutConfig) (mux.MiddlewareFunc, error) {
	if cfg.Duration <= 0 {
		return nil, ErrInvalidTimeout
	}

	duration := cfg.Duration
	message := cfg.Message
	logger := cfg.Logger

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var inTime atomic.Bool
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r)
				inTime.Store(r.Context().Err() == nil)
			})

			http.TimeoutHandler(inner, duration, message).ServeHTTP(w, r)

			if !inTime.Load() && logger != nil {
				logger.WithFields(logrus.Fields{
					"method":  r.Method,
					"path":    r.URL.Path,
					"timeout": duration.String(),
				}).Warn("muxhandlers: request timed out")
			}
		})
	}, nil
}
