package muxhandlers

import (
	"errors"
	"net/http"

	"github.com/vitalvas/switchyard/mux"
)

// ErrInvalidMaxSize is returned when RequestSizeLimitConfig.MaxBytes is not
// greater than zero.
var ErrInvalidMaxSize = errors.New("request size limit: max size must be greater than zero")

// RequestSizeLimitConfig configures the request size limit filter.
type RequestSizeLimitConfig struct {
	// MaxBytes is the maximum request body size. Must be greater than zero.
	MaxBytes int64
}

// RequestSizeLimitFilter returns a before filter rejecting bodies larger
// than MaxBytes with a 413 public error. The body is read through
// http.MaxBytesReader and cached by the Context, so handlers get it from
// Context.Body.
//
// It returns ErrInvalidMaxSize if MaxBytes is not greater than zero.
func RequestSizeLimitFilter(cfg RequestSizeLimitConfig) (mux.Handler, error) {
	if cfg.MaxBytes <= 0 {
		return nil, ErrInvalidMaxSize
	}

	maxBytes := cfg.MaxBytes

	return func(c *mux.Context) error {
		req := c.Request()
		if req.ContentLength > maxBytes {
			return tooLarge(nil)
		}
		if req.Body == nil || req.Body == http.NoBody {
			return nil
		}

		req.Body = http.MaxBytesReader(nil, req.Body, maxBytes)
		if _, err := c.Body(); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return tooLarge(err)
			}
			return err
		}
		return nil
	}, nil
}

func tooLarge(err error) error {
	return mux.WrapPublic(err, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
}
