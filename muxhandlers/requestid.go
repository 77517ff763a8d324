package muxhandlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vitalvas/switchyard/mux"
)

// requestIDKey is the Context value key holding the request ID.
const requestIDKey = "muxhandlers.request_id"

// RequestID returns the request ID stored by RequestIDFilter, or an empty
// string.
func RequestID(c *mux.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// RequestIDConfig configures the request ID filter.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc returns a new unique ID. Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming reuses the ID of the incoming request header instead of
	// generating a new one.
	TrustIncoming bool
}

// RequestIDFilter returns a before filter that assigns an ID to the request
// and sets it on the response. Running again for the same request, after a
// forward or in exception routing, it reuses the first ID.
func RequestIDFilter(cfg RequestIDConfig) mux.Handler {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return func(c *mux.Context) error {
		id := RequestID(c)
		if id == "" && cfg.TrustIncoming {
			id = c.RequestHeader(headerName)
		}
		if id == "" {
			id = generate(c.Request())
		}
		if id == "" {
			return nil
		}

		c.Set(requestIDKey, id)
		c.Header().Set(headerName, id)
		return nil
	}
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new time-ordered UUID v7 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
