package muxhandlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vitalvas/switchyard/mux"
)

// ErrNoAllowedTypes is returned when ContentTypeCheckConfig.AllowedTypes is
// empty.
var ErrNoAllowedTypes = errors.New("content type check: at least one allowed content type is required")

// ContentTypeCheckConfig configures the content type check filter.
type ContentTypeCheckConfig struct {
	// AllowedTypes is the set of acceptable media types. Matching is
	// case-insensitive and ignores parameters. Required.
	AllowedTypes []string

	// Methods requiring validation. Defaults to POST, PUT and PATCH.
	Methods []string
}

var defaultCheckedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
}

// ContentTypeCheckFilter returns a before filter rejecting requests whose
// Content-Type is missing or not allowed with a 415 public error.
//
// It returns ErrNoAllowedTypes if AllowedTypes is empty.
func ContentTypeCheckFilter(cfg ContentTypeCheckConfig) (mux.Handler, error) {
	if len(cfg.AllowedTypes) == 0 {
		return nil, ErrNoAllowedTypes
	}

	methods := cfg.Methods
	if methods == nil {
		methods = defaultCheckedMethods
	}

	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[strings.ToUpper(m)] = struct{}{}
	}

	allowedSet := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowedSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return func(c *mux.Context) error {
		if _, check := methodSet[c.Method()]; !check {
			return nil
		}

		mediaType, _, err := mime.ParseMediaType(c.RequestHeader("Content-Type"))
		if err != nil {
			return unsupportedMediaType(err)
		}
		if _, ok := allowedSet[strings.ToLower(mediaType)]; !ok {
			return unsupportedMediaType(nil)
		}
		return nil
	}, nil
}

func unsupportedMediaType(err error) error {
	return mux.WrapPublic(err, http.StatusUnsupportedMediaType, http.StatusText(http.StatusUnsupportedMediaType))
}
