package muxhandlers

import (
	"errors"
	"fmt"

	"github.com/vitalvas/switchyard/mux"
)

// ErrInvalidFrameOption is returned when SecurityHeadersConfig.FrameOption is
// not "DENY", "SAMEORIGIN" or empty.
var ErrInvalidFrameOption = errors.New("security headers: frame option must be DENY, SAMEORIGIN, or empty")

// SecurityHeadersConfig configures the security headers filter.
type SecurityHeadersConfig struct {
	// DisableContentTypeNosniff disables X-Content-Type-Options: nosniff.
	DisableContentTypeNosniff bool

	// FrameOption is the X-Frame-Options value. Defaults to "DENY".
	FrameOption string

	// ReferrerPolicy defaults to "strict-origin-when-cross-origin".
	ReferrerPolicy string

	// HSTSMaxAge enables Strict-Transport-Security when greater than zero.
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool
	HSTSPreload           bool

	// Optional policies, not sent when empty.
	CrossOriginOpenerPolicy string
	ContentSecurityPolicy   string
	PermissionsPolicy       string
}

// SecurityHeadersFilter returns a before filter setting common security
// response headers. Register it for every routing type so not-found and
// exception responses carry them too.
func SecurityHeadersFilter(cfg SecurityHeadersConfig) (mux.Handler, error) {
	switch cfg.FrameOption {
	case "":
		cfg.FrameOption = "DENY"
	case "DENY", "SAMEORIGIN":
	default:
		return nil, ErrInvalidFrameOption
	}

	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	}

	headers := map[string]string{
		"X-Frame-Options": cfg.FrameOption,
		"Referrer-Policy": cfg.ReferrerPolicy,
	}
	if !cfg.DisableContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	if cfg.HSTSMaxAge > 0 {
		v := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			v += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			v += "; preload"
		}
		headers["Strict-Transport-Security"] = v
	}
	for name, v := range map[string]string{
		"Cross-Origin-Opener-Policy": cfg.CrossOriginOpenerPolicy,
		"Content-Security-Policy":    cfg.ContentSecurityPolicy,
		"Permissions-Policy":         cfg.PermissionsPolicy,
	} {
		if v != "" {
			headers[name] = v
		}
	}

	return func(c *mux.Context) error {
		for name, v := range headers {
			if err := c.SetHeader(name, v); err != nil {
				return fmt.Errorf("security headers: %s: %w", name, err)
			}
		}
		return nil
	}, nil
}
