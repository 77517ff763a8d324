package muxhandlers

import (
	"errors"
	"strings"

	"github.com/vitalvas/switchyard/httpcache"
	"github.com/vitalvas/switchyard/mux"
)

// ErrNoCacheControlRules is returned when CacheControlConfig.Rules is empty.
var ErrNoCacheControlRules = errors.New("cache control: at least one rule is required")

// CacheControlRule maps a Content-Type prefix to cache directives.
type CacheControlRule struct {
	// ContentType is a case-insensitive prefix of the response Content-Type
	// (e.g. "image/", "application/json").
	ContentType string

	// Seconds is the client cache lifetime. Zero or less forbids caching.
	Seconds int

	// Private restricts caching to the client.
	Private bool

	// CDNSeconds sets s-maxage when greater than zero.
	CDNSeconds int
}

// CacheControlConfig configures the cache control filter.
type CacheControlConfig struct {
	// Rules are evaluated in order and the first match wins. Required.
	Rules []CacheControlRule

	// Default applies to responses no rule matches. When nil, those
	// responses are left alone.
	Default *CacheControlRule
}

// CacheControlFilter returns an after filter setting Cache-Control and
// Expires from the response Content-Type. Responses that already carry a
// Cache-Control header are left alone.
//
// It returns ErrNoCacheControlRules if Rules is empty.
func CacheControlFilter(cfg CacheControlConfig) (mux.Handler, error) {
	if len(cfg.Rules) == 0 {
		return nil, ErrNoCacheControlRules
	}

	rules := make([]CacheControlRule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		r.ContentType = strings.ToLower(r.ContentType)
		rules[i] = r
	}

	var fallback *CacheControlRule
	if cfg.Default != nil {
		d := *cfg.Default
		fallback = &d
	}

	return func(c *mux.Context) error {
		h := c.Header()
		if h.Get("Cache-Control") != "" {
			return nil
		}

		rule := fallback
		ct := strings.ToLower(h.Get("Content-Type"))
		for i := range rules {
			if strings.HasPrefix(ct, rules[i].ContentType) {
				rule = &rules[i]
				break
			}
		}
		if rule == nil {
			return nil
		}

		var cdn []int
		if rule.CDNSeconds > 0 {
			cdn = append(cdn, rule.CDNSeconds)
		}
		httpcache.Cache(h, rule.Seconds, rule.Private, cdn...)
		return nil
	}, nil
}
