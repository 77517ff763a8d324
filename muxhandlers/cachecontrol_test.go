package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/switchyard/mux"
)

func TestCacheControlFilter(t *testing.T) {
	cfg := CacheControlConfig{
		Rules: []CacheControlRule{
			{ContentType: "Image/", Seconds: 86400, CDNSeconds: 604800},
			{ContentType: "application/json", Seconds: 60, Private: true},
			{ContentType: "text/html", Seconds: 0},
		},
	}

	tests := []struct {
		name        string
		cfg         CacheControlConfig
		contentType string
		preset      string
		want        string
	}{
		{name: "prefix rule", cfg: cfg, contentType: "image/png", want: "public, max-age=86400, s-maxage=604800"},
		{name: "private rule", cfg: cfg, contentType: "application/json; charset=utf-8", want: "private, max-age=60"},
		{name: "no cache rule", cfg: cfg, contentType: "text/html; charset=utf-8", want: "no-cache, no-store, max-age=0, must-revalidate, proxy-revalidate"},
		{name: "no match", cfg: cfg, contentType: "text/css", want: ""},
		{name: "handler value kept", cfg: cfg, contentType: "image/png", preset: "no-transform", want: "no-transform"},
		{
			name:        "default rule",
			cfg:         CacheControlConfig{Rules: cfg.Rules, Default: &CacheControlRule{Seconds: 10}},
			contentType: "text/css",
			want:        "public, max-age=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CacheControlFilter(tt.cfg)
			require.NoError(t, err)

			r := newRouter(t)
			require.NoError(t, r.After("/*{path}", f))
			require.NoError(t, r.GET("/").Handle(func(c *mux.Context) error {
				if tt.preset != "" {
					c.Header().Set("Cache-Control", tt.preset)
				}
				c.SendBytes([]byte("x"), tt.contentType)
				return nil
			}))

			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, w.Header().Get("Cache-Control"))
			if tt.want != "" && tt.preset == "" {
				assert.NotEmpty(t, w.Header().Get("Expires"))
			}
		})
	}
}

func TestCacheControlFilterNoRules(t *testing.T) {
	_, err := CacheControlFilter(CacheControlConfig{})
	assert.ErrorIs(t, err, ErrNoCacheControlRules)
}

func TestCacheControlFilterNotFound(t *testing.T) {
	f, err := CacheControlFilter(CacheControlConfig{
		Rules: []CacheControlRule{{ContentType: "text/plain", Seconds: 0}},
	})
	require.NoError(t, err)

	r := newRouter(t)
	require.NoError(t, r.After("/*{path}", f, mux.RoutingNotFound))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}
