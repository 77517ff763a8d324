package httpcache

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withNow(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func TestNoCache(t *testing.T) {
	h := http.Header{}
	NoCache(h)

	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate, proxy-revalidate", h.Get("Cache-Control"))
	assert.Equal(t, "no-cache", h.Get("Pragma"))

	expires, err := http.ParseTime(h.Get("Expires"))
	assert.NoError(t, err)
	assert.True(t, expires.Before(time.Now()))
}

func TestCache(t *testing.T) {
	fixed := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		seconds     int
		private     bool
		cdn         []int
		wantCC      string
		wantPragma  string
		wantExpires string
	}{
		{
			name:        "public",
			seconds:     60,
			wantCC:      "public, max-age=60",
			wantExpires: "Mon, 01 Jan 2024 00:01:00 GMT",
		},
		{
			name:        "private",
			seconds:     3600,
			private:     true,
			wantCC:      "private, max-age=3600",
			wantExpires: "Mon, 01 Jan 2024 01:00:00 GMT",
		},
		{
			name:        "with cdn seconds",
			seconds:     60,
			cdn:         []int{600},
			wantCC:      "public, max-age=60, s-maxage=600",
			wantExpires: "Mon, 01 Jan 2024 00:01:00 GMT",
		},
		{
			name:        "negative cdn seconds ignored",
			seconds:     60,
			cdn:         []int{-1},
			wantCC:      "public, max-age=60",
			wantExpires: "Mon, 01 Jan 2024 00:01:00 GMT",
		},
		{
			name:        "zero is no-cache",
			seconds:     0,
			wantCC:      noCacheValue,
			wantPragma:  "no-cache",
			wantExpires: pastDate,
		},
		{
			name:        "negative is no-cache",
			seconds:     -5,
			private:     true,
			wantCC:      noCacheValue,
			wantPragma:  "no-cache",
			wantExpires: pastDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withNow(t, fixed)

			h := http.Header{}
			h.Set("Pragma", "no-cache")
			Cache(h, tt.seconds, tt.private, tt.cdn...)

			assert.Equal(t, tt.wantCC, h.Get("Cache-Control"))
			assert.Equal(t, tt.wantPragma, h.Get("Pragma"))
			assert.Equal(t, tt.wantExpires, h.Get("Expires"))
		})
	}
}
