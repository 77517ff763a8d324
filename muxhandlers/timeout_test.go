package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/switchyard/mux"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("config validation", func(t *testing.T) {
		tests := []struct {
			name    string
			config  TimeoutConfig
			wantErr error
		}{
			{"zero duration", TimeoutConfig{Duration: 0}, ErrInvalidTimeout},
			{"negative duration", TimeoutConfig{Duration: -1 * time.Second}, ErrInvalidTimeout},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := TimeoutMiddleware(tt.config)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}

		t.Run("valid duration", func(t *testing.T) {
			_, err := TimeoutMiddleware(TimeoutConfig{Duration: time.Second})
			assert.NoError(t, err)
		})
	})

	t.Run("pipeline completes before timeout", func(t *testing.T) {
		logger, hook := logtest.NewNullLogger()
		r := newRouter(t)
		require.NoError(t, r.GET("/test").Handle(plain("ok")))

		mw, err := TimeoutMiddleware(TimeoutConfig{Duration: 2 * time.Second, Logger: logger})
		require.NoError(t, err)
		r.Use(mw)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
		assert.Empty(t, hook.AllEntries())
	})

	t.Run("not-found routing runs inside the deadline", func(t *testing.T) {
		r := newRouter(t)
		require.NoError(t, r.GET("/test").Handle(plain("ok")))

		mw, err := TimeoutMiddleware(TimeoutConfig{Duration: 2 * time.Second})
		require.NoError(t, err)
		r.Use(mw)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not found", w.Body.String())
	})

	t.Run("pipeline exceeds timeout", func(t *testing.T) {
		logger, hook := logtest.NewNullLogger()
		r := newRouter(t)
		require.NoError(t, r.GET("/slow").Handle(func(c *mux.Context) error {
			select {
			case <-time.After(5 * time.Second):
				c.SendPlainText("late")
			case <-c.Context().Done():
			}
			return nil
		}))

		mw, err := TimeoutMiddleware(TimeoutConfig{
			Duration: 50 * time.Millisecond,
			Message:  "too slow",
			Logger:   logger,
		})
		require.NoError(t, err)
		r.Use(mw)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "too slow", w.Body.String())

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "/slow", entry.Data["path"])
	})
}
