package mux

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectRule(t *testing.T) {
	t.Run("temporary by default", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.Redirect("/old").To("/new"))

		w := serve(r, http.MethodGet, "/old")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/new", w.Header().Get("Location"))
	})

	t.Run("interpolates parameters", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.Redirect("/blog/${year:int}/*{slug}").Permanently().To("/articles/*{slug}?year=${year}"))

		w := serve(r, http.MethodPost, "/blog/2024/go/routing")
		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "/articles/go/routing?year=2024", w.Header().Get("Location"))
	})

	t.Run("status setters", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.Redirect("/a").Permanently().Temporarily().To("/x"))
		require.NoError(t, r.Redirect("/b").WithStatus(http.StatusPermanentRedirect).To("/x"))
		require.NoError(t, r.Redirect("/c").WithStatus(http.StatusOK).To("/x"))

		assert.Equal(t, http.StatusFound, serve(r, http.MethodGet, "/a").Code)
		assert.Equal(t, http.StatusPermanentRedirect, serve(r, http.MethodGet, "/b").Code)
		assert.Equal(t, http.StatusFound, serve(r, http.MethodGet, "/c").Code)
	})

	t.Run("id allows removal", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.Redirect("/old").ID("legacy").To("/new"))
		assert.Equal(t, 1, r.RemoveRoute("legacy"))
		assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/old").Code)
	})

	errTests := []struct {
		name   string
		path   string
		target string
	}{
		{name: "empty target", path: "/old", target: ""},
		{name: "unknown placeholder", path: "/old/${id}", target: "/new/${slug}"},
		{name: "invalid source", path: "/old/${id", target: "/new"},
		{name: "unbalanced target", path: "/old/${id}", target: "/new/${id"},
	}

	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t)
			assert.Error(t, r.Redirect(tt.path).To(tt.target))
			assert.Empty(t, r.Routes())
		})
	}
}
