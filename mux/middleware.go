package mux

import (
	"net/http"
	"strings"
)

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler. Middleware registered with Router.Use wraps the
// whole routing pipeline.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to implement the middleware interface.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}

// CORSMethodFilter returns a before filter that sets the
// Access-Control-Allow-Methods response header (Fetch Standard, CORS
// protocol) to the methods registered for the requested path.
func CORSMethodFilter(r *Router) Handler {
	return func(c *Context) error {
		if methods := r.AllowedMethods(c.Path()); len(methods) > 0 {
			c.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
		}
		return nil
	}
}

// HTTPHandler adapts an http.Handler to a route handler. What h writes goes
// to the buffered response.
func HTTPHandler(h http.Handler) Handler {
	return func(c *Context) error {
		h.ServeHTTP(&bufferWriter{c: c}, c.Request())
		return nil
	}
}

// bufferWriter is the http.ResponseWriter given to adapted handlers.
type bufferWriter struct {
	c *Context
}

func (w *bufferWriter) Header() http.Header {
	return w.c.res.header
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	return w.c.res.body.Write(p)
}

func (w *bufferWriter) WriteHeader(code int) {
	w.c.res.setStatus(code)
}
