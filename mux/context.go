package mux

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

// ctxKey stores the *Context of the request being routed.
var ctxKey = routeContextKey{}

// Context carries one request through the routing pipeline. It is created
// per request and must not be used after the pipeline returns.
type Context struct {
	router   *Router
	request  *http.Request
	original *http.Request
	res      *responseBuffer
	routing  *RoutingState
	cache    *CacheHeaders

	bodyOnce sync.Once
	body     []byte
	bodyErr  error

	vars map[string]any
}

func newContext(r *Router, w http.ResponseWriter, req *http.Request) *Context {
	c := &Context{
		router:  r,
		res:     newResponseBuffer(w),
		routing: &RoutingState{},
	}
	c.request = req.WithContext(context.WithValue(req.Context(), ctxKey, c))
	c.original = c.request
	return c
}

// FromRequest returns the routing context of a request handled by a
// Router, for code that only has the *http.Request.
func FromRequest(r *http.Request) (*Context, bool) {
	c, ok := r.Context().Value(ctxKey).(*Context)
	return c, ok
}

// Vars returns the path parameters of the handler currently running for r.
func Vars(r *http.Request) map[string]string {
	if c, ok := FromRequest(r); ok {
		return c.Params()
	}
	return nil
}

// Request returns the request as seen by the current routing. After a
// forward its URL is the forward target.
func (c *Context) Request() *http.Request { return c.request }

// Context returns the request context.
func (c *Context) Context() context.Context { return c.request.Context() }

// Method returns the request method.
func (c *Context) Method() string { return c.request.Method }

// Path returns the URL path of the current routing.
func (c *Context) Path() string { return c.request.URL.Path }

// FullURL returns the absolute URL of the current routing.
func (c *Context) FullURL() string { return absoluteURL(c.request) }

// OriginalFullURL returns the absolute URL as received, before any forward.
func (c *Context) OriginalFullURL() string { return absoluteURL(c.original) }

func absoluteURL(req *http.Request) string {
	u := *req.URL
	if u.Scheme == "" {
		u.Scheme = "http"
		if req.TLS != nil {
			u.Scheme = "https"
		}
	}
	if u.Host == "" {
		u.Host = req.Host
	}
	return u.String()
}

// Routing returns the routing state of the request.
func (c *Context) Routing() *RoutingState { return c.routing }

// Param returns a path parameter of the handler currently running.
func (c *Context) Param(name string) string {
	if m := c.routing.CurrentMatch(); m != nil {
		return m.Params[name]
	}
	return ""
}

// Params returns a copy of the path parameters of the handler currently
// running.
func (c *Context) Params() map[string]string {
	m := c.routing.CurrentMatch()
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m.Params))
	for k, v := range m.Params {
		out[k] = v
	}
	return out
}

// QueryParam returns the first value of a query parameter.
func (c *Context) QueryParam(name string) string {
	return c.request.URL.Query().Get(name)
}

// QueryParams returns all query parameters.
func (c *Context) QueryParams() url.Values {
	return c.request.URL.Query()
}

// RawQuery returns the query string as received, still percent-encoded.
func (c *Context) RawQuery() string {
	return c.request.URL.RawQuery
}

// EncodedQuery returns the query re-encoded in canonical form, sorted by
// key.
func (c *Context) EncodedQuery() string {
	return c.request.URL.Query().Encode()
}

// RequestHeader returns the first value of a request header.
func (c *Context) RequestHeader(name string) string {
	return c.request.Header.Get(name)
}

// RequestHeaders returns a copy of the request headers. Changing it does
// not affect the request.
func (c *Context) RequestHeaders() http.Header {
	return c.request.Header.Clone()
}

// Cookie returns the named request cookie or http.ErrNoCookie.
func (c *Context) Cookie(name string) (*http.Cookie, error) {
	return c.request.Cookie(name)
}

// Cookies returns the request cookies.
func (c *Context) Cookies() []*http.Cookie {
	return c.request.Cookies()
}

// Set stores a request scoped value.
func (c *Context) Set(key string, value any) {
	if c.vars == nil {
		c.vars = make(map[string]any)
	}
	c.vars[key] = value
}

// Get returns a request scoped value.
func (c *Context) Get(key string) any {
	return c.vars[key]
}

// forwardTo points the request at target, keeping the original request for
// OriginalFullURL.
func (c *Context) forwardTo(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return err
	}

	req := c.request.Clone(c.request.Context())
	req.URL.Path = cleanPath(u.Path)
	req.URL.RawPath = ""
	if u.RawQuery != "" || strings.Contains(target, "?") {
		req.URL.RawQuery = u.RawQuery
	}
	req.RequestURI = req.URL.RequestURI()
	c.request = req
	return nil
}

// RoutingState exposes where a request is in the routing pipeline.
type RoutingState struct {
	typ      RoutingType
	result   *RoutingResult
	original *RoutingResult
	index    int
	forwards int
	err      error
	message  string
}

// Type returns the current routing type.
func (s *RoutingState) Type() RoutingType { return s.typ }

// IsNotFoundRoute reports whether the request is in not-found routing.
func (s *RoutingState) IsNotFoundRoute() bool { return s.typ == RoutingNotFound }

// IsExceptionRoute reports whether the request is in exception routing.
func (s *RoutingState) IsExceptionRoute() bool { return s.typ == RoutingException }

// IsForwarded reports whether the request has been forwarded.
func (s *RoutingState) IsForwarded() bool { return s.forwards > 0 }

// ForwardCount returns how many times the request has been forwarded.
func (s *RoutingState) ForwardCount() int { return s.forwards }

// Result returns the routing result being executed.
func (s *RoutingState) Result() *RoutingResult { return s.result }

// OriginalResult returns the regular routing result that was running when
// the request switched to not-found or exception routing.
func (s *RoutingState) OriginalResult() *RoutingResult { return s.original }

// Index returns the position of the running handler in Result().Matches.
func (s *RoutingState) Index() int { return s.index }

// CurrentMatch returns the handler match currently running.
func (s *RoutingState) CurrentMatch() *RouteHandlerMatch {
	if s.result == nil || s.index < 0 || s.index >= len(s.result.Matches) {
		return nil
	}
	return s.result.Matches[s.index]
}

// Err returns the application error that started exception routing.
func (s *RoutingState) Err() error { return s.err }

// NotFoundMessage returns the message given to NotFound, if any.
func (s *RoutingState) NotFoundMessage() string { return s.message }

func (s *RoutingState) enter(typ RoutingType, result *RoutingResult) {
	s.typ = typ
	s.result = result
	s.index = 0
}

func (s *RoutingState) keepOriginal() {
	if s.original == nil && s.typ == RoutingFound {
		s.original = s.result
	}
}
