package mux

import (
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/vitalvas/switchyard/cachebuster"
	"github.com/vitalvas/switchyard/websocket"
)

// DefaultMaxForwards is the forward limit of a new Router.
const DefaultMaxForwards = 10

// Router registers routes and filters and runs each request through the
// routing pipeline.
//
// It implements the http.Handler interface, so it can be registered to serve
// requests:
//
//	r := mux.NewRouter()
//	r.GET("/users/${id:int}").Handle(userHandler)
//	http.ListenAndServe(":8080", r)
type Router struct {
	table *routeTable

	mu          sync.RWMutex
	middlewares []MiddlewareFunc
	handler     http.Handler

	maxForwards       int
	stripCacheBusters bool
	logger            logrus.FieldLogger
	dict              Dictionary
	metrics           *Metrics
	tracer            trace.Tracer
	sockets           *websocket.Registry
}

// NewRouter returns a new router instance.
func NewRouter() *Router {
	r := &Router{
		maxForwards: DefaultMaxForwards,
		logger:      logrus.StandardLogger(),
		dict:        NewMessageDictionary(language.English),
		tracer:      defaultTracer(),
		sockets:     websocket.NewRegistry(),
	}
	r.table = newRouteTable(r.defaultNotFound, r.defaultException)
	r.handler = http.HandlerFunc(r.dispatch)
	return r
}

// ServeHTTP runs the request through the middleware chain and the routing
// pipeline. Implements http.Handler per RFC 9110.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	h := r.handler
	r.mu.RUnlock()

	h.ServeHTTP(w, req)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	ctx, span := r.startSpan(req)
	defer span.End()

	c := newContext(r, w, req.WithContext(ctx))
	r.run(c, span)
	traceEnd(span, c)

	if err := c.res.flush(); err != nil {
		r.logger.WithError(err).WithField("path", c.Path()).Debug("mux: writing response failed")
	}
}

// SetMaxForwards sets how many forwards a single request may do. Going over
// the limit replies with the exception fallback.
func (r *Router) SetMaxForwards(n int) *Router {
	if n < 0 {
		n = 0
	}
	r.maxForwards = n
	return r
}

// MaxForwards returns the forward limit.
func (r *Router) MaxForwards() int {
	return r.maxForwards
}

// StripCacheBusters removes cache buster codes from request paths before
// routing.
func (r *Router) StripCacheBusters(value bool) *Router {
	r.stripCacheBusters = value
	return r
}

// SetLogger sets the logger used for handler failures. Nil restores the
// logrus standard logger.
func (r *Router) SetLogger(l logrus.FieldLogger) *Router {
	if l == nil {
		l = logrus.StandardLogger()
	}
	r.logger = l
	return r
}

// SetDictionary sets the messages of the default handlers. Nil restores
// the English defaults.
func (r *Router) SetDictionary(d Dictionary) *Router {
	if d == nil {
		d = NewMessageDictionary(language.English)
	}
	r.dict = d
	return r
}

func (r *Router) dictionary() Dictionary {
	return r.dict
}

// SetMetrics enables routing metrics.
func (r *Router) SetMetrics(m *Metrics) *Router {
	r.metrics = m
	return r
}

// SetTracerProvider enables tracing of routing with tp. Nil disables it.
func (r *Router) SetTracerProvider(tp trace.TracerProvider) *Router {
	if tp == nil {
		r.tracer = defaultTracer()
		return r
	}
	r.tracer = tp.Tracer(tracerName)
	return r
}

// WebSockets returns the registry of the router's websocket endpoints.
func (r *Router) WebSockets() *websocket.Registry {
	return r.sockets
}

// Close closes every websocket endpoint of the router.
func (r *Router) Close() error {
	return r.sockets.Close()
}

// applyMiddleware wraps the handler with all registered middleware.
func (r *Router) applyMiddleware(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i].Middleware(handler)
	}
	return handler
}

// Use appends a MiddlewareFunc to the chain. Middleware wraps the whole
// routing pipeline, so it also sees not-found and exception responses.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.middlewares = append(r.middlewares, mwf...)
	r.handler = r.applyMiddleware(http.HandlerFunc(r.dispatch))
}

// RemoveRoute removes every route and filter registered with id and
// returns how many were removed.
func (r *Router) RemoveRoute(id string) int {
	return r.table.remove(id)
}

// RemoveAllRoutes empties the route table. The default not-found and
// exception routes come back with the next main route.
func (r *Router) RemoveAllRoutes() {
	r.table.removeAll()
}

// Routes returns the registered routes: before filters, main routes, then
// after filters, each in execution order.
func (r *Router) Routes() []*Route {
	return r.table.routes()
}

// WalkFunc is called by Walk for each registered route.
type WalkFunc func(route *Route) error

// Walk calls walkFn for each registered route in Routes order and stops at
// the first error.
func (r *Router) Walk(walkFn WalkFunc) error {
	for _, route := range r.table.routes() {
		if err := walkFn(route); err != nil {
			return err
		}
	}
	return nil
}

// Route returns the handlers a request to fullPath would run for the given
// routing type, or nil when no main route matches a regular routing. The
// query string and fragment of fullPath are ignored.
func (r *Router) Route(method, fullPath string, typ RoutingType) *RoutingResult {
	if i := strings.IndexAny(fullPath, "?#"); i >= 0 {
		fullPath = fullPath[:i]
	}
	return r.table.match(method, r.routingPath(fullPath), typ, "")
}

func (r *Router) route(c *Context, typ RoutingType) *RoutingResult {
	return r.table.match(c.Method(), r.routingPath(c.Path()), typ, c.RequestHeader("Accept"))
}

func (r *Router) routingPath(p string) string {
	if r.stripCacheBusters {
		p = cachebuster.Remove(p)
	}
	return cleanPath(p)
}

// AllowedMethods returns the methods registered for regular routes that
// match path, sorted. A route without a method restriction contributes
// every standard method.
func (r *Router) AllowedMethods(path string) []string {
	return allowedMethods(r, r.routingPath(path))
}
