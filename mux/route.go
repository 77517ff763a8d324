package mux

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Handler handles one step of a request. Returning a signal error such as
// Forward or NotFound steers routing, any other error is an application
// error.
type Handler func(c *Context) error

// RoutingType is the kind of routing a request is going through. A set of
// types is expressed by OR-ing them.
type RoutingType uint8

const (
	RoutingFound RoutingType = 1 << iota
	RoutingNotFound
	RoutingException

	AllRoutingTypes = RoutingFound | RoutingNotFound | RoutingException
)

func (t RoutingType) String() string {
	switch t {
	case RoutingFound:
		return "found"
	case RoutingNotFound:
		return "not_found"
	case RoutingException:
		return "exception"
	}

	var names []string
	for _, typ := range []RoutingType{RoutingFound, RoutingNotFound, RoutingException} {
		if t&typ != 0 {
			names = append(names, typ.String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Has reports whether t includes typ.
func (t RoutingType) Has(typ RoutingType) bool {
	return t&typ != 0
}

// RouteRole places a route in one of the three buckets of the route table.
type RouteRole uint8

const (
	RoleMain RouteRole = iota
	RoleBefore
	RoleAfter
)

func (r RouteRole) String() string {
	switch r {
	case RoleBefore:
		return "before"
	case RoleAfter:
		return "after"
	default:
		return "main"
	}
}

// Route is a registered route or filter. Routes are immutable once added to
// a Router.
type Route struct {
	id       string
	methods  []string
	pattern  *Pattern
	role     RouteRole
	position int
	types    RoutingType
	accept   []string
	before   []Handler
	handler  Handler
	after    []Handler
	builtin  bool
	seq      uint64
}

// ID returns the route identifier, or "" when none was given.
func (r *Route) ID() string { return r.id }

// Methods returns the accepted methods. An empty list accepts any method.
func (r *Route) Methods() []string { return append([]string(nil), r.methods...) }

// Path returns the path pattern the route was registered with.
func (r *Route) Path() string { return r.pattern.String() }

// Pattern returns the compiled path pattern.
func (r *Route) Pattern() *Pattern { return r.pattern }

// Role returns the bucket the route lives in.
func (r *Route) Role() RouteRole { return r.role }

// Position returns the ordering key within the bucket.
func (r *Route) Position() int { return r.position }

// RoutingTypes returns the routing types the route is eligible for.
func (r *Route) RoutingTypes() RoutingType { return r.types }

// Accept returns the content types the route is restricted to.
func (r *Route) Accept() []string { return append([]string(nil), r.accept...) }

// Handler returns the route handler.
func (r *Route) Handler() Handler { return r.handler }

// IsDefault reports whether the route is one of the default not-found or
// exception routes added by the router.
func (r *Route) IsDefault() bool { return r.builtin }

func (r *Route) eligible(method string, typ RoutingType, accept string) bool {
	if r.types&typ == 0 {
		return false
	}
	if len(r.methods) > 0 && !matchInArray(r.methods, strings.ToUpper(method)) {
		return false
	}
	if len(r.accept) > 0 && !acceptable(accept, r.accept) {
		return false
	}
	return true
}

// matches expands a matched route into its handler matches. Inline filters
// of a main route surround its handler.
func (r *Route) matches(params map[string]string) []*RouteHandlerMatch {
	if r.role != RoleMain {
		return []*RouteHandlerMatch{{Route: r, Handler: r.handler, Params: params, Phase: phaseOf(r.role)}}
	}

	out := make([]*RouteHandlerMatch, 0, len(r.before)+1+len(r.after))
	for _, h := range r.before {
		out = append(out, &RouteHandlerMatch{Route: r, Handler: h, Params: params, Phase: PhaseBefore})
	}
	out = append(out, &RouteHandlerMatch{Route: r, Handler: r.handler, Params: params, Phase: PhaseMain})
	for _, h := range r.after {
		out = append(out, &RouteHandlerMatch{Route: r, Handler: h, Params: params, Phase: PhaseAfter})
	}
	return out
}

// Phase tells where a handler match runs relative to the main handler.
type Phase uint8

const (
	PhaseBefore Phase = iota
	PhaseMain
	PhaseAfter
)

func phaseOf(role RouteRole) Phase {
	switch role {
	case RoleBefore:
		return PhaseBefore
	case RoleAfter:
		return PhaseAfter
	default:
		return PhaseMain
	}
}

// RouteHandlerMatch is one handler to run for a request, with the
// parameters its route extracted from the path.
type RouteHandlerMatch struct {
	Route   *Route
	Handler Handler
	Params  map[string]string
	Phase   Phase
}

// RoutingResult is the ordered list of handlers chosen for one routing
// attempt.
type RoutingResult struct {
	Type    RoutingType
	Path    string
	Matches []*RouteHandlerMatch
}

// Main returns the main handler match.
func (r *RoutingResult) Main() *RouteHandlerMatch {
	if r == nil {
		return nil
	}
	for _, m := range r.Matches {
		if m.Phase == PhaseMain && m.Route.role == RoleMain {
			return m
		}
	}
	return nil
}

// ErrNilHandler is returned when a route is registered without a handler.
var ErrNilHandler = errors.New("mux: nil handler")

// RouteBuilder configures a route before it is added to the router. Errors
// are collected and returned by the terminal Handle methods.
type RouteBuilder struct {
	router   *Router
	path     string
	methods  []string
	id       string
	position int
	types    RoutingType
	accept   []string
	before   []Handler
	after    []Handler
	err      error
}

// ID sets the route identifier used by RemoveRoute.
func (b *RouteBuilder) ID(id string) *RouteBuilder {
	b.id = id
	return b
}

// Pos sets the position of the route in its bucket. Lower positions come
// first, equal positions keep registration order.
func (b *RouteBuilder) Pos(position int) *RouteBuilder {
	b.position = position
	return b
}

// Found adds the regular routing type. It is the default.
func (b *RouteBuilder) Found() *RouteBuilder {
	return b.RoutingTypes(RoutingFound)
}

// NotFound makes the route eligible for not-found routing.
func (b *RouteBuilder) NotFound() *RouteBuilder {
	return b.RoutingTypes(RoutingNotFound)
}

// Exception makes the route eligible for exception routing.
func (b *RouteBuilder) Exception() *RouteBuilder {
	return b.RoutingTypes(RoutingException)
}

// AllRoutingTypes makes the route eligible for every routing type.
func (b *RouteBuilder) AllRoutingTypes() *RouteBuilder {
	return b.RoutingTypes(AllRoutingTypes)
}

// RoutingTypes adds routing types to the route. Without any, a route is
// only used for regular routing.
func (b *RouteBuilder) RoutingTypes(types ...RoutingType) *RouteBuilder {
	for _, t := range types {
		b.types |= t
	}
	return b
}

// Accept restricts the route to requests accepting one of contentTypes.
func (b *RouteBuilder) Accept(contentTypes ...string) *RouteBuilder {
	for _, ct := range contentTypes {
		if !strings.Contains(ct, "/") {
			b.err = errors.Join(b.err, fmt.Errorf("mux: invalid accepted content type %q", ct))
			continue
		}
		b.accept = append(b.accept, strings.ToLower(ct))
	}
	return b
}

// AcceptJSON restricts the route to requests accepting application/json.
func (b *RouteBuilder) AcceptJSON() *RouteBuilder {
	return b.Accept("application/json")
}

// AcceptHTML restricts the route to requests accepting text/html.
func (b *RouteBuilder) AcceptHTML() *RouteBuilder {
	return b.Accept("text/html")
}

// AcceptXML restricts the route to requests accepting XML.
func (b *RouteBuilder) AcceptXML() *RouteBuilder {
	return b.Accept("application/xml", "text/xml")
}

// AcceptPlainText restricts the route to requests accepting text/plain.
func (b *RouteBuilder) AcceptPlainText() *RouteBuilder {
	return b.Accept("text/plain")
}

// Before adds an inline filter running right before the main handler.
func (b *RouteBuilder) Before(h Handler) *RouteBuilder {
	if h == nil {
		b.err = errors.Join(b.err, ErrNilHandler)
		return b
	}
	b.before = append(b.before, h)
	return b
}

// After adds an inline filter running right after the main handler.
func (b *RouteBuilder) After(h Handler) *RouteBuilder {
	if h == nil {
		b.err = errors.Join(b.err, ErrNilHandler)
		return b
	}
	b.after = append(b.after, h)
	return b
}

// Handle registers h as a main route.
func (b *RouteBuilder) Handle(h Handler) error {
	r, err := b.build(RoleMain, h)
	if err != nil {
		return err
	}
	b.router.table.add(r)
	return nil
}

// HandleBefore registers h as a global before filter.
func (b *RouteBuilder) HandleBefore(h Handler) error {
	return b.handleFilter(h, RoleBefore)
}

// HandleAfter registers h as a global after filter.
func (b *RouteBuilder) HandleAfter(h Handler) error {
	return b.handleFilter(h, RoleAfter)
}

// HandleBeforeAndAfter registers h as both a before and an after filter.
func (b *RouteBuilder) HandleBeforeAndAfter(h Handler) error {
	return b.handleFilter(h, RoleBefore, RoleAfter)
}

func (b *RouteBuilder) handleFilter(h Handler, roles ...RouteRole) error {
	if len(b.before) > 0 || len(b.after) > 0 {
		return fmt.Errorf("mux: inline filters only apply to main routes, path %q", b.path)
	}

	routes := make([]*Route, 0, len(roles))
	for _, role := range roles {
		r, err := b.build(role, h)
		if err != nil {
			return err
		}
		routes = append(routes, r)
	}
	b.router.table.add(routes...)
	return nil
}

func (b *RouteBuilder) build(role RouteRole, h Handler) (*Route, error) {
	if b.err != nil {
		return nil, b.err
	}
	if h == nil {
		return nil, ErrNilHandler
	}

	pattern, err := CompilePattern(b.path)
	if err != nil {
		return nil, err
	}

	types := b.types
	if types == 0 {
		types = RoutingFound
	}

	methods := make([]string, 0, len(b.methods))
	for _, m := range b.methods {
		methods = append(methods, strings.ToUpper(m))
	}

	return &Route{
		id:       b.id,
		methods:  methods,
		pattern:  pattern,
		role:     role,
		position: b.position,
		types:    types,
		accept:   append([]string(nil), b.accept...),
		before:   append([]Handler(nil), b.before...),
		handler:  h,
		after:    append([]Handler(nil), b.after...),
	}, nil
}

func (r *Router) newBuilder(path string, methods ...string) *RouteBuilder {
	return &RouteBuilder{router: r, path: path, methods: methods}
}

// ALL starts a route accepting any method.
func (r *Router) ALL(path string) *RouteBuilder { return r.newBuilder(path) }

// GET starts a GET route.
func (r *Router) GET(path string) *RouteBuilder { return r.newBuilder(path, http.MethodGet) }

// POST starts a POST route.
func (r *Router) POST(path string) *RouteBuilder { return r.newBuilder(path, http.MethodPost) }

// PUT starts a PUT route.
func (r *Router) PUT(path string) *RouteBuilder { return r.newBuilder(path, http.MethodPut) }

// PATCH starts a PATCH route.
func (r *Router) PATCH(path string) *RouteBuilder { return r.newBuilder(path, http.MethodPatch) }

// DELETE starts a DELETE route.
func (r *Router) DELETE(path string) *RouteBuilder { return r.newBuilder(path, http.MethodDelete) }

// HEAD starts a HEAD route.
func (r *Router) HEAD(path string) *RouteBuilder { return r.newBuilder(path, http.MethodHead) }

// OPTIONS starts an OPTIONS route.
func (r *Router) OPTIONS(path string) *RouteBuilder { return r.newBuilder(path, http.MethodOptions) }

// TRACE starts a TRACE route.
func (r *Router) TRACE(path string) *RouteBuilder { return r.newBuilder(path, http.MethodTrace) }

// CONNECT starts a CONNECT route.
func (r *Router) CONNECT(path string) *RouteBuilder { return r.newBuilder(path, http.MethodConnect) }

// Methods starts a route accepting the given methods.
func (r *Router) Methods(path string, methods ...string) *RouteBuilder {
	return r.newBuilder(path, methods...)
}

// Before registers a global before filter for regular routing, plus the
// routing types in also.
func (r *Router) Before(path string, h Handler, also ...RoutingType) error {
	return r.ALL(path).Found().RoutingTypes(also...).HandleBefore(h)
}

// After registers a global after filter for regular routing, plus the
// routing types in also.
func (r *Router) After(path string, h Handler, also ...RoutingType) error {
	return r.ALL(path).Found().RoutingTypes(also...).HandleAfter(h)
}

// BeforeAndAfter registers h as both a before and an after filter.
func (r *Router) BeforeAndAfter(path string, h Handler, also ...RoutingType) error {
	return r.ALL(path).Found().RoutingTypes(also...).HandleBeforeAndAfter(h)
}

// NotFound registers the not-found handler for every path, replacing the
// default one.
func (r *Router) NotFound(h Handler) error {
	return r.ALL(catchAllPath).NotFound().Handle(h)
}

// Exception registers the exception handler for every path, replacing the
// default one.
func (r *Router) Exception(h Handler) error {
	return r.ALL(catchAllPath).Exception().Handle(h)
}
