package mux

import (
	"slices"
	"sort"
	"sync"

	"github.com/munnerz/goautoneg"
)

const (
	catchAllPath = "/*{path}"

	defaultNotFoundID  = "mux.default.notfound"
	defaultExceptionID = "mux.default.exception"
)

// routeTable keeps the before, main and after buckets sorted by position,
// then by registration order.
type routeTable struct {
	mu     sync.RWMutex
	before []*Route
	main   []*Route
	after  []*Route
	seq    uint64

	defaultsAdded bool
	// defaults are the routes added with the first main route.
	defaults map[RoutingType]*Route
	// fallbacks are never registered and stand in when no main route
	// matches a not-found or exception routing.
	fallbacks map[RoutingType]*Route
}

func newRouteTable(notFound, exception Handler) *routeTable {
	return &routeTable{
		defaults: map[RoutingType]*Route{
			RoutingNotFound:  builtinRoute(defaultNotFoundID, RoutingNotFound, notFound),
			RoutingException: builtinRoute(defaultExceptionID, RoutingException, exception),
		},
		fallbacks: map[RoutingType]*Route{
			RoutingNotFound:  builtinRoute(defaultNotFoundID, RoutingNotFound, notFound),
			RoutingException: builtinRoute(defaultExceptionID, RoutingException, exception),
		},
	}
}

func builtinRoute(id string, typ RoutingType, h Handler) *Route {
	p, err := CompilePattern(catchAllPath)
	if err != nil {
		panic(err)
	}
	return &Route{id: id, pattern: p, role: RoleMain, types: typ, handler: h, builtin: true}
}

func (t *routeTable) add(routes ...*Route) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range routes {
		t.insert(r)
	}
}

func (t *routeTable) insert(r *Route) {
	t.seq++
	r.seq = t.seq

	switch r.role {
	case RoleBefore:
		t.before = insertSorted(t.before, r)
	case RoleAfter:
		t.after = insertSorted(t.after, r)
	default:
		// A custom not-found or exception route replaces the default one.
		for _, typ := range []RoutingType{RoutingNotFound, RoutingException} {
			if !r.builtin && r.types.Has(typ) {
				t.main = slices.DeleteFunc(t.main, func(m *Route) bool {
					return m == t.defaults[typ]
				})
			}
		}

		t.main = insertSorted(t.main, r)

		if !t.defaultsAdded {
			t.defaultsAdded = true
			for _, typ := range []RoutingType{RoutingNotFound, RoutingException} {
				if !t.hasMain(typ) {
					t.insert(t.defaults[typ])
				}
			}
		}
	}
}

func (t *routeTable) hasMain(typ RoutingType) bool {
	for _, r := range t.main {
		if r.types.Has(typ) {
			return true
		}
	}
	return false
}

func insertSorted(bucket []*Route, r *Route) []*Route {
	bucket = append(bucket, r)
	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].position < bucket[j].position
	})
	return bucket
}

// remove deletes every route with the given id and returns how many were
// removed.
func (t *routeTable) remove(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	del := func(r *Route) bool {
		if r.id == id {
			n++
			return true
		}
		return false
	}
	t.before = slices.DeleteFunc(t.before, del)
	t.main = slices.DeleteFunc(t.main, del)
	t.after = slices.DeleteFunc(t.after, del)
	return n
}

func (t *routeTable) removeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.before, t.main, t.after = nil, nil, nil
	t.defaultsAdded = false
}

// routes returns a snapshot of every registered route: before filters, main
// routes, then after filters.
func (t *routeTable) routes() []*Route {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Route, 0, len(t.before)+len(t.main)+len(t.after))
	out = append(out, t.before...)
	out = append(out, t.main...)
	out = append(out, t.after...)
	return out
}

// match builds the routing result for one routing attempt. It returns nil
// when no main route matches a regular routing.
func (t *routeTable) match(method, path string, typ RoutingType, accept string) *RoutingResult {
	segs := splitPath(path)

	t.mu.RLock()
	defer t.mu.RUnlock()

	main := t.findMain(method, segs, typ, accept)
	if main == nil {
		return nil
	}

	res := &RoutingResult{Type: typ, Path: path}
	res.Matches = append(res.Matches, t.filters(t.before, method, segs, typ, accept)...)
	res.Matches = append(res.Matches, main...)
	res.Matches = append(res.Matches, t.filters(t.after, method, segs, typ, accept)...)
	return res
}

// mainMatches returns the main route matches for path only, without any
// global filter.
func (t *routeTable) mainMatches(method, path string, typ RoutingType, accept string) []*RouteHandlerMatch {
	segs := splitPath(path)

	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.findMain(method, segs, typ, accept)
}

// findMain returns the matches of the first eligible main route. Not-found
// and exception routings always get a main route.
func (t *routeTable) findMain(method string, segs []string, typ RoutingType, accept string) []*RouteHandlerMatch {
	for _, r := range t.main {
		if !r.eligible(method, typ, accept) {
			continue
		}
		if params, ok := r.pattern.matchSegments(segs); ok {
			return r.matches(params)
		}
	}

	if fb, ok := t.fallbacks[typ]; ok {
		params, _ := fb.pattern.matchSegments(segs)
		return fb.matches(params)
	}
	return nil
}

func (t *routeTable) filters(bucket []*Route, method string, segs []string, typ RoutingType, accept string) []*RouteHandlerMatch {
	var out []*RouteHandlerMatch
	for _, r := range bucket {
		if !r.eligible(method, typ, accept) {
			continue
		}
		if params, ok := r.pattern.matchSegments(segs); ok {
			out = append(out, r.matches(params)...)
		}
	}
	return out
}

// acceptable reports whether an Accept header allows one of offers. A
// missing header accepts anything.
func acceptable(header string, offers []string) bool {
	if header == "" {
		return true
	}
	return goautoneg.Negotiate(header, offers) != ""
}
