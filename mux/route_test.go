package mux

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopHandler(_ *Context) error { return nil }

func TestRouteBuilder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.ALL("/x").Handle(nopHandler))

		route := r.Routes()[0]
		assert.Empty(t, route.ID())
		assert.Empty(t, route.Methods())
		assert.Equal(t, 0, route.Position())
		assert.Equal(t, RoutingFound, route.RoutingTypes())
		assert.Empty(t, route.Accept())
		assert.Equal(t, RoleMain, route.Role())
		assert.False(t, route.IsDefault())
	})

	t.Run("routing types accumulate", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.ALL("/x").Found().NotFound().HandleBefore(nopHandler))
		require.NoError(t, r.ALL("/y").RoutingTypes(RoutingException, RoutingNotFound).HandleAfter(nopHandler))

		routes := r.Routes()
		require.Len(t, routes, 2)
		assert.Equal(t, RoutingFound|RoutingNotFound, routes[0].RoutingTypes())
		assert.Equal(t, RoutingNotFound|RoutingException, routes[1].RoutingTypes())
	})

	t.Run("accept types", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.ALL("/x").AcceptXML().AcceptPlainText().Accept("Image/PNG").Handle(nopHandler))

		assert.Equal(t, []string{"application/xml", "text/xml", "text/plain", "image/png"}, r.Routes()[0].Accept())
	})

	t.Run("accessors return copies", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.NoError(t, r.GET("/x").AcceptJSON().Handle(nopHandler))

		route := r.Routes()[0]
		route.Methods()[0] = "POST"
		route.Accept()[0] = "text/html"
		assert.Equal(t, []string{http.MethodGet}, route.Methods())
		assert.Equal(t, []string{"application/json"}, route.Accept())
	})

	t.Run("every method builder", func(t *testing.T) {
		r, _ := newTestRouter(t)
		builders := map[string]func(string) *RouteBuilder{
			http.MethodGet:     r.GET,
			http.MethodPost:    r.POST,
			http.MethodPut:     r.PUT,
			http.MethodPatch:   r.PATCH,
			http.MethodDelete:  r.DELETE,
			http.MethodHead:    r.HEAD,
			http.MethodOptions: r.OPTIONS,
			http.MethodTrace:   r.TRACE,
			http.MethodConnect: r.CONNECT,
		}

		for method, b := range builders {
			require.NoError(t, b("/m").ID(method).Handle(nopHandler))
		}
		for _, route := range r.Routes() {
			if route.IsDefault() {
				continue
			}
			assert.Equal(t, []string{route.ID()}, route.Methods())
		}
	})
}

func TestRouteEligible(t *testing.T) {
	route := &Route{
		methods: []string{http.MethodGet},
		types:   RoutingFound | RoutingNotFound,
		accept:  []string{"application/json"},
	}

	tests := []struct {
		name   string
		method string
		typ    RoutingType
		accept string
		want   bool
	}{
		{name: "all match", method: "GET", typ: RoutingFound, accept: "application/json", want: true},
		{name: "lowercase method", method: "get", typ: RoutingFound, want: true},
		{name: "other method", method: "POST", typ: RoutingFound, want: false},
		{name: "not found type", method: "GET", typ: RoutingNotFound, want: true},
		{name: "exception type", method: "GET", typ: RoutingException, want: false},
		{name: "wildcard accept", method: "GET", typ: RoutingFound, accept: "*/*", want: true},
		{name: "type wildcard accept", method: "GET", typ: RoutingFound, accept: "application/*", want: true},
		{name: "unacceptable", method: "GET", typ: RoutingFound, accept: "text/html", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, route.eligible(tt.method, tt.typ, tt.accept))
		})
	}
}

func TestRouteMatches(t *testing.T) {
	before := func(_ *Context) error { return nil }
	after := func(_ *Context) error { return nil }
	params := map[string]string{"id": "1"}

	t.Run("main route with inline filters", func(t *testing.T) {
		route := &Route{role: RoleMain, before: []Handler{before, before}, handler: nopHandler, after: []Handler{after}}

		ms := route.matches(params)
		require.Len(t, ms, 4)
		assert.Equal(t, []Phase{PhaseBefore, PhaseBefore, PhaseMain, PhaseAfter},
			[]Phase{ms[0].Phase, ms[1].Phase, ms[2].Phase, ms[3].Phase})
		for _, m := range ms {
			assert.Same(t, route, m.Route)
			assert.Equal(t, params, m.Params)
		}
	})

	t.Run("filter route", func(t *testing.T) {
		route := &Route{role: RoleAfter, handler: after}

		ms := route.matches(params)
		require.Len(t, ms, 1)
		assert.Equal(t, PhaseAfter, ms[0].Phase)
	})
}

func TestRoutingResultMain(t *testing.T) {
	var nilResult *RoutingResult
	assert.Nil(t, nilResult.Main())

	filter := &Route{role: RoleBefore}
	main := &Route{role: RoleMain}
	res := &RoutingResult{Matches: []*RouteHandlerMatch{
		{Route: filter, Phase: PhaseBefore},
		{Route: main, Phase: PhaseBefore},
		{Route: main, Phase: PhaseMain},
	}}
	assert.Same(t, res.Matches[2], res.Main())

	assert.Nil(t, (&RoutingResult{}).Main())
}

func TestRouteTableOrdering(t *testing.T) {
	tbl := newRouteTable(nopHandler, nopHandler)
	mk := func(id string, role RouteRole, pos int) *Route {
		p, err := CompilePattern("/*{path}")
		require.NoError(t, err)
		return &Route{id: id, role: role, position: pos, pattern: p, types: RoutingFound, handler: nopHandler}
	}

	tbl.add(mk("b1", RoleBefore, 5), mk("b2", RoleBefore, -5), mk("b3", RoleBefore, 5))
	tbl.add(mk("a1", RoleAfter, 0), mk("a2", RoleAfter, -1))
	tbl.add(mk("m1", RoleMain, 0))

	var ids []string
	for _, r := range tbl.routes() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{"b2", "b1", "b3", "m1", defaultNotFoundID, defaultExceptionID, "a2", "a1"}, ids)

	res := tbl.match(http.MethodGet, "/anything", RoutingFound, "")
	require.NotNil(t, res)
	require.Len(t, res.Matches, 6)
	assert.Equal(t, "m1", res.Main().Route.ID())
	assert.Equal(t, map[string]string{"path": "anything"}, res.Main().Params)
}

func TestAcceptable(t *testing.T) {
	offers := []string{"application/json", "text/html"}

	assert.True(t, acceptable("", offers))
	assert.True(t, acceptable("text/html", offers))
	assert.True(t, acceptable("text/*;q=0.5", offers))
	assert.False(t, acceptable("image/png", offers))
}
