// Package mux implements a request router with filters, forwarding and
// dedicated not-found and exception routing.
//
// The package implements routing semantics based on:
//   - RFC 9110 (HTTP Semantics, conditional requests and redirects)
//   - RFC 9111 (HTTP Caching)
//   - RFC 3986 (URIs, dot segment removal)
//
// # Router
//
// Create a new router and register handlers:
//
//	r := mux.NewRouter()
//	r.GET("/articles/${category}/${id:int}").Handle(articleHandler)
//	r.POST("/articles").AcceptJSON().Handle(createArticle)
//	http.ListenAndServe(":8080", r)
//
// A handler receives the request Context and returns an error:
//
//	func articleHandler(c *mux.Context) error {
//	    c.SendPlainText(c.Param("category") + "/" + c.Param("id"))
//	    return nil
//	}
//
// # Path Patterns
//
// Path segments are literals, named parameters or a splat:
//
//	/users/${id}            one segment, collected as "id"
//	/users/${id:int}        one segment validated by a constraint
//	/static/*{path}         zero or more segments, collected as "path"
//	/a/${}/b                one segment, not collected
//
// Literals match case-insensitively and a trailing slash is not
// significant. A constraint is either a macro name or a regular expression
// matching the whole segment. Available macros:
//
//	uuid        - RFC 4122 UUID (e.g. 550e8400-e29b-41d4-a716-446655440000)
//	int         - unsigned integer (e.g. 42)
//	float       - decimal number (e.g. 3.14, 42, .5)
//	slug        - URL-safe slug (e.g. my-post-title)
//	alpha       - alphabetic characters (e.g. hello)
//	alphanum    - alphanumeric characters (e.g. abc123)
//	date        - ISO 8601 date (e.g. 2024-01-15)
//	hex         - hexadecimal string (e.g. deadBEEF)
//	domain      - domain name per RFC 1123 (e.g. example.com)
//	cachebuster - a cache buster code (e.g. yardcb_0123456789abc)
//
// # Filters
//
// Before and after filters run around the main handler of every matching
// request, in position order, then registration order:
//
//	r.Before("/*{path}", authFilter)
//	r.After("/api/*{path}", auditFilter)
//	r.ALL("/*{path}").Pos(-10).HandleBefore(firstFilter)
//
// Inline filters only run around one route:
//
//	r.GET("/admin").Before(requireAdmin).After(logAccess).Handle(admin)
//
// # Routing Types
//
// A request first goes through regular routing. When no main route
// matches, or a handler returns NotFound, it goes through not-found
// routing. When a handler returns any other error or panics, it goes
// through exception routing. Each routing builds its own list of filters
// and main handler:
//
//	r.NotFound(custom404)
//	r.Exception(customError)
//	r.Before("/*{path}", addHeaders, mux.RoutingNotFound, mux.RoutingException)
//
// Default not-found and exception routes are added with the first main
// route and replaced by custom ones. They reply with a message negotiated
// from the Accept and Accept-Language headers.
//
// # Signals
//
// Handlers steer routing with the error they return:
//
//	return mux.Forward("/other")               // route again on another path
//	return mux.NotFound("no such article")     // switch to not-found routing
//	return mux.RedirectTo("/login", false)     // stop and redirect
//	return mux.NewPublicError(409, "conflict") // exception routing, shown to the client
//
// The number of forwards per request is limited by SetMaxForwards.
//
// # Responses
//
// The response is buffered until the pipeline ends, so not-found and
// exception routing can replace it. Context.Flush sends it early.
//
// # Cache Headers
//
//	ok, err := c.CacheHeaders().
//	    ETag(version, false, false).
//	    LastModified(updatedAt).
//	    Cache(3600, false).
//	    Validate(true)
//	if ok {
//	    return nil // 304 or 412 already set
//	}
//
// # Middleware
//
// Middleware registered with Use wraps the whole routing pipeline:
//
//	r.Use(mux.MiddlewareFunc(loggingMiddleware))
package mux
