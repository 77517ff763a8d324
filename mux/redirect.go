package mux

import (
	"fmt"
	"net/http"
)

// RedirectRule registers a route answering with a redirect. Placeholders in
// the target (${name} or *{name}) are filled from the source path
// parameters.
type RedirectRule struct {
	router *Router
	path   string
	id     string
	status int
}

// Redirect starts a redirect rule for requests matching path. Rules are
// temporary (302) unless configured otherwise.
func (r *Router) Redirect(path string) *RedirectRule {
	return &RedirectRule{router: r, path: path, status: http.StatusFound}
}

// ID sets the identifier of the rule route.
func (rr *RedirectRule) ID(id string) *RedirectRule {
	rr.id = id
	return rr
}

// Permanently makes the rule answer with 301.
func (rr *RedirectRule) Permanently() *RedirectRule {
	rr.status = http.StatusMovedPermanently
	return rr
}

// Temporarily makes the rule answer with 302.
func (rr *RedirectRule) Temporarily() *RedirectRule {
	rr.status = http.StatusFound
	return rr
}

// WithStatus makes the rule answer with a 3xx status.
func (rr *RedirectRule) WithStatus(code int) *RedirectRule {
	rr.status = redirectStatus(code)
	return rr
}

// To registers the rule. Every placeholder in target must be a parameter
// of the source path.
func (rr *RedirectRule) To(target string) error {
	if target == "" {
		return fmt.Errorf("mux: empty redirect target for %q", rr.path)
	}

	p, err := CompilePattern(rr.path)
	if err != nil {
		return err
	}

	names, err := placeholderNames(target)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !matchInArray(p.names, name) {
			return fmt.Errorf("mux: redirect target %q uses %q which is not a parameter of %q", target, name, rr.path)
		}
	}

	status := rr.status
	return rr.router.ALL(rr.path).ID(rr.id).Handle(func(c *Context) error {
		location, err := interpolate(target, c.Params())
		if err != nil {
			return err
		}
		return RedirectWithStatus(location, status)
	})
}
