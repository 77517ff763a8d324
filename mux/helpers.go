package mux

import (
	"path"
	"slices"
	"sort"
)

// cleanPath returns the canonical path for p, eliminating . and .. elements
// per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// matchInArray returns true if the given string value is in the array.
func matchInArray(arr []string, value string) bool {
	return slices.Contains(arr, value)
}

// standardMethods are reported for routes without a method restriction.
var standardMethods = []string{
	"CONNECT", "DELETE", "GET", "HEAD", "OPTIONS", "PATCH", "POST", "PUT", "TRACE",
}

// allowedMethods returns the methods of the regular main routes matching
// path. The returned slice is sorted alphabetically per RFC 9110
// Section 10.2.1.
func allowedMethods(router *Router, p string) []string {
	segs := splitPath(p)
	seen := make(map[string]bool)

	for _, route := range router.table.routes() {
		if route.role != RoleMain || !route.types.Has(RoutingFound) {
			continue
		}
		if _, ok := route.pattern.matchSegments(segs); !ok {
			continue
		}
		methods := route.methods
		if len(methods) == 0 {
			methods = standardMethods
		}
		for _, m := range methods {
			seen[m] = true
		}
	}

	allowed := make([]string, 0, len(seen))
	for m := range seen {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	return allowed
}
