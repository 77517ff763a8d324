package mux

import (
	"fmt"
	"strings"
)

// tokenKind classifies a single path pattern segment.
type tokenKind uint8

const (
	tokenLiteral tokenKind = iota
	tokenNamed
	tokenSplat
)

// token is one compiled segment of a path pattern.
type token struct {
	kind tokenKind
	// value is the literal text or the parameter name.
	value string
	// constraint validates named parameter values, if set.
	constraint varMatcher
}

func (t *token) match(segment string, params map[string]string) bool {
	switch t.kind {
	case tokenLiteral:
		// Literal segments are case-insensitive.
		return strings.EqualFold(t.value, segment)
	case tokenNamed:
		if t.constraint != nil && !t.constraint.MatchString(segment) {
			return false
		}
		if t.value != "" {
			params[t.value] = segment
		}
		return true
	}
	return false
}

// Pattern is a compiled route path. It is immutable once compiled and safe
// for concurrent use.
//
// Tokens before the splat parameter match the head of the path, tokens
// after it match the tail, and the splat captures everything in between.
type Pattern struct {
	raw    string
	prefix []token
	splat  *token
	suffix []token
	names  []string
}

// CompilePattern parses a route path made of literal segments, named
// parameters (${name} or ${name:constraint}) and at most one splat
// parameter (*{name}). Leading and trailing slashes are not significant.
func CompilePattern(path string) (*Pattern, error) {
	p := &Pattern{raw: path}

	for _, seg := range splitPath(path) {
		t, err := parseSegment(seg, path)
		if err != nil {
			return nil, err
		}

		if t.kind == tokenSplat {
			if p.splat != nil {
				return nil, fmt.Errorf("mux: more than one splat parameter in %q", path)
			}
			p.splat = &t
		} else if p.splat != nil {
			p.suffix = append(p.suffix, t)
		} else {
			p.prefix = append(p.prefix, t)
		}

		if t.kind != tokenLiteral && t.value != "" {
			p.names = append(p.names, t.value)
		}
	}

	if err := checkDuplicateVars(p.names); err != nil {
		return nil, fmt.Errorf("%w in %q", err, path)
	}

	return p, nil
}

// parseSegment compiles one path segment. A parameter must span the whole
// segment.
func parseSegment(seg, path string) (token, error) {
	idxs, err := braceIndices(seg)
	if err != nil {
		return token{}, err
	}

	if len(idxs) == 0 {
		return token{kind: tokenLiteral, value: seg}, nil
	}

	if len(idxs) != 2 || idxs[0] != 1 || idxs[1] != len(seg) || (seg[0] != '$' && seg[0] != '*') {
		return token{}, fmt.Errorf("mux: parameter %q must span a whole segment in %q", seg, path)
	}

	name, constraint, hasConstraint := strings.Cut(seg[2:len(seg)-1], ":")

	if seg[0] == '*' {
		if hasConstraint {
			return token{}, fmt.Errorf("mux: splat parameter %q can't have a constraint in %q", seg, path)
		}
		return token{kind: tokenSplat, value: name}, nil
	}

	t := token{kind: tokenNamed, value: name}
	if hasConstraint {
		if constraint == "" {
			return token{}, fmt.Errorf("mux: empty constraint in %q from %q", seg, path)
		}
		m, err := constraintMatcher(constraint)
		if err != nil {
			return token{}, fmt.Errorf("mux: invalid constraint %q in variable %q: %w", constraint, name, err)
		}
		t.constraint = m
	}

	return t, nil
}

// String returns the path the pattern was compiled from.
func (p *Pattern) String() string {
	return p.raw
}

// Names returns the collected parameter names in declaration order.
func (p *Pattern) Names() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// HasSplat reports whether the pattern contains a splat parameter.
func (p *Pattern) HasSplat() bool {
	return p.splat != nil
}

// Match matches a request path against the pattern and returns the
// extracted parameters.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	return p.matchSegments(splitPath(path))
}

func (p *Pattern) matchSegments(segs []string) (map[string]string, bool) {
	fixed := len(p.prefix) + len(p.suffix)
	if p.splat == nil && len(segs) != fixed {
		return nil, false
	}
	if len(segs) < fixed {
		return nil, false
	}

	params := make(map[string]string, len(p.names))

	for i := range p.prefix {
		if !p.prefix[i].match(segs[i], params) {
			return nil, false
		}
	}

	if p.splat == nil {
		return params, true
	}

	tail := len(segs) - len(p.suffix)
	for i := range p.suffix {
		if !p.suffix[i].match(segs[tail+i], params) {
			return nil, false
		}
	}

	if p.splat.value != "" {
		params[p.splat.value] = strings.Join(segs[len(p.prefix):tail], "/")
	}

	return params, true
}

// placeholderNames returns the names referenced by ${name} or *{name}
// placeholders in s. The two forms are interchangeable.
func placeholderNames(s string) ([]string, error) {
	var names []string
	_, err := scanPlaceholders(s, func(name string) string {
		names = append(names, name)
		return ""
	})
	return names, err
}

// interpolate replaces ${name} and *{name} placeholders in s with params.
func interpolate(s string, params map[string]string) (string, error) {
	return scanPlaceholders(s, func(name string) string {
		return params[name]
	})
}

// scanPlaceholders calls fn for every placeholder in s and returns s with
// each placeholder replaced by the value fn returned.
func scanPlaceholders(s string, fn func(name string) string) (string, error) {
	var b strings.Builder
	last := 0

	for i := 0; i < len(s); i++ {
		if !isPlaceholderStart(s, i) {
			continue
		}
		end := strings.IndexByte(s[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("mux: unbalanced braces in %q", s)
		}
		end += i

		name, _, _ := strings.Cut(s[i+2:end], ":")
		b.WriteString(s[last:i])
		b.WriteString(fn(name))
		last = end + 1
		i = end
	}
	b.WriteString(s[last:])

	return b.String(), nil
}

func isPlaceholderStart(s string, i int) bool {
	return i+1 < len(s) && (s[i] == '$' || s[i] == '*') && s[i+1] == '{'
}

// splitPath returns the non-empty segments of a path.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s. Returns an error if braces are unbalanced.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("mux: unbalanced braces in %q", s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("mux: unbalanced braces in %q", s)
	}
	return idxs, nil
}

// checkDuplicateVars returns an error if any variable name is repeated.
func checkDuplicateVars(vars []string) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v] {
			return fmt.Errorf("mux: duplicated route variable %q", v)
		}
		seen[v] = true
	}
	return nil
}
