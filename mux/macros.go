package mux

import (
	"fmt"
	"regexp"
	"sync"
)

// varMatcher validates a single path parameter value.
// *regexp.Regexp satisfies this interface.
type varMatcher interface {
	MatchString(string) bool
	String() string
}

// lengthMatcher wraps a regexp with an additional maximum length constraint.
type lengthMatcher struct {
	re     *regexp.Regexp
	maxLen int
}

func (m *lengthMatcher) MatchString(s string) bool {
	return len(s) <= m.maxLen && m.re.MatchString(s)
}

func (m *lengthMatcher) String() string {
	return m.re.String()
}

// patternMacros maps constraint names to their compiled matchers.
// Used in path parameters: ${name:macro}.
var patternMacros = func() map[string]varMatcher {
	raw := map[string]string{
		"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		"int":      `[0-9]+`,
		"float":    `[0-9]*\.?[0-9]+`,
		"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
		"alpha":    `[a-zA-Z]+`,
		"alphanum": `[a-zA-Z0-9]+`,
		"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
		"hex":      `[0-9a-fA-F]+`,
		// Matches cachebuster.Prefix followed by its code.
		"cachebuster": `yardcb_[a-z0-9]{13}`,
		// RFC 1035/1123: labels 1-63 chars, total up to 253 chars.
		"domain": `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`,
	}

	maxLengths := map[string]int{
		"domain": 253,
	}

	m := make(map[string]varMatcher, len(raw))
	for name, pattern := range raw {
		re := regexp.MustCompile(fmt.Sprintf("^(?:%s)$", pattern))

		if maxLen, ok := maxLengths[name]; ok {
			m[name] = &lengthMatcher{re: re, maxLen: maxLen}
			continue
		}
		m[name] = re
	}

	return m
}()

// customConstraints holds the matchers of constraints that are not macros,
// keyed by the constraint as written in the pattern.
var customConstraints sync.Map

// constraintMatcher resolves a parameter constraint. Known macro names map
// to their pre-compiled matchers, anything else is compiled once as a
// regular expression anchored to the whole segment.
func constraintMatcher(constraint string) (varMatcher, error) {
	if m, ok := patternMacros[constraint]; ok {
		return m, nil
	}
	if m, ok := customConstraints.Load(constraint); ok {
		return m.(varMatcher), nil
	}

	re, err := regexp.Compile(fmt.Sprintf("^(?:%s)$", constraint))
	if err != nil {
		return nil, err
	}

	m, _ := customConstraints.LoadOrStore(constraint, varMatcher(re))
	return m.(varMatcher), nil
}
