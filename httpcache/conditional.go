package httpcache

import (
	"net/http"
	"strings"
	"time"
)

// Result is the outcome of evaluating the conditional headers of a request.
type Result int

const (
	// Proceed means the handler should produce the representation.
	Proceed Result = iota
	// NotModified means the client copy is fresh; respond 304 with no body.
	NotModified
	// PreconditionFailed means a precondition was not met; respond 412.
	PreconditionFailed
)

func (r Result) String() string {
	switch r {
	case NotModified:
		return "not-modified"
	case PreconditionFailed:
		return "precondition-failed"
	default:
		return "proceed"
	}
}

// Validator holds what a handler declares about the current representation.
type Validator struct {
	// ETag is the entity tag of the representation, if any. Wildcard tags
	// are ignored.
	ETag *ETag

	// WeakComparison enables the weak comparison function for
	// If-None-Match. If-Match always uses strong comparison.
	WeakComparison bool

	// LastModified is the modification date of the representation. The zero
	// value means unknown.
	LastModified time.Time
}

// Decision is the result of Evaluate together with the validator headers
// that must be sent whatever the result.
type Decision struct {
	Result       Result
	ETag         *ETag
	LastModified time.Time
}

// Status returns the status code to send, or 0 when the handler proceeds.
func (d Decision) Status() int {
	switch d.Result {
	case NotModified:
		return http.StatusNotModified
	case PreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return 0
	}
}

// Apply writes the ETag and Last-Modified response headers.
func (d Decision) Apply(h http.Header) {
	if d.ETag != nil && !d.ETag.IsZero() {
		h.Set("ETag", d.ETag.String())
	}
	if !d.LastModified.IsZero() {
		h.Set("Last-Modified", d.LastModified.UTC().Format(http.TimeFormat))
	}
}

// Evaluate applies the conditional request headers of RFC 9110 Section 13.
// exists reports whether the target resource currently has a
// representation.
//
// Precedence: If-Match, then If-Unmodified-Since (only without If-Match),
// then If-None-Match, then If-Modified-Since (unless If-None-Match already
// matched). Unlike RFC 9110 Section 13.2.2, an If-None-Match that misses
// does not disable If-Modified-Since.
// Unparsable dates make their condition not applicable. A matching
// If-None-Match or a fresh If-Modified-Since yields NotModified for GET and
// HEAD and PreconditionFailed for other methods.
func Evaluate(method string, h http.Header, v Validator, exists bool) Decision {
	d := Decision{ETag: declaredETag(v.ETag)}
	if !v.LastModified.IsZero() {
		d.LastModified = v.LastModified.Truncate(time.Second)
	}

	if im := headerList(h, "If-Match"); im != "" {
		if !ifMatch(im, d.ETag, exists) {
			d.Result = PreconditionFailed
			return d
		}
	} else if ius := h.Get("If-Unmodified-Since"); ius != "" && exists && !d.LastModified.IsZero() {
		if t, err := http.ParseTime(ius); err == nil && d.LastModified.After(t) {
			d.Result = PreconditionFailed
			return d
		}
	}

	notModified := false

	if inm := headerList(h, "If-None-Match"); inm != "" {
		if tags, err := ParseETagList(inm); err == nil {
			for _, tag := range tags {
				if tag.Wildcard() {
					if exists {
						d.Result = PreconditionFailed
						return d
					}
					continue
				}
				if d.ETag == nil || !exists {
					continue
				}
				if v.WeakComparison && tag.WeakMatch(*d.ETag) || tag.StrongMatch(*d.ETag) {
					notModified = true
				}
			}
		}
	}

	// Only a matched If-None-Match supersedes If-Modified-Since.
	if ims := h.Get("If-Modified-Since"); !notModified && ims != "" && exists && !d.LastModified.IsZero() {
		if t, err := http.ParseTime(ims); err == nil && !d.LastModified.After(t) {
			notModified = true
		}
	}

	if notModified {
		if method == http.MethodGet || method == http.MethodHead {
			d.Result = NotModified
		} else {
			d.Result = PreconditionFailed
		}
	}

	return d
}

// ifMatch reports whether an If-Match list is satisfied. A list that can't
// be parsed is never satisfied.
func ifMatch(list string, declared *ETag, exists bool) bool {
	tags, err := ParseETagList(list)
	if err != nil {
		return false
	}
	for _, tag := range tags {
		if tag.Wildcard() {
			if exists {
				return true
			}
			continue
		}
		if exists && declared != nil && tag.StrongMatch(*declared) {
			return true
		}
	}
	return false
}

func declaredETag(e *ETag) *ETag {
	if e == nil || e.IsZero() || e.Wildcard() {
		return nil
	}
	return e
}

// headerList joins every field line of a list header.
func headerList(h http.Header, name string) string {
	values := h.Values(name)
	switch len(values) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(values[0])
	default:
		return strings.TrimSpace(strings.Join(values, ","))
	}
}
