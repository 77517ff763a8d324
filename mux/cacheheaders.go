package mux

import (
	"fmt"
	"time"

	"github.com/vitalvas/switchyard/httpcache"
)

// CacheHeaders declares the cache validators and directives of a response
// and evaluates the request's conditional headers against them.
type CacheHeaders struct {
	c              *Context
	etag           *httpcache.ETag
	weakComparison bool
	lastModified   time.Time
	err            error
}

// CacheHeaders returns the cache header builder of the response.
func (c *Context) CacheHeaders() *CacheHeaders {
	if c.cache == nil {
		c.cache = &CacheHeaders{c: c}
	}
	return c.cache
}

// ETag declares the entity tag of the resource. With weakComparison,
// If-None-Match uses the weak comparison function.
func (h *CacheHeaders) ETag(tag string, weak, weakComparison bool) *CacheHeaders {
	e, err := httpcache.NewETag(tag, weak)
	if err != nil {
		h.err = err
		return h
	}
	return h.ETagValue(e, weakComparison)
}

// ETagValue declares an already built entity tag.
func (h *CacheHeaders) ETagValue(e httpcache.ETag, weakComparison bool) *CacheHeaders {
	if e.IsZero() || e.Wildcard() {
		h.err = fmt.Errorf("%w: a response tag can't be empty or a wildcard", httpcache.ErrInvalidETag)
		return h
	}
	h.etag = &e
	h.weakComparison = weakComparison
	return h
}

// LastModified declares the modification date of the resource.
func (h *CacheHeaders) LastModified(t time.Time) *CacheHeaders {
	h.lastModified = t
	return h
}

// Cache lets clients cache the response for seconds. Zero or less disables
// caching.
func (h *CacheHeaders) Cache(seconds int, private bool, cdnSeconds ...int) *CacheHeaders {
	httpcache.Cache(h.c.res.header, seconds, private, cdnSeconds...)
	return h
}

// NoCache forbids any caching of the response.
func (h *CacheHeaders) NoCache() *CacheHeaders {
	httpcache.NoCache(h.c.res.header)
	return h
}

// Validate writes the declared validators and evaluates the conditional
// request headers. When it returns true the response status is already set
// to 304 or 412 and the handler should not produce a body.
func (h *CacheHeaders) Validate(exists bool) (bool, error) {
	if h.err != nil {
		return false, h.err
	}

	d := httpcache.Evaluate(h.c.Method(), h.c.request.Header, httpcache.Validator{
		ETag:           h.etag,
		WeakComparison: h.weakComparison,
		LastModified:   h.lastModified,
	}, exists)
	d.Apply(h.c.res.header)

	if d.Result == httpcache.Proceed {
		return false, nil
	}

	h.c.res.body.Reset()
	h.c.res.setStatus(d.Status())
	return true, nil
}
