// Package httpcache implements HTTP validators and cache headers for the
// switchyard router.
//
// The package implements semantics based on:
//   - RFC 9110 Section 8.8 (Validator fields: ETag, Last-Modified)
//   - RFC 9110 Section 13 (Conditional requests)
//   - RFC 9111 Section 5 (Cache-Control, Expires, Pragma)
//
// # Entity Tags
//
// ETag is an immutable value. Strong tags serialize as "tag", weak tags as
// W/"tag" and the wildcard as a bare *. A quoted "*" is a regular strong tag
// and is never equal to the wildcard.
//
//	tag, err := httpcache.NewETag("v42", false)
//	parsed, err := httpcache.ParseETag(`W/"v42"`)
//	tag.WeakMatch(parsed) // true
//	tag.StrongMatch(parsed) // false
//
// # Conditional Requests
//
// Evaluate checks If-Match, If-Unmodified-Since, If-None-Match and
// If-Modified-Since in that precedence and returns a Decision:
//
//	d := httpcache.Evaluate(r.Method, r.Header, httpcache.Validator{
//	    ETag:         &tag,
//	    LastModified: modTime,
//	}, true)
//	d.Apply(w.Header())
//	if d.Result != httpcache.Proceed {
//	    w.WriteHeader(d.Status())
//	    return
//	}
//
// # Cache Headers
//
// Cache writes Cache-Control and Expires for a freshness lifetime; a
// lifetime of zero or less is the same as NoCache.
//
//	httpcache.Cache(w.Header(), 3600, false)      // public, max-age=3600
//	httpcache.Cache(w.Header(), 60, true, 300)    // private, max-age=60, s-maxage=300
//	httpcache.NoCache(w.Header())
package httpcache
