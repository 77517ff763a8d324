// Package muxhandlers provides filters for the mux router.
//
// Filters are mux handlers registered as before or after filters. Most of
// them should also run for not-found and exception routing, since those
// start with a fresh response:
//
//	r.Before("/*{path}", muxhandlers.RequestIDFilter(muxhandlers.RequestIDConfig{}),
//	    mux.RoutingNotFound, mux.RoutingException)
//
// # Request ID
//
// RequestIDFilter generates or propagates a request ID. The ID stays the
// same across forwards and routing types of one request.
//
// # Cache Control
//
// CacheControlFilter is an after filter choosing Cache-Control and Expires
// from the response Content-Type:
//
//	f, err := muxhandlers.CacheControlFilter(muxhandlers.CacheControlConfig{
//	    Rules: []muxhandlers.CacheControlRule{
//	        {ContentType: "image/", Seconds: 86400},
//	        {ContentType: "application/json", Seconds: 0},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.After("/*{path}", f)
//
// # Request Checks
//
// ContentTypeCheckFilter and RequestSizeLimitFilter reject requests with a
// public error, so the client gets 415 or 413 from the exception routes.
//
// # Timeout
//
// TimeoutMiddleware is not a filter. It wraps the whole pipeline through
// Router.Use and answers 503 when routing takes longer than the deadline.
package muxhandlers
