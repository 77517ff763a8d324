package mux

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// run drives a request through regular, not-found and exception routing
// until a pipeline completes or the fallback writer takes over.
func (r *Router) run(c *Context, span trace.Span) {
	st := c.routing
	typ, result := r.routeFound(c)

	for {
		st.enter(typ, result)
		r.metrics.routingAttempt(typ)
		traceRouting(span, typ, result)

		o := r.execute(c, result)

		// Not-found and exception handlers can't switch to not-found.
		if o.kind == outcomeNotFound && typ != RoutingFound {
			o = outcome{kind: outcomeFailed, err: o.err}
		}

		switch o.kind {
		case outcomeDone:
			return

		case outcomeRedirect:
			c.Redirect(o.redirect.Target, o.redirect.Status)
			return

		case outcomeForward:
			st.forwards++
			r.metrics.forward()
			traceForward(span, o.forward.Path, st.forwards)

			if st.forwards > r.maxForwards {
				st.err = fmt.Errorf("%w (%d)", ErrTooManyForwards, r.maxForwards)
				r.fields(c).WithError(st.err).Error("mux: forward loop stopped")
				r.metrics.fallback(fallbackTooManyForwards)
				r.writeFallback(c)
				return
			}

			if err := c.forwardTo(o.forward.Path); err != nil {
				var ok bool
				if typ, result, ok = r.fail(c, typ, err); !ok {
					return
				}
				continue
			}

			if o.forward.ResetResponse {
				c.res.reset()
			}
			from := typ
			typ, result = r.routeFound(c)

			// A kept response still carries the 404 or 500 of the routing
			// the forward left.
			if !o.forward.ResetResponse && from != RoutingFound && typ == RoutingFound {
				c.res.setStatus(http.StatusOK)
			}

		case outcomeNotFound:
			st.keepOriginal()
			st.message = o.notFound.Message

			if o.notFound.ResetResponse {
				c.res.reset()
				c.res.setStatus(http.StatusNotFound)
				typ, result = RoutingNotFound, r.route(c, RoutingNotFound)
				continue
			}

			c.res.setStatus(http.StatusNotFound)
			typ, result = RoutingNotFound, r.keepResponseResult(c, result, st.index)

		case outcomeFailed:
			var ok bool
			if typ, result, ok = r.fail(c, typ, o.err); !ok {
				return
			}
		}
	}
}

// routeFound starts a regular routing, switching to not-found routing when
// no main route matches.
func (r *Router) routeFound(c *Context) (RoutingType, *RoutingResult) {
	if res := r.route(c, RoutingFound); res != nil {
		return RoutingFound, res
	}
	c.res.setStatus(http.StatusNotFound)
	return RoutingNotFound, r.route(c, RoutingNotFound)
}

// keepResponseResult builds the not-found routing used when the response
// is kept: the not-found main route followed by the after filters that
// were still pending in the interrupted routing.
func (r *Router) keepResponseResult(c *Context, current *RoutingResult, index int) *RoutingResult {
	matches := r.table.mainMatches(c.Method(), r.routingPath(c.Path()), RoutingNotFound, c.RequestHeader("Accept"))
	for _, m := range current.Matches[index+1:] {
		if m.Route.role == RoleAfter {
			matches = append(matches, m)
		}
	}
	return &RoutingResult{Type: RoutingNotFound, Path: current.Path, Matches: matches}
}

// fail records an application error and switches to exception routing. An
// error raised by the exception routing itself goes to the fallback writer,
// in which case fail returns false.
func (r *Router) fail(c *Context, typ RoutingType, err error) (RoutingType, *RoutingResult, bool) {
	st := c.routing

	if typ == RoutingException {
		r.fields(c).WithError(err).Error("mux: exception handler failed")
		r.metrics.fallback(fallbackExceptionFailed)
		r.writeFallback(c)
		return typ, nil, false
	}

	entry := r.fields(c).WithError(err)
	if pe, ok := err.(*PanicError); ok {
		entry = entry.WithField("stack", string(pe.Stack))
	}
	entry.Error("mux: handler failed")

	st.keepOriginal()
	st.err = err
	c.res.reset()
	c.res.setStatus(exceptionStatus(err))
	return RoutingException, r.route(c, RoutingException), true
}

// execute runs the matches of result in order and stops at the first
// handler returning an error.
func (r *Router) execute(c *Context, result *RoutingResult) outcome {
	for i, m := range result.Matches {
		c.routing.index = i
		if err := invoke(c, m.Handler); err != nil {
			return classify(err)
		}
	}
	return outcome{}
}

// invoke calls h, turning a panic into a PanicError. http.ErrAbortHandler
// is re-raised so net/http can abort the connection.
func invoke(c *Context, h Handler) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()

	return h(c)
}

func (r *Router) fields(c *Context) *logrus.Entry {
	return r.logger.WithFields(logrus.Fields{
		"method":       c.Method(),
		"path":         c.Path(),
		"routing_type": c.routing.typ.String(),
	})
}
