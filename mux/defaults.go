package mux

import (
	"encoding/json"
	"encoding/xml"
	"html"
	"net/http"

	"github.com/munnerz/goautoneg"
)

// defaultContentTypes are the representations the default handlers can
// produce, in order of preference.
var defaultContentTypes = []string{"text/plain", "text/html", "application/json", "application/xml"}

type messageDocument struct {
	XMLName xml.Name `json:"-" xml:"error"`
	Message string   `json:"message" xml:"message"`
}

// defaultNotFound replies with the not-found message, or the message given
// to NotFound.
func (r *Router) defaultNotFound(c *Context) error {
	msg := c.routing.message
	if msg == "" {
		msg = r.dictionary().Message(MessageDefaultNotFound, c.RequestHeader("Accept-Language"))
	}
	c.SetStatus(http.StatusNotFound)
	writeMessage(c, msg)
	return nil
}

// defaultException replies with the message of a PublicError, or the
// generic exception message.
func (r *Router) defaultException(c *Context) error {
	status, msg := r.exceptionMessage(c)
	c.SetStatus(status)
	writeMessage(c, msg)
	return nil
}

func (r *Router) exceptionMessage(c *Context) (int, string) {
	if pe, ok := publicError(c.routing.err); ok {
		return pe.StatusCode(), pe.Message
	}
	return http.StatusInternalServerError, r.dictionary().Message(MessageDefaultException, c.RequestHeader("Accept-Language"))
}

// writeFallback replaces the response with the exception message. It is the
// last resort when the exception routes themselves fail, so it never
// returns an error.
func (r *Router) writeFallback(c *Context) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.WithField("panic", v).Error("mux: fallback exception writer panicked")
			c.res.reset()
			c.res.setStatus(http.StatusInternalServerError)
		}
	}()

	c.res.reset()
	status, msg := r.exceptionMessage(c)
	c.res.setStatus(status)
	writeMessage(c, msg)
}

// writeMessage writes msg in the representation the client prefers among
// the default content types, plain text when nothing matches.
func writeMessage(c *Context, msg string) {
	ct := "text/plain"
	if accept := c.RequestHeader("Accept"); accept != "" {
		if neg := goautoneg.Negotiate(accept, defaultContentTypes); neg != "" {
			ct = neg
		}
	}

	switch ct {
	case "text/html":
		esc := html.EscapeString(msg)
		c.SendHTML("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>" + esc +
			"</title></head><body><h1>" + esc + "</h1></body></html>")
	case "application/json":
		b, err := json.Marshal(messageDocument{Message: msg})
		if err != nil {
			c.SendPlainText(msg)
			return
		}
		c.SendBytes(b, "application/json")
	case "application/xml":
		b, err := xml.Marshal(messageDocument{Message: msg})
		if err != nil {
			c.SendPlainText(msg)
			return
		}
		c.SendBytes(b, "application/xml")
	default:
		c.SendPlainText(msg)
	}
}
