package mux

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// ErrInvalidHeader is returned when a header name or value is not valid per
// RFC 9110.
var ErrInvalidHeader = errors.New("mux: invalid header field")

// ErrInvalidCookie is returned for cookies that would serialize to nothing.
var ErrInvalidCookie = errors.New("mux: invalid cookie")

// responseBuffer holds the response until the pipeline ends or a handler
// flushes it. Once flushed, the status and headers are committed.
type responseBuffer struct {
	w         http.ResponseWriter
	header    http.Header
	status    int
	body      bytes.Buffer
	committed bool
	hijacked  bool
}

func newResponseBuffer(w http.ResponseWriter) *responseBuffer {
	return &responseBuffer{w: w, header: make(http.Header), status: http.StatusOK}
}

// reset discards everything not yet sent. A committed response only loses
// its pending body.
func (b *responseBuffer) reset() {
	b.body.Reset()
	if b.committed {
		return
	}
	b.header = make(http.Header)
	b.status = http.StatusOK
}

func (b *responseBuffer) setStatus(code int) {
	if b.committed {
		return
	}
	b.status = code
}

func (b *responseBuffer) flush() error {
	if b.hijacked {
		return nil
	}

	if !b.committed {
		dst := b.w.Header()
		for k, v := range b.header {
			dst[k] = v
		}
		b.committed = true
		b.w.WriteHeader(b.status)
	}

	if b.body.Len() == 0 || !bodyAllowed(b.status) {
		b.body.Reset()
		return nil
	}

	_, err := b.w.Write(b.body.Bytes())
	b.body.Reset()
	return err
}

// bodyAllowed reports whether a response with status may carry content per
// RFC 9110 Section 6.4.1.
func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

// Header returns the response header map. Changes after the response has
// been flushed are not sent.
func (c *Context) Header() http.Header {
	return c.res.header
}

// SetHeader sets a response header after validating it.
func (c *Context) SetHeader(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
		return ErrInvalidHeader
	}
	c.res.header.Set(name, value)
	return nil
}

// AddHeader adds a response header value after validating it.
func (c *Context) AddHeader(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
		return ErrInvalidHeader
	}
	c.res.header.Add(name, value)
	return nil
}

// SetCookie adds a Set-Cookie header.
func (c *Context) SetCookie(cookie *http.Cookie) error {
	v := cookie.String()
	if v == "" {
		return ErrInvalidCookie
	}
	c.res.header.Add("Set-Cookie", v)
	return nil
}

// DeleteCookie asks the client to drop the named cookie.
func (c *Context) DeleteCookie(name string) error {
	return c.SetCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}

// SetStatus sets the response status code.
func (c *Context) SetStatus(code int) {
	c.res.setStatus(code)
}

// Status returns the current response status code.
func (c *Context) Status() int {
	return c.res.status
}

// Write appends p to the response body.
func (c *Context) Write(p []byte) (int, error) {
	return c.res.body.Write(p)
}

// SendBytes appends b to the response body and sets the content type when
// not empty.
func (c *Context) SendBytes(b []byte, contentType string) {
	if contentType != "" {
		c.res.header.Set("Content-Type", contentType)
	}
	c.res.body.Write(b)
}

// SendPlainText appends s as text/plain.
func (c *Context) SendPlainText(s string) {
	c.SendBytes([]byte(s), "text/plain; charset=utf-8")
}

// SendHTML appends s as text/html.
func (c *Context) SendHTML(s string) {
	c.SendBytes([]byte(s), "text/html; charset=utf-8")
}

// SendJSON encodes v as JSON and appends it to the response.
func (c *Context) SendJSON(v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	c.SendBytes(buf.Bytes(), "application/json")
	return nil
}

// SendXML encodes v as XML and appends it to the response.
func (c *Context) SendXML(v any) error {
	var buf bytes.Buffer
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	c.SendBytes(buf.Bytes(), "application/xml")
	return nil
}

// Redirect sets the Location header and a 3xx status without stopping the
// pipeline. Use RedirectTo to stop it.
func (c *Context) Redirect(target string, code int) {
	c.res.header.Set("Location", target)
	c.res.setStatus(redirectStatus(code))
}

// ResetResponse discards the buffered status, headers and body. After a
// flush only the pending body is discarded.
func (c *Context) ResetResponse() {
	c.res.reset()
}

// Flush sends the buffered response. Status and headers are committed on
// the first flush.
func (c *Context) Flush() error {
	if err := c.res.flush(); err != nil {
		return err
	}
	if c.res.hijacked {
		return nil
	}
	if err := http.NewResponseController(c.res.w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// Written reports whether the status and headers have been sent.
func (c *Context) Written() bool {
	return c.res.committed
}
