package mux

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
)

// Body returns the request body. It is read once and cached, so it stays
// available after a forward.
func (c *Context) Body() ([]byte, error) {
	c.bodyOnce.Do(func() {
		if c.request.Body == nil {
			return
		}
		c.body, c.bodyErr = io.ReadAll(c.request.Body)
	})
	return c.body, c.bodyErr
}

// BodyString returns the request body as a string.
func (c *Context) BodyString() (string, error) {
	b, err := c.Body()
	return string(b), err
}

// BodyReader returns a reader over the cached request body.
func (c *Context) BodyReader() (io.Reader, error) {
	b, err := c.Body()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// BindJSON decodes the request body as JSON into v.
// By default the decoder rejects unknown fields that do not map to exported
// struct fields. Pass true to allow unknown fields.
// Exactly one JSON value must be present in the body; trailing data is an error.
func (c *Context) BindJSON(v any, allowUnknownFields ...bool) error {
	r, err := c.BodyReader()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(r)
	if len(allowUnknownFields) == 0 || !allowUnknownFields[0] {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data after JSON value")
	}

	return nil
}

// BindXML decodes the request body as XML into v.
// Exactly one XML element must be present in the body; trailing data is an error.
func (c *Context) BindXML(v any) error {
	r, err := c.BodyReader()
	if err != nil {
		return err
	}

	dec := xml.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data after XML value")
	}

	return nil
}
