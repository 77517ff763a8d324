package mux

import (
	"errors"
	"fmt"
	"net/http"
)

// Handlers steer routing by returning one of the signal errors below. Any
// other non-nil error is an application error and sends the request to the
// exception routes.

// ForwardError restarts routing with a new path, as if the request had been
// made to it. Query parameters in Path replace the current ones.
type ForwardError struct {
	Path          string
	ResetResponse bool
}

func (e *ForwardError) Error() string {
	return fmt.Sprintf("mux: forward to %q", e.Path)
}

// Forward restarts routing on path with a fresh response.
func Forward(path string) error {
	return &ForwardError{Path: path, ResetResponse: true}
}

// ForwardKeepResponse restarts routing on path, keeping what was already
// written to the response.
func ForwardKeepResponse(path string) error {
	return &ForwardError{Path: path}
}

// NotFoundError switches the request to the not-found routes. Returned from
// a not-found or exception handler it is treated as an application error.
type NotFoundError struct {
	Message       string
	ResetResponse bool
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "mux: not found"
	}
	return "mux: not found: " + e.Message
}

// NotFound switches to the not-found routes with a fresh response.
func NotFound(message string) error {
	return &NotFoundError{Message: message, ResetResponse: true}
}

// NotFoundKeepResponse switches to the not-found routes keeping the current
// response. Only the not-found main handler and the after filters that were
// still pending run.
func NotFoundKeepResponse(message string) error {
	return &NotFoundError{Message: message}
}

// RedirectError stops routing and replies with a redirect. Filters that were
// still pending are skipped.
type RedirectError struct {
	Target string
	Status int
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("mux: redirect %d to %q", e.Status, e.Target)
}

// RedirectTo stops routing and redirects with 301 when permanent, 302
// otherwise.
func RedirectTo(target string, permanent bool) error {
	if permanent {
		return &RedirectError{Target: target, Status: http.StatusMovedPermanently}
	}
	return &RedirectError{Target: target, Status: http.StatusFound}
}

// RedirectWithStatus stops routing and redirects with a 3xx status. Other
// statuses fall back to 302.
func RedirectWithStatus(target string, status int) error {
	return &RedirectError{Target: target, Status: redirectStatus(status)}
}

func redirectStatus(status int) int {
	if status < 300 || status > 399 {
		return http.StatusFound
	}
	return status
}

// PublicError is an application error whose message and status may be shown
// to the client by the default exception handler.
type PublicError struct {
	Status  int
	Message string
	Err     error
}

// NewPublicError returns a PublicError. A zero status means 500.
func NewPublicError(status int, message string) *PublicError {
	return &PublicError{Status: status, Message: message}
}

// WrapPublic attaches a public message and status to err.
func WrapPublic(err error, status int, message string) *PublicError {
	return &PublicError{Status: status, Message: message, Err: err}
}

func (e *PublicError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *PublicError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status to reply with.
func (e *PublicError) StatusCode() int {
	if e.Status < 400 || e.Status > 599 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// PanicError is recorded as the routing error when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("mux: handler panic: %v", e.Value)
}

// ErrTooManyForwards is recorded when a request exceeds the forward limit.
var ErrTooManyForwards = errors.New("mux: maximum number of forwards exceeded")

// outcomeKind is how a pipeline run ended.
type outcomeKind uint8

const (
	outcomeDone outcomeKind = iota
	outcomeForward
	outcomeNotFound
	outcomeRedirect
	outcomeFailed
)

type outcome struct {
	kind     outcomeKind
	forward  *ForwardError
	notFound *NotFoundError
	redirect *RedirectError
	err      error
}

func classify(err error) outcome {
	if err == nil {
		return outcome{}
	}

	var fwd *ForwardError
	if errors.As(err, &fwd) {
		return outcome{kind: outcomeForward, forward: fwd, err: err}
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return outcome{kind: outcomeNotFound, notFound: nf, err: err}
	}

	var rd *RedirectError
	if errors.As(err, &rd) {
		return outcome{kind: outcomeRedirect, redirect: rd, err: err}
	}

	return outcome{kind: outcomeFailed, err: err}
}

// publicError returns the first PublicError in err's chain.
func publicError(err error) (*PublicError, bool) {
	var pe *PublicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// exceptionStatus is the status an exception pipeline starts with.
func exceptionStatus(err error) int {
	if pe, ok := publicError(err); ok {
		return pe.StatusCode()
	}
	return http.StatusInternalServerError
}
