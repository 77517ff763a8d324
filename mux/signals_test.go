package mux

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	plain := errors.New("plain")

	tests := []struct {
		name string
		err  error
		want outcomeKind
	}{
		{name: "nil", err: nil, want: outcomeDone},
		{name: "forward", err: Forward("/x"), want: outcomeForward},
		{name: "wrapped forward", err: fmt.Errorf("ctx: %w", Forward("/x")), want: outcomeForward},
		{name: "not found", err: NotFound(""), want: outcomeNotFound},
		{name: "redirect", err: RedirectTo("/x", false), want: outcomeRedirect},
		{name: "public error", err: NewPublicError(http.StatusBadRequest, "bad"), want: outcomeFailed},
		{name: "plain error", err: plain, want: outcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err).kind)
		})
	}
}

func TestSignalConstructors(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		var fe *ForwardError
		assert.ErrorAs(t, Forward("/a"), &fe)
		assert.True(t, fe.ResetResponse)
		assert.ErrorAs(t, ForwardKeepResponse("/a"), &fe)
		assert.False(t, fe.ResetResponse)
		assert.Equal(t, `mux: forward to "/a"`, fe.Error())
	})

	t.Run("not found", func(t *testing.T) {
		var nf *NotFoundError
		assert.ErrorAs(t, NotFound("gone"), &nf)
		assert.True(t, nf.ResetResponse)
		assert.Equal(t, "mux: not found: gone", nf.Error())
		assert.ErrorAs(t, NotFoundKeepResponse(""), &nf)
		assert.False(t, nf.ResetResponse)
		assert.Equal(t, "mux: not found", nf.Error())
	})

	t.Run("redirect", func(t *testing.T) {
		var rd *RedirectError
		assert.ErrorAs(t, RedirectTo("/a", true), &rd)
		assert.Equal(t, http.StatusMovedPermanently, rd.Status)
		assert.ErrorAs(t, RedirectWithStatus("/a", http.StatusTemporaryRedirect), &rd)
		assert.Equal(t, http.StatusTemporaryRedirect, rd.Status)
		assert.ErrorAs(t, RedirectWithStatus("/a", http.StatusOK), &rd)
		assert.Equal(t, http.StatusFound, rd.Status)
	})
}

func TestPublicError(t *testing.T) {
	cause := errors.New("constraint violation")
	pe := WrapPublic(cause, http.StatusConflict, "already exists")

	assert.ErrorIs(t, pe, cause)
	assert.Equal(t, "already exists: constraint violation", pe.Error())
	assert.Equal(t, http.StatusConflict, pe.StatusCode())

	assert.Equal(t, "bad", NewPublicError(http.StatusBadRequest, "bad").Error())
	assert.Equal(t, http.StatusInternalServerError, NewPublicError(0, "x").StatusCode())
	assert.Equal(t, http.StatusInternalServerError, NewPublicError(http.StatusOK, "x").StatusCode())

	wrapped := fmt.Errorf("service: %w", pe)
	got, ok := publicError(wrapped)
	assert.True(t, ok)
	assert.Same(t, pe, got)
	assert.Equal(t, http.StatusConflict, exceptionStatus(wrapped))
	assert.Equal(t, http.StatusInternalServerError, exceptionStatus(cause))
}

func TestPanicError(t *testing.T) {
	pe := &PanicError{Value: "boom"}
	assert.Equal(t, "mux: handler panic: boom", pe.Error())
}
