package apperr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/medicore/pkg/apperr"
)

func TestKindStatusMapping(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Internal:         http.StatusInternalServerError,
		apperr.Validation:       http.StatusBadRequest,
		apperr.NotFound:         http.StatusNotFound,
		apperr.UnknownReference: http.StatusNotAcceptable,
		apperr.Conflict:         http.StatusConflict,
		apperr.Unauthorized:     http.StatusUnauthorized,
		apperr.Forbidden:        http.StatusForbidden,
		apperr.Unavailable:      http.StatusServiceUnavailable,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), "kind %s", kind)
	}
}

func TestMessageOfHidesInternals(t *testing.T) {
	// A raw error must never leak its text to clients.
	raw := errors.New("pq: connection refused on 10.0.0.3:5432")
	assert.Equal(t, "Internal Server Error", apperr.MessageOf(raw))

	// Internal-kind errors keep the constant body too.
	wrapped := apperr.Wrap(apperr.Internal, "checkout: persist order", raw)
	assert.Equal(t, "Internal Server Error", apperr.MessageOf(wrapped))

	// Client-facing kinds keep their message.
	nf := apperr.New(apperr.NotFound, "offer not found")
	assert.Equal(t, "offer not found", apperr.MessageOf(nf))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := apperr.Wrap(apperr.Unavailable, "payment gateway unreachable", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, apperr.Unavailable, apperr.KindOf(err))
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, apperr.Internal, apperr.KindOf(errors.New("plain")))
}
