package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	assert.EqualError(t, err, "test error")
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		assert.EqualError(t, wrapped, "wrapped: base error")
		assert.ErrorIs(t, wrapped, baseErr)
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "wrapped"))
	})
}

func TestWrapf(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrapf non-nil error", func(t *testing.T) {
		wrapped := Wrapf(baseErr, "environment %d", 42)
		assert.EqualError(t, wrapped, "environment 42: base error")
		assert.ErrorIs(t, wrapped, baseErr)
	})

	t.Run("wrapf nil error", func(t *testing.T) {
		assert.NoError(t, Wrapf(nil, "environment %d", 42))
	})
}

func TestIs(t *testing.T) {
	wrapped := Wrap(ErrUnavailable, "store")
	assert.True(t, Is(wrapped, ErrUnavailable))
	assert.False(t, Is(wrapped, ErrNotFound))
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "boom"}, "context")

	var target customError
	assert.True(t, As(err, &target))
	assert.Equal(t, "boom", target.Msg)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindInternal},
		{errors.New("plain"), KindInternal},
		{Wrap(ErrNotFound, "environment 7"), KindNotFound},
		{Wrapf(ErrConflict, "rotation of %s", "secret"), KindConflict},
		{Wrap(Wrap(ErrInvalidInput, "name"), "create"), KindInvalidInput},
		{ErrUnauthorized, KindUnauthorized},
		{ErrForbidden, KindForbidden},
		{errors.Join(ErrNotFound, ErrUnavailable), KindUnavailable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}
