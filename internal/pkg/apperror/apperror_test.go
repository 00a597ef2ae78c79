package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := NotFound("Note not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))

	wrapped := fmt.Errorf("show note: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{Validation("bad"), KindValidation},
		{Unauthorized("who"), KindUnauthorized},
		{Forbidden("no"), KindForbidden},
		{Conflict("dup"), KindConflict},
		{Internal("db", errors.New("boom")), KindInternal},
		{errors.New("plain"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternal_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to save note", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save note: connection refused", err.Error())
}
