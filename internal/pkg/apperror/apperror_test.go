package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBecause(t *testing.T) {
	sentinel := WithAction(http.StatusConflict, "slot taken", ActionPickAnotherTime)
	cause := errors.New("exclusion violation")

	err := Because(sentinel, cause)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "slot taken: exclusion violation", err.Error())

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, ActionPickAnotherTime, appErr.Action)

	// The sentinel itself is never mutated.
	assert.Nil(t, sentinel.Err)
}

func TestBecause_Nested(t *testing.T) {
	inner := New(http.StatusConflict, "time slot already booked")
	outer := WithAction(http.StatusConflict, "slot is no longer available", ActionPickAnotherTime)

	err := Because(outer, Because(inner, errors.New("23P01")))

	assert.ErrorIs(t, err, outer)
	assert.ErrorIs(t, err, inner)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "slot is no longer available", appErr.Message)
}

func TestError(t *testing.T) {
	assert.Equal(t, "plain", New(http.StatusBadRequest, "plain").Error())

	withCause := &AppError{Code: http.StatusInternalServerError, Message: "failed", Err: errors.New("boom")}
	assert.Equal(t, "failed: boom", withCause.Error())
	assert.Equal(t, "boom", errors.Unwrap(withCause).Error())
}
