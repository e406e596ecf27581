package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:             http.StatusNotFound,
		ErrCodeValidation:           http.StatusBadRequest,
		ErrCodeIdentityLookupFailed: http.StatusBadRequest,
		ErrCodeNotificationFailed:   http.StatusBadRequest,
		ErrCodeDuplicateAccount:     http.StatusBadRequest,
		ErrCodeTokenMismatch:        http.StatusBadRequest,
		ErrCodeConflict:             http.StatusConflict,
		ErrCodeTooManyAttempt:       http.StatusTooManyRequests,
		ErrCodeDatabaseError:        http.StatusInternalServerError,
	}

	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, string(code))
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ErrCodeDatabaseError, "не удалось сохранить")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCodeOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("usecase: %w", ErrVerificationConflict)

	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}
