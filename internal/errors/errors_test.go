package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate email", ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{"wrapped domain shape", fmt.Errorf("register: %w", ErrInvalidEmailDomain), http.StatusBadRequest, "INVALID_EMAIL_DOMAIN"},
		{"post not found", ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
		{"storage disabled", ErrStorageDisabled, http.StatusServiceUnavailable, "STORAGE_DISABLED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_KeepsUserFacingMessage(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("validate: %w", ErrDuplicateEmail))
	assert.Equal(t, "This email is already registered.", httpErr.Message)
	assert.Equal(t, httpErr.Message, httpErr.Error())
}
