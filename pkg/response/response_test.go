package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"id": "123"})

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Message)
	assert.Nil(t, resp.Errors)
}

func TestSuccessWithMessage(t *testing.T) {
	resp := SuccessWithMessage(nil, "Role created successfully")

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, "Role created successfully", resp.Message)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestValidationFailed(t *testing.T) {
	resp := ValidationFailed(map[string]string{
		"name": "name is required",
		"file": "file exceeds maximum size",
	})

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "Validation error", resp.Message)
	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, "name is required", resp.Errors["name"])
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusUnprocessableEntity},
		{ErrCodeValidationFailed, http.StatusUnprocessableEntity},
		{ErrCodeResourceLocked, http.StatusLocked},
		{ErrCodeStorageError, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestCommonErrorResponses_DefaultMessages(t *testing.T) {
	assert.Equal(t, "Authentication required", Unauthorized("").Message)
	assert.Equal(t, "Access denied", Forbidden("").Message)
	assert.Equal(t, "Resource not found", NotFound("").Message)
	assert.Equal(t, "Resource already exists", Conflict("").Message)
	assert.Equal(t, "An internal error occurred", InternalError("").Message)
}
