package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"shareit/shared/failure"
	"shareit/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.Error {
	t.Helper()

	var body response.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantError    string
		wantMessages map[string]string
	}{
		{
			name:         "not found",
			err:          failure.NotFound("User with id u1 not found"),
			wantCode:     http.StatusNotFound,
			wantError:    "User with id u1 not found",
			wantMessages: map[string]string{"error": "User with id u1 not found"},
		},
		{
			name:         "wrapped conflict",
			err:          fmt.Errorf("create: %w", failure.Conflict("Email already in use by another user")),
			wantCode:     http.StatusConflict,
			wantError:    "Email already in use by another user",
			wantMessages: map[string]string{"error": "Email already in use by another user"},
		},
		{
			name:         "validation",
			err:          failure.Validation("Validation Error", map[string]string{"email": "email must be a valid email address"}),
			wantCode:     http.StatusBadRequest,
			wantError:    "Validation Error",
			wantMessages: map[string]string{"email": "email must be a valid email address"},
		},
		{
			name:         "forbidden",
			err:          failure.Forbidden("Only the owner can approve the booking"),
			wantCode:     http.StatusForbidden,
			wantError:    "Only the owner can approve the booking",
			wantMessages: map[string]string{"error": "Only the owner can approve the booking"},
		},
		{
			name:         "unexpected",
			err:          errors.New("pq: connection refused"),
			wantCode:     http.StatusInternalServerError,
			wantError:    "unexpected error occurred",
			wantMessages: map[string]string{"error": "unexpected error occurred"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantMessages, body.Messages)
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "u1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"u1"}}`, rec.Body.String())
}

func TestWithNoContent(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithNoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "REQUEST LIMIT EXCEEDED", decodeError(t, rec).Error)
}

func TestWithJSON_UnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Header().Get("Content-Type"), "application/json")
}
