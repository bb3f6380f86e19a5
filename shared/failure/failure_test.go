package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"shareit/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("validation failed"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Message: "validation failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}

				return
			}

			f, ok := result.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", result)
			}

			expectedF := tt.expected.(*failure.Failure)
			if f.Code != expectedF.Code || f.Message != expectedF.Message {
				t.Errorf("expected %+v, got %+v", expectedF, f)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	fields := map[string]string{"email": "email must be a valid email address"}

	result := failure.Validation("Validation Error", fields)

	if failure.GetCode(result) != http.StatusBadRequest {
		t.Errorf("expected code to be %d, got %d", http.StatusBadRequest, failure.GetCode(result))
	}

	got := failure.GetFields(result)
	if got["email"] != fields["email"] {
		t.Errorf("expected field message %q, got %q", fields["email"], got["email"])
	}
}

func TestStatusConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request from string", err: failure.BadRequestFromString("Invalid booking dates"), code: http.StatusBadRequest, message: "Invalid booking dates"},
		{name: "not found", err: failure.NotFound("Item with id 1 not found"), code: http.StatusNotFound, message: "Item with id 1 not found"},
		{name: "conflict", err: failure.Conflict("Email already in use by another user"), code: http.StatusConflict, message: "Email already in use by another user"},
		{name: "forbidden", err: failure.Forbidden("Only the owner can approve the booking"), code: http.StatusForbidden, message: "Only the owner can approve the booking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.err.(*failure.Failure)
			if !ok {
				t.Fatalf("expected *failure.Failure, got %T", tt.err)
			}

			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}

			if f.Message != tt.message {
				t.Errorf("expected message to be %q, got %q", tt.message, f.Message)
			}

			if f.Fields != nil {
				t.Errorf("expected no field messages, got %v", f.Fields)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("failed to create booking: %w", failure.NotFound("missing")),
			expected: http.StatusNotFound,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestGetFields_NonFailure(t *testing.T) {
	if fields := failure.GetFields(errors.New("plain")); fields != nil {
		t.Errorf("expected nil fields, got %v", fields)
	}
}

func TestAs(t *testing.T) {
	fail, ok := failure.As(fmt.Errorf("wrap: %w", failure.Conflict("taken")))
	if !ok || fail.Message != "taken" {
		t.Errorf("expected conflict failure, got %v %v", fail, ok)
	}

	if _, ok := failure.As(errors.New("plain")); ok {
		t.Error("expected plain error not to unwrap to a failure")
	}
}
