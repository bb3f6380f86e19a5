package validator_test

import (
	"net/http"
	"shareit/shared/failure"
	"shareit/shared/validator"
	"strings"
	"testing"
)

type signUpRequest struct {
	Name  string `json:"name"  validate:"notblank"`
	Email string `json:"email" validate:"required,email"`
}

type itemRequest struct {
	Name      string `json:"name"        validate:"notblank"`
	Available *bool  `json:"available"   validate:"required"`
	RequestID string `json:"request_id"  validate:"omitempty,uuid"`
}

func TestValidateStruct(t *testing.T) {
	available := true

	tests := []struct {
		name        string
		data        *itemRequest
		expectError bool
	}{
		{
			name:        "valid struct",
			data:        &itemRequest{Name: "Hammer", Available: &available},
			expectError: false,
		},
		{
			name:        "blank name",
			data:        &itemRequest{Name: "   ", Available: &available},
			expectError: true,
		},
		{
			name:        "missing availability",
			data:        &itemRequest{Name: "Hammer"},
			expectError: true,
		},
		{
			name:        "malformed request id",
			data:        &itemRequest{Name: "Hammer", Available: &available, RequestID: "42"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateStruct_AggregatesFields(t *testing.T) {
	err := validator.ValidateStruct(&signUpRequest{Name: "", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}

	if err.Error() != "Validation Error" {
		t.Errorf("expected category message, got %q", err.Error())
	}

	fields := failure.GetFields(err)
	if len(fields) != 2 {
		t.Fatalf("expected two field messages, got %v", fields)
	}

	if fields["name"] != "name must not be blank" {
		t.Errorf("unexpected name message %q", fields["name"])
	}

	if fields["email"] != "email must be a valid email address" {
		t.Errorf("unexpected email message %q", fields["email"])
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{name: "valid uuid", field: "7d444840-9dc0-11d1-b245-5ffdce74fad2", tag: "uuid", expectError: false},
		{name: "invalid uuid", field: "1", tag: "uuid", expectError: true},
		{name: "positive size", field: 10, tag: "gt=0", expectError: false},
		{name: "zero size", field: 0, tag: "gt=0", expectError: true},
		{name: "valid state", field: "CURRENT", tag: "oneof=ALL CURRENT PAST FUTURE WAITING REJECTED", expectError: false},
		{name: "invalid state", field: "SOON", tag: "oneof=ALL CURRENT PAST FUTURE WAITING REJECTED", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"name":"John Doe","email":"john@example.com"}`,
			expectError: false,
		},
		{
			name:        "invalid email",
			jsonBody:    `{"name":"John Doe","email":"invalid-email"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"name":"John Doe","email":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data signUpRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate_MalformedBodyIsBadRequest(t *testing.T) {
	var data signUpRequest

	err := validator.Validate(strings.NewReader(`{`), &data)
	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}

	if failure.GetFields(err) != nil {
		t.Errorf("decode failures carry no field messages, got %v", failure.GetFields(err))
	}
}
