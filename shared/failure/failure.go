// Package failure carries errors that map onto an HTTP status.
package failure

import (
	"errors"
	"net/http"
)

// Failure is a domain error with the HTTP status it should surface as.
// Fields carries per-field validation details and is empty for every other kind of failure.
type Failure struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// As unwraps err to its Failure, if any.
func As(err error) (*Failure, bool) {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail, true
	}

	return nil, false
}

func fromError(code int, err error) error {
	if err == nil {
		return nil
	}

	return New(code, err.Error())
}

// BadRequest turns err into a 400 failure; nil stays nil.
func BadRequest(err error) error {
	return fromError(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

// Validation is a 400 failure with one message per invalid field.
func Validation(msg string, fields map[string]string) error {
	fail := New(http.StatusBadRequest, msg)
	fail.Fields = fields

	return fail
}

func NotFound(message string) error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) error {
	return New(http.StatusConflict, message)
}

func Forbidden(message string) error {
	return New(http.StatusForbidden, message)
}

// GetCode returns the status carried by err, or 500 when err is not a Failure.
func GetCode(err error) int {
	if fail, ok := As(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetFields returns the per-field details of a validation failure, or nil.
func GetFields(err error) map[string]string {
	if fail, ok := As(err); ok {
		return fail.Fields
	}

	return nil
}
