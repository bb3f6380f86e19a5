package response

import (
	"encoding/json"
	"net/http"
	"shareit/shared/constant"
	"shareit/shared/failure"
	"shareit/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request. Messages holds one entry per invalid
// field for validation failures and a single "error" entry otherwise.
type Error struct {
	Error    string            `json:"error"`
	Messages map[string]string `json:"messages"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithJSON wraps jsonPayload in the data envelope.
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithNoContent sends an empty 204 response.
func WithNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// WithError maps err to its status code. Errors that are not failures are
// reported as a generic 500 so internal details never reach the client.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	if code == http.StatusInternalServerError {
		logger.ErrorWithStack(err)
		WithErrorMessage(writer, code, constant.ResponseErrorUnexpected)

		return
	}

	if fields := failure.GetFields(err); len(fields) > 0 {
		response(writer, code, Error{Error: err.Error(), Messages: fields})

		return
	}

	WithErrorMessage(writer, code, err.Error())
}

// WithErrorMessage sends an error body with a single message.
func WithErrorMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Error{
		Error:    message,
		Messages: map[string]string{constant.ResponseErrorKey: message},
	})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown answers health probes during the grace period.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

// response writes payload as JSON. An unencodable payload becomes a bare 500.
func response(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		http.Error(writer, constant.ResponseErrorUnexpected, http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
