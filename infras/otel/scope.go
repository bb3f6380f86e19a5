package otel

import (
	"fmt"
	"net/http"
	"shareit/shared/failure"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	eventRejected        = "request.rejected"
	attributeFailureCode = "failure.code"
	attributeFailureMsg  = "failure.message"
)

type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func (s *scopeImpl) End() {
	s.span.End()
}

// TraceError marks the span failed for unexpected errors only. Client-side failures such as
// a missing item or a forbidden approval are recorded as an event and leave the span status unset.
func (s *scopeImpl) TraceError(err error) {
	if code := failure.GetCode(err); code < http.StatusInternalServerError {
		s.span.AddEvent(eventRejected, oteltrace.WithAttributes(
			attribute.Int(attributeFailureCode, code),
			attribute.String(attributeFailureMsg, err.Error()),
		))

		return
	}

	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scopeImpl) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, toAttribute(key, value))
	}

	s.span.SetAttributes(kvs...)
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch val := value.(type) {
	case bool:
		return attribute.Bool(key, val)
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case float64:
		return attribute.Float64(key, val)
	case []string:
		return attribute.StringSlice(key, val)
	case time.Time:
		return attribute.String(key, val.UTC().Format(time.RFC3339))
	case time.Duration:
		return attribute.Int64(key, val.Milliseconds())
	default:
		return attribute.String(key, fmt.Sprintf("%v", val))
	}
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{
		span: span,
	}
}
