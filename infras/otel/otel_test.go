package otel_test

import (
	"context"
	"errors"
	"shareit/config"
	"shareit/infras/otel"
	"shareit/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestNewWithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "shareit-test"

	tracer := otel.New(cfg)

	ctx, scope := tracer.NewScope(context.Background(), "service", "service.Test")
	scope.SetAttributes(map[string]any{
		"item.id":   "i1",
		"available": true,
		"count":     3,
		"tags":      []string{"a", "b"},
		"ratio":     0.5,
	})
	scope.AddEvent("checked")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestScope_TraceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantEvent  bool
	}{
		{name: "client failure stays unset", err: failure.NotFound("Item with id i1 not found"), wantStatus: codes.Unset, wantEvent: true},
		{name: "forbidden stays unset", err: failure.Forbidden("Only the owner can approve the booking"), wantStatus: codes.Unset, wantEvent: true},
		{name: "unexpected error marks span", err: errors.New("connection reset"), wantStatus: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			_, span := provider.Tracer("service").Start(context.Background(), "service.Test")
			scope := otel.NewScope(span)
			scope.SetAttribute("booking.start", time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC))
			scope.TraceIfError(tt.err)
			scope.End()

			spans := recorder.Ended()
			require.Len(t, spans, 1)

			assert.Equal(t, tt.wantStatus, spans[0].Status().Code)
			assert.Equal(t, tt.wantEvent, len(spans[0].Events()) == 1)
			assert.Contains(t, spans[0].Attributes(), attribute.String("booking.start", "2026-10-20T10:00:00Z"))
		})
	}
}
