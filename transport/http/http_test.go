package http_test

import (
	"net/http"
	"net/http/httptest"
	"shareit/config"
	"shareit/infras/kafka"
	"shareit/infras/metrics"
	"shareit/infras/otel/mocks"
	"shareit/shared/testdb"
	shareitHTTP "shareit/transport/http"
	"shareit/transport/http/middleware"
	"shareit/transport/http/router"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	cfg := &config.Config{}
	ot := mocks.NewOtel()
	collector := metrics.NewCollector(prometheus.NewRegistry())

	r := router.New(router.DomainHandlers{}, middleware.NewAppMiddleware(ot, cfg, nil, collector), collector, cfg)
	server := shareitHTTP.New(cfg, r, testdb.New(t), ot, kafka.New(cfg))

	handler := server.Handler()

	tests := []struct {
		name     string
		state    shareitHTTP.ServerState
		wantCode int
		wantBody string
	}{
		{name: "ready", state: shareitHTTP.ServerStateReady, wantCode: http.StatusOK, wantBody: "OK"},
		{name: "grace period", state: shareitHTTP.ServerStateInGracePeriod, wantCode: http.StatusServiceUnavailable, wantBody: "SERVER PREPARING TO SHUT DOWN"},
		{name: "cleanup period", state: shareitHTTP.ServerStateInCleanupPeriod, wantCode: http.StatusServiceUnavailable, wantBody: "SERVER UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server.SetState(tt.state)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}
