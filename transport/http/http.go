package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"shareit/config"
	"shareit/infras/kafka"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/shared/constant"
	"shareit/transport/http/response"
	"shareit/transport/http/router"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	db     *postgres.Connection
	otel   otel.Otel
	kafka  kafka.Client
	state  atomic.Int32
	mux    *chi.Mux
	server *http.Server
}

func New(cfg *config.Config, r router.Router, db *postgres.Connection, otel otel.Otel, kafka kafka.Client) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		db:     db,
		otel:   otel,
		kafka:  kafka,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) SetState(state ServerState) {
	h.state.Store(int32(state))
}

func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	h.setupGracefulShutdown()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// Handler returns the fully routed handler without listening, for tests and embedding.
func (h *HTTP) Handler() http.Handler {
	h.setup()

	return h.mux
}

func (h *HTTP) setup() {
	if h.mux != nil {
		return
	}

	h.mux = chi.NewRouter()
	h.Router.SetupRoutes(h.mux)
	h.mux.Get("/health", h.health)

	h.SetState(ServerStateReady)
}

func (h *HTTP) health(writer http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(writer, http.StatusOK, "OK")
	case ServerStateInGracePeriod:
		response.WithPreparingShutdown(writer)
	default:
		response.WithUnhealthy(writer)
	}
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
		h.shutdown()

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.SetState(ServerStateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.SetState(ServerStateInCleanupPeriod)

	time.Sleep(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	h.shutdown()

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server")
	}

	if err := h.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connections")
	}

	if err := h.kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	if err := h.otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
