package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"shareit/config"
	"shareit/infras/otel"
	"shareit/internal/gateway"
	"shareit/shared/logger"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer := otel.New(cfg)

	limiter := gateway.NewLimiter(cfg.Gateway.RequestsPerMinute, cfg.Gateway.Burst)
	go limiter.Run(ctx)

	gw, err := gateway.New(cfg, limiter, tracer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize gateway")
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Gateway.Port),
		Handler:           gw.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down gateway")
		}

		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}()

	log.Info().Str("port", cfg.Gateway.Port).Str("upstream", cfg.Gateway.ServerURL).Msg("Starting up gateway.")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start gateway")
	}
}
