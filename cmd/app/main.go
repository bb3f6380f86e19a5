package main

import (
	"shareit/config"
	"shareit/di"
	"shareit/helper"
	"shareit/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
