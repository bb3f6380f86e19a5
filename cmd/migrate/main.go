package main

import (
	"os"
	"shareit/config"
	"shareit/helper"
	"shareit/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction is required. Use 'up', 'down', 'drop' or 'step-up'")
	}

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
