package logger

import (
	"io"
	"os"
	"shareit/config"
	"shareit/shared/constant"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger writes human readable lines in development and JSON everywhere else.
// Every line carries the application name.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := io.Writer(os.Stdout)
	if cfg.Server.Env == "" || cfg.Server.Env == constant.ServerEnvDevelopment {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	logCtx := zerolog.New(output).With().Timestamp()
	if cfg.App.Name != "" {
		logCtx = logCtx.Str("app", cfg.App.Name)
	}

	log.Logger = logCtx.Logger()
	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(config.Server.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no usable log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
