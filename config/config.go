package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const envFile = ".env"

// PostgresNode is one side of the read/write database split.
type PostgresNode struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME" default:"shareit"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV" default:"development" validate:"oneof=development production"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT" default:"9090"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5" validate:"gte=0"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS" default:"5" validate:"gte=0"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"shareit"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS" validate:"gte=0"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS" default:"100" validate:"required_if=Enable true,gte=0"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60" validate:"required_if=Enable true,gte=0"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST" default:"localhost"`
				Port     string `envconfig:"PORT" default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB" validate:"gte=0"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		// TTL in seconds. Zero or less disables read-through caching.
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY" default:"3" validate:"gte=0"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"5" validate:"gte=0"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS" validate:"required_if=Enable true"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topic struct {
			Booking string `envconfig:"BOOKING" default:"shareit.booking"`
		} `envconfig:"TOPIC"`
	} `envconfig:"KAFKA"`

	Gateway struct {
		Port              string `envconfig:"PORT" default:"8080"`
		ServerURL         string `envconfig:"SERVER_URL" default:"http://localhost:9090" validate:"omitempty,url"`
		RequestsPerMinute int    `envconfig:"REQUESTS_PER_MINUTE" validate:"gte=0"`
		Burst             int    `envconfig:"BURST" validate:"gte=0"`
	} `envconfig:"GATEWAY"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

// Load reads the process environment into a fresh Config, applies defaults
// and validates the result. It does not touch the shared instance.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var (
	conf    *Config
	once    sync.Once
	initErr error
)

// Init loads .env when present and then the shared configuration, once per process.
func Init() error {
	once.Do(func() {
		switch err := godotenv.Load(envFile); {
		case err == nil:
			log.Info().Str("file", envFile).Msg("Loaded variables from env file")
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("file", envFile).Msg("No env file, using process environment")
		default:
			log.Warn().Err(err).Str("file", envFile).Msg("Could not load env file, continuing with process environment")
		}

		conf, initErr = Load()
		if initErr == nil {
			log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
		}
	})

	return initErr
}

// Get returns the shared configuration and exits the process when it cannot be loaded.
func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return conf
}
