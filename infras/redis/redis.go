package redis

import (
	"context"
	"net"
	"shareit/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// Required reports whether a feature depends on redis: read-through caching or the request limiter.
func Required(config *config.Config) bool {
	return config.Cache.TTL > 0 || config.App.RateLimiter.Enable
}

// New connects to the primary redis. An unreachable redis is fatal only when Required says so,
// otherwise the client is returned and cache calls fail softly.
func New(config *config.Config) *goRedis.Client {
	primary := config.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:       net.JoinHostPort(primary.Host, primary.Port),
		Password:   primary.Password,
		DB:         primary.DB,
		ClientName: config.App.Name,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if Required(config) {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}

		log.Warn().Err(err).Msg("Redis unreachable, caching and rate limiting are disabled anyway")

		return client
	}

	log.Info().
		Int("db", primary.DB).
		Str("host", primary.Host).
		Str("port", primary.Port).
		Msg("Connected to Redis")

	return client
}
