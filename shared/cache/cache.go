package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"shareit/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	otelCacheHitAttribute = "cache.hit"

	clearBatchSize = 100
)

// Nil is returned by Get when the key does not exist or has expired.
const Nil = redis.Nil

type RedisCache interface {
	// Save stores value under key for ttlSeconds; strings are stored raw, anything else as JSON.
	Save(ctx context.Context, key string, value any, ttlSeconds int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	// Clear removes every key matching the glob pattern.
	Clear(ctx context.Context, pattern string) error
	// Increment bumps a counter and starts its window on the first hit.
	Increment(ctx context.Context, key string, windowSeconds int) (int64, error)
}

// IsMiss reports whether err means the key was absent.
func IsMiss(err error) bool {
	return errors.Is(err, Nil)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

func (c *redisCache) scope(ctx context.Context, operation, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+operation)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	return ctx, scope
}

func (c *redisCache) Save(ctx context.Context, key string, value any, ttlSeconds int) (err error) {
	ctx, scope := c.scope(ctx, "Save", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payload, err := encode(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode cache value")

		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	if err = c.client.Set(ctx, key, payload, time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set cache value")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("key", key).Int("ttl", ttlSeconds).Msg("cache value stored")

	return nil
}

func (c *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.scope(ctx, "Get", key)
	defer scope.End()

	payload, err := c.client.Get(ctx, key).Bytes()

	scope.SetAttribute(otelCacheHitAttribute, err == nil)

	switch {
	case IsMiss(err):
		return Nil //nolint:wrapcheck
	case err != nil:
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to get cache value")

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if err = decode(payload, value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to decode cache value")

		return fmt.Errorf("failed to decode cache value: %w", err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := c.scope(ctx, "Delete", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache value")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

func (c *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := c.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	batch := make([]string, 0, clearBatchSize)
	removed := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to unlink cache keys: %w", err)
		}

		removed += len(batch)
		batch = batch[:0]

		return nil
	}

	iter := c.client.Scan(ctx, 0, pattern, clearBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) == clearBatchSize {
			if err = flush(); err != nil {
				log.Error().Err(err).Str("pattern", pattern).Msg("failed to clear cache")

				return err
			}
		}
	}

	if err = iter.Err(); err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("failed to scan cache keys")

		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if err = flush(); err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("failed to clear cache")

		return err
	}

	log.Debug().Str("pattern", pattern).Int("removed", removed).Msg("cache cleared")

	return nil
}

func (c *redisCache) Increment(ctx context.Context, key string, windowSeconds int) (count int64, err error) {
	ctx, scope := c.scope(ctx, "Increment", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if count, err = c.client.Incr(ctx, key).Result(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to increment counter")

		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	if count == 1 {
		if err = c.client.Expire(ctx, key, time.Duration(windowSeconds)*time.Second).Err(); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to start counter window")

			return count, fmt.Errorf("failed to start counter window: %w", err)
		}
	}

	return count, nil
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v) //nolint:wrapcheck
	}
}

func decode(payload []byte, value any) error {
	switch v := value.(type) {
	case *string:
		*v = string(payload)
	case *[]byte:
		*v = payload
	default:
		return json.Unmarshal(payload, value) //nolint:wrapcheck
	}

	return nil
}
