package database

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisHelper is nil unless InitRedis ran; callers must check Enabled first.
// Redis is an optional shared report cache in front of the store, useful when
// several server instances sit behind one load balancer.
var RedisHelper *redisUtil

type redisUtil struct {
	client *redis.Client
	ctx    context.Context
}

// Enabled reports whether the optional redis layer is wired up.
func Enabled() bool {
	return RedisHelper != nil
}

func InitRedis(url string) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatal().Msgf("Invalid Redis URL: %v", err)
	}

	if opts.TLSConfig == nil && !isLoopback(opts.Addr) {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	redisClient := redis.NewClient(opts)
	ctx := context.Background()

	_, err = redisClient.Ping(ctx).Result()
	if err != nil {
		log.Fatal().Msgf("Could not connect to Redis: %v", err)
	}

	log.Info().Msg("Connected to Redis")

	RedisHelper = &redisUtil{
		client: redisClient,
		ctx:    ctx,
	}
}

func isLoopback(addr string) bool {
	return strings.HasPrefix(addr, "127.0.0.1") || strings.HasPrefix(addr, "localhost")
}

func (r *redisUtil) Set(key string, value string, expiration time.Duration) error {
	err := r.client.Set(r.ctx, key, value, expiration).Err()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Redis SET failed")
	}
	return err
}

// SetStruct stores value as JSON.
func (r *redisUtil) SetStruct(key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(key, string(raw), expiration)
}

func (r *redisUtil) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Redis GET failed")
		return "", err
	}
	return val, nil
}

// GetAsStruct unmarshals a JSON value into target, reporting whether the key
// existed.
func (r *redisUtil) GetAsStruct(key string, target any) (bool, error) {
	raw, err := r.Get(key)
	if err != nil || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisUtil) Delete(key string) error {
	err := r.client.Del(r.ctx, key).Err()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Redis DEL failed")
	}
	return err
}

func (r *redisUtil) Exists(key string) bool {
	count, err := r.client.Exists(r.ctx, key).Result()
	return err == nil && count > 0
}
