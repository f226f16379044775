package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type RedisConfig struct {
	Host                  string `envconfig:"PARSER_REDIS_HOST" required:"true"`
	Port                  string `envconfig:"PARSER_REDIS_PORT" default:"6379"`
	Password              string `envconfig:"PARSER_REDIS_PASSWORD" default:""`
	DB                    int    `envconfig:"PARSER_REDIS_DB" default:"0"`
	LockExpirationSeconds int    `envconfig:"PARSER_REDIS_LOCK_EXPIRATION" default:"3"`
}

// RedisStore keeps blobs as redis strings; writers serialize on a lock
// per key.
type RedisStore struct {
	client         redis.UniversalClient
	locker         *redislock.Client
	lockExpiration time.Duration
}

var _ Store = &RedisStore{}

func NewRedisStore() (*RedisStore, error) {
	var cfg RedisConfig
	if err := envconfig.Process("", &cfg); err != nil {
		storeLogger.Err(err).Msg("Failed to get redis variables from environment")
		return nil, err
	}
	client := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:   cfg.Password,
		DB:         cfg.DB,
		MaxRetries: 6,
	})
	return NewRedisStoreWith(client, time.Duration(cfg.LockExpirationSeconds)*time.Second), nil
}

func NewRedisStoreWith(client redis.UniversalClient, lockExpiration time.Duration) *RedisStore {
	return &RedisStore{
		client:         client,
		locker:         redislock.New(client),
		lockExpiration: lockExpiration,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: redis key %s", ErrNotFound, key)
	}
	return data, err
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) (err error) {
	retry := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lock, err := s.locker.Obtain(ctx, "lock:"+key, s.lockExpiration, &redislock.Options{RetryStrategy: retry})
	if err != nil {
		return fmt.Errorf("locking %s: %w", key, err)
	}
	defer func() {
		if releaseErr := lock.Release(ctx); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return err
	}
	storeLogger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Stored blob in redis")
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
