package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kolamarket/shopdesk/pkg/config"
	"github.com/kolamarket/shopdesk/pkg/types"
)

const redisTokenKey = "shopdesk:tokens"

// RedisStore keeps the token pair in Redis, for shared-desk deployments where a
// local token file is not appropriate.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, key: redisTokenKey}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return parsed, nil
	}
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func (s *RedisStore) Load(ctx context.Context) (*types.TokenPair, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tokens from redis: %w", err)
	}
	var pair types.TokenPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		return nil, fmt.Errorf("decoding tokens from redis: %w", err)
	}
	return &pair, nil
}

func (s *RedisStore) Save(ctx context.Context, pair types.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encoding tokens: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("writing tokens to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clearing tokens from redis: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
