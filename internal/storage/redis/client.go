// Package redis stores user-tunable settings (coefficient overrides and
// feature toggles) in Redis.
package redis

import (
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/rpgstat/internal/config"
)

// Client is the subset of go-redis the settings store depends on.
type Client interface {
	goredis.UniversalClient
}

// NewClient creates a client for a single Redis instance. Connections are
// opened lazily.
func NewClient(cfg config.RedisConfig) (Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}
