package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageBackendBolt  = "bolt"
	StorageBackendRedis = "redis"
)

type StorageConfig struct {
	Backend string `envconfig:"STORAGE_BACKEND" default:"bolt"`

	// Bolt
	DBPath string `envconfig:"ROUTE_DB_PATH" default:"./data/route-engine.db"`

	// Redis
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string        `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RouteTTL      time.Duration `envconfig:"ROUTE_TTL" default:"72h"`
}

func (c *StorageConfig) Key() string {
	return STORAGE_CONFIG_KEY
}

func (c *StorageConfig) Load() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case StorageBackendBolt, StorageBackendRedis:
		return nil
	default:
		return errors.New("STORAGE_BACKEND must be bolt or redis")
	}
}

func (c *StorageConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
