package persistence

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog/log"

	"github.com/cantonlink/route-engine/internal/domain"
	"github.com/cantonlink/route-engine/internal/metrics"
)

const routeKeyPrefix = "route:"

// RedisStore keeps route records under "route:<routeId>" with a TTL, so
// expiry doubles as garbage collection.
type RedisStore struct {
	pool *redis.Pool
	ttl  time.Duration
}

func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	pool := &redis.Pool{
		MaxIdle:     5,
		MaxActive:   20,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			opts := []redis.DialOption{
				redis.DialConnectTimeout(5 * time.Second),
				redis.DialReadTimeout(5 * time.Second),
				redis.DialWriteTimeout(5 * time.Second),
			}
			if password != "" {
				opts = append(opts, redis.DialPassword(password))
			}
			return redis.Dial("tcp", addr, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	conn := pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Str("addr", addr).Dur("ttl", ttl).Msg("[routeStore] connected to redis")

	return &RedisStore{pool: pool, ttl: ttl}, nil
}

func (s *RedisStore) Save(route *domain.PersistedRoute) error {
	data, err := sonic.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route %s: %w", route.RouteID, err)
	}

	conn := s.pool.Get()
	defer conn.Close()

	key := routeKeyPrefix + route.RouteID
	if s.ttl > 0 {
		_, err = conn.Do("SET", key, data, "EX", int64(s.ttl.Seconds()))
	} else {
		_, err = conn.Do("SET", key, data)
	}
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to save route %s: %w", route.RouteID, err)
	}
	metrics.RoutesPersisted.Inc()
	return nil
}

func (s *RedisStore) Get(routeID string) (*domain.PersistedRoute, error) {
	conn := s.pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", routeKeyPrefix+routeID))
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to get route %s: %w", routeID, err)
	}

	var route domain.PersistedRoute
	if err := sonic.Unmarshal(data, &route); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route %s: %w", routeID, err)
	}
	return &route, nil
}

func (s *RedisStore) List() ([]*domain.PersistedRoute, error) {
	conn := s.pool.Get()
	defer conn.Close()

	keys, err := redis.Strings(conn.Do("KEYS", routeKeyPrefix+"*"))
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to list route keys: %w", err)
	}

	routes := make([]*domain.PersistedRoute, 0, len(keys))
	for _, key := range keys {
		data, err := redis.Bytes(conn.Do("GET", key))
		if errors.Is(err, redis.ErrNil) {
			continue // expired between KEYS and GET
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", key, err)
		}

		var route domain.PersistedRoute
		if err := sonic.Unmarshal(data, &route); err != nil {
			log.Error().Str("key", key).Err(err).Msg("[routeStore] failed to unmarshal route, skipping")
			continue
		}
		routes = append(routes, &route)
	}

	return routes, nil
}

func (s *RedisStore) Close() error {
	return s.pool.Close()
}
