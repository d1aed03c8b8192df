package cache

import (
	"context"
	"courier-slot-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const travelKeyPrefix = "courier:travel:"

// RedisTravelCache shares travel estimates between service instances.
// Any Redis error trips the cache into a disabled state where every
// lookup is a miss; estimates are recomputable, so this only costs latency.
type RedisTravelCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.RWMutex
	disabled bool
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisTravelCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisTravelCache {
	if ttl <= 0 {
		ttl = DefaultTravelTTL
	}
	return &RedisTravelCache{
		client: client,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("component", "redis_travel_cache").Logger(),
	}
}

// IsAvailable returns true while the cache has not been tripped.
func (c *RedisTravelCache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

// trip disables the cache after a Redis failure. A cancelled caller is not
// a Redis failure.
func (c *RedisTravelCache) trip(err error, op string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	c.mu.Lock()
	already := c.disabled
	c.disabled = true
	c.mu.Unlock()

	if !already {
		c.logger.Warn().Err(err).Str("operation", op).Msg("disabling redis travel cache")
	}
}

func (c *RedisTravelCache) Get(ctx context.Context, origin, destination string) (domain.TravelEstimate, bool) {
	if !c.IsAvailable() {
		return domain.TravelEstimate{}, false
	}

	data, err := c.client.Get(ctx, travelKeyPrefix+domain.TravelKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.TravelEstimate{}, false
	}
	if err != nil {
		c.trip(err, "get")
		return domain.TravelEstimate{}, false
	}

	var est domain.TravelEstimate
	if err := json.Unmarshal(data, &est); err != nil {
		c.logger.Debug().Err(err).Str("origin", origin).Str("destination", destination).Msg("discarding undecodable estimate")
		return domain.TravelEstimate{}, false
	}
	if c.now().Sub(est.ComputedAt) >= c.ttl {
		return domain.TravelEstimate{}, false
	}
	return est, true
}

func (c *RedisTravelCache) Put(ctx context.Context, est domain.TravelEstimate) {
	if !c.IsAvailable() {
		return
	}

	remaining := c.ttl - c.now().Sub(est.ComputedAt)
	if remaining <= 0 {
		return
	}

	data, err := json.Marshal(est)
	if err != nil {
		return
	}

	key := travelKeyPrefix + domain.TravelKey(est.Origin, est.Destination)
	if err := c.client.Set(ctx, key, data, remaining).Err(); err != nil {
		c.trip(err, "set")
	}
}
