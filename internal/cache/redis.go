package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const ordersSnapshotKey = "orders:snapshot"

// RedisCache caches the serialized order list so repeated reads do not hit
// the dataset file. The snapshot is invalidated after every successful save
// and otherwise expires on its TTL. When disabled every call is a no-op
// miss.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
}

// NewRedisCache creates a new Redis cache from configuration.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if !cfg.Enabled {
		return &RedisCache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &RedisCache{
		client:  client,
		ttl:     cfg.TTL,
		enabled: true,
	}, nil
}

// GetOrders retrieves the cached order snapshot. The second return value is
// false on a miss or when caching is disabled.
func (c *RedisCache) GetOrders(ctx context.Context) ([]models.Order, bool) {
	if !c.enabled {
		return nil, false
	}

	data, err := c.client.Get(ctx, ordersSnapshotKey).Bytes()
	if err != nil {
		return nil, false
	}

	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, false
	}

	return orders, true
}

// SetOrders stores the order snapshot with the configured TTL.
func (c *RedisCache) SetOrders(ctx context.Context, orders []models.Order) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(orders)
	if err != nil {
		return errors.Wrap(err, "failed to marshal orders for caching")
	}

	if err := c.client.Set(ctx, ordersSnapshotKey, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to set orders snapshot in Redis")
	}

	return nil
}

// InvalidateOrders drops the cached snapshot after a dataset mutation.
func (c *RedisCache) InvalidateOrders(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	if err := c.client.Del(ctx, ordersSnapshotKey).Err(); err != nil {
		return errors.Wrap(err, "failed to invalidate orders snapshot")
	}

	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if !c.enabled || c.client == nil {
		return nil
	}

	return c.client.Close()
}
