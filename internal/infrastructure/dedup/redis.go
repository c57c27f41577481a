package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyTTL bounds how long a surfaced id is remembered in Redis.
// In-process the set never shrinks, but a shared store needs an upper
// bound so abandoned sessions do not accumulate keys forever. The TTL is
// far longer than any seller session.
const defaultKeyTTL = 7 * 24 * time.Hour

// RedisRegistry implements Registry on Redis using SETNX, so panel
// restarts (or multiple panel instances sharing one seller account) do
// not re-alert for ids that were already surfaced.
type RedisRegistry struct {
	client    *redis.Client
	keyPrefix string
	keyTTL    time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRegistry creates a Redis-backed registry and verifies the
// connection.
func NewRedisRegistry(cfg RedisConfig) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRegistry{
		client:    client,
		keyPrefix: "alert:seen:",
		keyTTL:    defaultKeyTTL,
	}, nil
}

// NewRedisRegistryWithClient creates a registry with an existing client.
// Useful for testing or sharing a client across components.
func NewRedisRegistryWithClient(client *redis.Client, keyPrefix string) *RedisRegistry {
	if keyPrefix == "" {
		keyPrefix = "alert:seen:"
	}
	return &RedisRegistry{
		client:    client,
		keyPrefix: keyPrefix,
		keyTTL:    defaultKeyTTL,
	}
}

// ShouldAlert uses SETNX so the check and the record are one atomic
// Redis operation.
func (r *RedisRegistry) ShouldAlert(ctx context.Context, notificationID string) (bool, error) {
	key := r.keyPrefix + notificationID

	isNew, err := r.client.SetNX(ctx, key, "1", r.keyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record notification id: %w", err)
	}
	return isNew, nil
}

// Seen reports whether the id has already been recorded.
func (r *RedisRegistry) Seen(ctx context.Context, notificationID string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.keyPrefix+notificationID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check notification id: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client.
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}

// Ensure RedisRegistry implements Registry
var _ Registry = (*RedisRegistry)(nil)
