// pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"skillpay-wallet/internal/util"
)

// PendingPayment is the cached view of an initiated gateway payment, kept
// around until its callback arrives or the TTL expires.
type PendingPayment struct {
	Reference  string          `json:"reference"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// ReferenceCache stores pending gateway references for quick callback
// correlation.
type ReferenceCache interface {
	StorePending(ctx context.Context, p PendingPayment) error
	GetPending(ctx context.Context, reference string) (*PendingPayment, error)
	Delete(ctx context.Context, reference string) error
}

// RedisCache implements ReferenceCache on a Redis instance.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func key(reference string) string {
	return "payment:pending:" + reference
}

// StorePending caches an initiated payment under its reference.
func (c *RedisCache) StorePending(ctx context.Context, p PendingPayment) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending payment: %w", err)
	}
	if err := c.client.Set(ctx, key(p.Reference), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache pending payment %s: %w", p.Reference, err)
	}
	return nil
}

// GetPending looks up a cached payment by reference.
func (c *RedisCache) GetPending(ctx context.Context, reference string) (*PendingPayment, error) {
	raw, err := c.client.Get(ctx, key(reference)).Result()
	if err == redis.Nil {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read pending payment %s: %w", reference, err)
	}
	var p PendingPayment
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("unmarshal pending payment %s: %w", reference, err)
	}
	return &p, nil
}

// Delete drops a cached reference once its callback has been handled.
func (c *RedisCache) Delete(ctx context.Context, reference string) error {
	return c.client.Del(ctx, key(reference)).Err()
}

// Close releases the underlying connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
