package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

var _ ports.LedgerCache = (*LedgerCache)(nil)

// DefaultTTL bounds how long committed-order markers are kept. Expiry is safe:
// the storage ledger stays authoritative.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "inventory:decrease:"

// LedgerCache stores committed order markers in Redis. Stock values are never cached.
type LedgerCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewLedgerCache wraps an existing client. A non-positive ttl selects DefaultTTL.
func NewLedgerCache(client goredis.UniversalClient, ttl time.Duration) *LedgerCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LedgerCache{client: client, ttl: ttl}
}

// Connect dials Redis and verifies connectivity.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Committed returns the product the order was applied to.
func (c *LedgerCache) Committed(ctx context.Context, orderID string) (uuid.UUID, bool, error) {
	if err := c.ensureClient(); err != nil {
		return uuid.Nil, false, err
	}
	raw, err := c.client.Get(ctx, key(orderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis get error: %w", err)
	}
	productID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt ledger marker for order %q: %w", orderID, err)
	}
	return productID, true, nil
}

// MarkCommitted records the order. Markers are written once and never overwritten.
func (c *LedgerCache) MarkCommitted(ctx context.Context, orderID string, productID uuid.UUID) error {
	if err := c.ensureClient(); err != nil {
		return err
	}
	if err := c.client.SetNX(ctx, key(orderID), productID.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (c *LedgerCache) ensureClient() error {
	if c == nil || c.client == nil {
		return errors.New("redis ledger cache not configured")
	}
	return nil
}

func key(orderID string) string {
	return keyPrefix + orderID
}
