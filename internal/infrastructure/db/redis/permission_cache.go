package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fleetstack/inventory-api/internal/api/metrics"
	"github.com/fleetstack/inventory-api/internal/core/domain"
)

const defaultCacheTTL = 30 * time.Second

// PermissionCache caches resolved permission sets per role UUID.
// Key format: perms:<role_uuid>, value: JSON array of grants.
//
// The TTL is deliberately short: a revoked grant keeps authorizing for at
// most one TTL window, and explicit invalidation on grant/revoke shortens
// even that.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPermissionCache wraps the given Redis client. A non-positive ttl falls
// back to defaultCacheTTL.
func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &PermissionCache{client: client, ttl: ttl}
}

// Get returns the cached set for the role, with a hit flag.
func (c *PermissionCache) Get(ctx context.Context, roleUUID uuid.UUID) (domain.PermissionSet, bool, error) {
	raw, err := c.client.Get(ctx, c.key(roleUUID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.PermissionCacheTotal.WithLabelValues("miss").Inc()
			return domain.PermissionSet{}, false, nil
		}
		metrics.PermissionCacheTotal.WithLabelValues("error").Inc()
		return domain.PermissionSet{}, false, fmt.Errorf("permission cache get: %w", err)
	}

	var grants []domain.Grant
	if err := json.Unmarshal(raw, &grants); err != nil {
		// A corrupt entry behaves like a miss; the resolver will rewrite it.
		metrics.PermissionCacheTotal.WithLabelValues("error").Inc()
		return domain.PermissionSet{}, false, nil
	}

	metrics.PermissionCacheTotal.WithLabelValues("hit").Inc()
	return domain.NewPermissionSet(grants), true, nil
}

// Set stores the resolved set for the role, expiring after the TTL.
func (c *PermissionCache) Set(ctx context.Context, roleUUID uuid.UUID, set domain.PermissionSet) error {
	raw, err := json.Marshal(set.Grants())
	if err != nil {
		return fmt.Errorf("permission cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(roleUUID), raw, c.ttl).Err()
}

// Invalidate drops the cached set for the role.
func (c *PermissionCache) Invalidate(ctx context.Context, roleUUID uuid.UUID) error {
	return c.client.Del(ctx, c.key(roleUUID)).Err()
}

func (c *PermissionCache) key(roleUUID uuid.UUID) string {
	return "perms:" + roleUUID.String()
}
