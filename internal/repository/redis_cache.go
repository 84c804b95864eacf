package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/redis/go-redis/v9"
)

const catalogKeyPrefix = "catalog:packages:"

// RedisCatalogCache caches package catalog listings in Redis
type RedisCatalogCache struct {
	client *redis.Client
}

// NewRedisCatalogCache creates a new catalog cache
func NewRedisCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{client: client}
}

func catalogKey(serviceType string) string {
	if serviceType == "" {
		serviceType = "all"
	}
	return catalogKeyPrefix + serviceType
}

// GetPackageList returns the cached listing, or (nil, nil) on a miss
func (c *RedisCatalogCache) GetPackageList(ctx context.Context, serviceType string) ([]*domain.PackageDetail, error) {
	data, err := c.client.Get(ctx, catalogKey(serviceType)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var list []*domain.PackageDetail
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode catalog cache: %w", err)
	}
	return list, nil
}

func (c *RedisCatalogCache) SetPackageList(ctx context.Context, serviceType string, list []*domain.PackageDetail, ttl time.Duration) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode catalog cache: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey(serviceType), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// InvalidatePackageLists drops every cached listing variant
func (c *RedisCatalogCache) InvalidatePackageLists(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, catalogKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan catalog cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}
