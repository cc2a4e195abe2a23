package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/pkg/utils"
)

const catalogKeyPrefix = "catalog:"

// CatalogCacheImpl provides a concrete implementation for the CatalogCache interface using Redis.
type CatalogCacheImpl struct {
	client     *redis.Client
	key        string
	versionKey string
}

// NewCatalogCache creates a cache entry scoped to one catalog location, so
// several deployments can share a Redis instance.
func NewCatalogCache(client *redis.Client, catalogPath string) *CatalogCacheImpl {
	key := catalogKeyPrefix + utils.HashKey(catalogPath)
	return &CatalogCacheImpl{client: client, key: key, versionKey: key + ":version"}
}

var _ repository.CatalogCache = (*CatalogCacheImpl)(nil)

func (c *CatalogCacheImpl) Get(ctx context.Context) ([]entity.Product, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []entity.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached catalog: %w", err)
	}
	return products, true, nil
}

func (c *CatalogCacheImpl) Version(ctx context.Context) (int64, error) {
	return readVersion(c.client.Get(ctx, c.versionKey))
}

// Set stores the catalog with an expiry, unless the version moved since the caller
// read it. The version key is watched so a concurrent Invalidate aborts the write.
func (c *CatalogCacheImpl) Set(ctx context.Context, products []entity.Product, version int64, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(tx.Get(ctx, c.versionKey))
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetEx(ctx, c.key, data, ttl)
			return nil
		})
		return err
	}, c.versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate bumps the version and drops the cached catalog in one transaction.
func (c *CatalogCacheImpl) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}

func readVersion(cmd *redis.StringCmd) (int64, error) {
	v, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}
