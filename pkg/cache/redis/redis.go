/*
 * Copyright 2024 The Venuemaps Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package redis is the redis implementation of the venuemaps cache
// and supports Standalone, Sentinel and Cluster
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/status"

	"github.com/redis/go-redis/v9"
)

// CacheClient implements the cache.Client interface
var _ cache.Client = &CacheClient{}

const scanBatch = 256

// CacheClient represents a redis cache client that conforms to the cache.Client interface
type CacheClient struct {
	Name   string
	Config *options.Options
	client redis.UniversalClient
}

// New returns a new redis cache client
func New(name string, cfg *options.Options) *CacheClient {
	if cfg == nil {
		cfg = options.New()
	}
	return &CacheClient{
		Name:   name,
		Config: cfg,
	}
}

// Configuration returns the Cache's Options
func (c *CacheClient) Configuration() *options.Options {
	return c.Config
}

// Connect connects to the configured Redis endpoint
func (c *CacheClient) Connect() error {
	switch clientTypeFromString(c.Config.Redis.ClientType) {
	case clientTypeSentinel:
		opts, err := c.sentinelOpts()
		if err != nil {
			return err
		}
		c.client = redis.NewFailoverClient(opts)
	case clientTypeCluster:
		opts, err := c.clusterOpts()
		if err != nil {
			return err
		}
		c.client = redis.NewClusterClient(opts)
	default:
		opts, err := c.clientOpts()
		if err != nil {
			return err
		}
		c.client = redis.NewClient(opts)
	}
	return c.client.Ping(context.Background()).Err()
}

func (c *CacheClient) key(cacheKey string) string {
	return c.Config.Redis.KeyPrefix + cacheKey
}

// Store places the data into the Redis Cache using the provided Key and TTL
func (c *CacheClient) Store(cacheKey string, data []byte, ttl time.Duration) error {
	if c.client == nil {
		return cache.ErrNotConnected
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(context.Background(), c.key(cacheKey), data, ttl).Err()
}

// Retrieve gets data from the Redis Cache using the provided Key.
// Redis manages object expiration internally.
func (c *CacheClient) Retrieve(cacheKey string) ([]byte, status.LookupStatus, error) {
	if c.client == nil {
		return nil, status.LookupStatusError, cache.ErrNotConnected
	}
	data, err := c.client.Get(context.Background(), c.key(cacheKey)).Bytes()
	if err == nil {
		return data, status.LookupStatusHit, nil
	}
	if errors.Is(err, redis.Nil) {
		return nil, status.LookupStatusKeyMiss, cache.ErrKNF
	}
	return nil, status.LookupStatusError, err
}

// Remove deletes the provided keys
func (c *CacheClient) Remove(cacheKeys ...string) error {
	if c.client == nil {
		return cache.ErrNotConnected
	}
	if len(cacheKeys) == 0 {
		return nil
	}
	keys := make([]string, len(cacheKeys))
	for i, k := range cacheKeys {
		keys[i] = c.key(k)
	}
	ctx := context.Background()
	if _, ok := c.client.(*redis.ClusterClient); ok {
		// multi-key DEL must not cross hash slots in a cluster
		for _, k := range keys {
			if err := c.client.Del(ctx, k).Err(); err != nil {
				return err
			}
		}
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Keys returns the keys beginning with prefix, with the configured key prefix removed
func (c *CacheClient) Keys(prefix string) ([]string, error) {
	if c.client == nil {
		return nil, cache.ErrNotConnected
	}
	ctx := context.Background()
	match := escapeGlob(c.key(prefix)) + "*"
	var out []string
	scan := func(ctx context.Context, cl redis.Cmdable) error {
		iter := cl.Scan(ctx, 0, match, scanBatch).Iterator()
		for iter.Next(ctx) {
			out = append(out, strings.TrimPrefix(iter.Val(), c.Config.Redis.KeyPrefix))
		}
		return iter.Err()
	}
	if cc, ok := c.client.(*redis.ClusterClient); ok {
		err := cc.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return scan(ctx, node)
		})
		return out, err
	}
	return out, scan(ctx, c.client)
}

// Close closes the underlying client
func (c *CacheClient) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
