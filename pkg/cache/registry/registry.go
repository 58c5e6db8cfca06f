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

// Package registry handles the registration of cache implementations
// to be used by the offline controller and the admin session store
package registry

import (
	"fmt"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/badger"
	"github.com/wepmaps/venuemaps/pkg/cache/bbolt"
	"github.com/wepmaps/venuemaps/pkg/cache/filesystem"
	"github.com/wepmaps/venuemaps/pkg/cache/memory"
	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"
	"github.com/wepmaps/venuemaps/pkg/cache/redis"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
)

// LoadCaches iterates the caching config and connects/maps each cache.
// Every cache that connected is closed again when any of them fails.
func LoadCaches(opts map[string]*options.Options) (cache.Lookup, error) {
	caches := make(cache.Lookup, len(opts))
	for k, v := range opts {
		c, err := NewCache(k, v)
		if err != nil {
			CloseCaches(caches)
			return nil, fmt.Errorf("cache %q: %w", k, err)
		}
		caches[k] = c
	}
	return caches, nil
}

// CloseCaches iterates the set of caches and closes each
func CloseCaches(caches cache.Lookup) error {
	var firstErr error
	for k, c := range caches {
		if err := c.Close(); err != nil {
			logger.Warn("cache close failed", logging.Pairs{"cacheName": k, "detail": err.Error()})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// NewCache returns a connected cache client based on the provided options
func NewCache(cacheName string, cfg *options.Options) (cache.Client, error) {
	if cfg == nil {
		cfg = options.New()
	}
	var c cache.Client
	switch cfg.ProviderID {
	case providers.FilesystemID:
		c = filesystem.New(cacheName, cfg)
	case providers.RedisID:
		c = redis.New(cacheName, cfg)
	case providers.BBoltID:
		c = bbolt.New(cacheName, cfg)
	case providers.BadgerDBID:
		c = badger.New(cacheName, cfg)
	default:
		// Default to MemoryCache
		c = memory.New(cacheName, cfg)
	}
	if err := c.Connect(); err != nil {
		return nil, err
	}
	logger.Debug("cache connected", logging.Pairs{"cacheName": cacheName,
		"provider": cfg.ProviderID.String()})
	return c, nil
}
