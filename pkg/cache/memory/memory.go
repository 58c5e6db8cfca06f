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

// Package memory is the memory implementation of the venuemaps cache
// and uses a sync.Map to manage cache objects
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/status"
)

// Cache implements the cache.Client interface
var _ cache.Client = &Cache{}

// Cache defines a Memory Cache client that conforms to the cache.Client interface
type Cache struct {
	Name   string
	Config *options.Options
	client sync.Map
	now    func() time.Time
}

type entry struct {
	data    []byte
	expires time.Time
}

// New returns a new memory cache
func New(name string, cfg *options.Options) *Cache {
	if cfg == nil {
		cfg = options.New()
	}
	return &Cache{
		Name:   name,
		Config: cfg,
		now:    time.Now,
	}
}

// Connect initializes the Cache
func (c *Cache) Connect() error {
	return nil
}

// Configuration returns the Cache's Options
func (c *Cache) Configuration() *options.Options {
	return c.Config
}

// Store places an object in the cache using the specified key and ttl
func (c *Cache) Store(cacheKey string, data []byte, ttl time.Duration) error {
	e := &entry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.client.Store(cacheKey, e)
	return nil
}

// Retrieve looks for an object in cache and returns it (or an error if not found)
func (c *Cache) Retrieve(cacheKey string) ([]byte, status.LookupStatus, error) {
	v, ok := c.client.Load(cacheKey)
	if !ok {
		return nil, status.LookupStatusKeyMiss, cache.ErrKNF
	}
	e := v.(*entry)
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.client.Delete(cacheKey)
		return nil, status.LookupStatusKeyMiss, cache.ErrKNF
	}
	return append([]byte(nil), e.data...), status.LookupStatusHit, nil
}

// Remove removes the provided keys from the cache
func (c *Cache) Remove(cacheKeys ...string) error {
	for _, k := range cacheKeys {
		c.client.Delete(k)
	}
	return nil
}

// Keys returns the sorted keys beginning with prefix
func (c *Cache) Keys(prefix string) ([]string, error) {
	var out []string
	c.client.Range(func(k, _ any) bool {
		if s := k.(string); strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
		return true
	})
	sort.Strings(out)
	return out, nil
}

// Close drops every object in the cache
func (c *Cache) Close() error {
	c.client.Range(func(k, _ any) bool {
		c.client.Delete(k)
		return true
	})
	return nil
}
