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

// Package options holds the configuration of a named cache
package options

import (
	"errors"
	"fmt"
	"strings"

	badger "github.com/wepmaps/venuemaps/pkg/cache/badger/options"
	bbolt "github.com/wepmaps/venuemaps/pkg/cache/bbolt/options"
	filesystem "github.com/wepmaps/venuemaps/pkg/cache/filesystem/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"
	redis "github.com/wepmaps/venuemaps/pkg/cache/redis/options"
)

// DefaultCacheProvider is the provider used when none is configured
const DefaultCacheProvider = providers.Memory

// Lookup is a map of Options
type Lookup map[string]*Options

// Options is a collection of defining the venuemaps Caching Behavior
type Options struct {
	// Name is the Name of the cache, taken from the Key in the Caches map
	Name string `yaml:"-"`
	// Provider represents the type of cache that we wish to use: "bbolt", "badger", "memory", "filesystem", or "redis"
	Provider string `yaml:"provider,omitempty"`
	// Redis provides options for Redis caching
	Redis *redis.Options `yaml:"redis,omitempty"`
	// Filesystem provides options for Filesystem caching
	Filesystem *filesystem.Options `yaml:"filesystem,omitempty"`
	// BBolt provides options for BBolt caching
	BBolt *bbolt.Options `yaml:"bbolt,omitempty"`
	// Badger provides options for BadgerDB caching
	Badger *badger.Options `yaml:"badger,omitempty"`

	// ProviderID represents the internal constant for the provided Provider string
	// and is automatically populated at startup
	ProviderID providers.Provider `yaml:"-"`
}

var (
	// ErrInvalidName is returned for a reserved or empty cache name
	ErrInvalidName = errors.New("invalid cache name")
	// ErrInvalidProvider is returned for an unknown provider name
	ErrInvalidProvider = errors.New("invalid cache provider")
)

// New will return a pointer to an Options with the default configuration settings
func New() *Options {
	return &Options{
		Provider:   DefaultCacheProvider,
		ProviderID: providers.Names[DefaultCacheProvider],
		Redis:      redis.New(),
		Filesystem: filesystem.New(),
		BBolt:      bbolt.New(),
		Badger:     badger.New(),
	}
}

// Clone returns an exact copy of the Options
func (c *Options) Clone() *Options {
	out := New()
	out.Name = c.Name
	out.Provider = c.Provider
	out.ProviderID = c.ProviderID
	if c.Filesystem != nil {
		*out.Filesystem = *c.Filesystem
	}
	if c.BBolt != nil {
		*out.BBolt = *c.BBolt
	}
	if c.Badger != nil {
		*out.Badger = *c.Badger
	}
	if c.Redis != nil {
		r := *c.Redis
		r.Endpoints = append([]string(nil), c.Redis.Endpoints...)
		out.Redis = &r
	}
	return out
}

// Equal returns true if the two Options describe the same cache
func (c *Options) Equal(c2 *Options) bool {
	if c2 == nil {
		return false
	}
	if c.Name != c2.Name || c.Provider != c2.Provider || c.ProviderID != c2.ProviderID {
		return false
	}
	switch c.ProviderID {
	case providers.FilesystemID:
		return *c.Filesystem == *c2.Filesystem
	case providers.BBoltID:
		return *c.BBolt == *c2.BBolt
	case providers.BadgerDBID:
		return *c.Badger == *c2.Badger
	case providers.RedisID:
		return c.Redis.Endpoint == c2.Redis.Endpoint &&
			c.Redis.ClientType == c2.Redis.ClientType &&
			c.Redis.DB == c2.Redis.DB &&
			c.Redis.KeyPrefix == c2.Redis.KeyPrefix
	}
	return true
}

// Initialize sets up the cache Options with default values and overlays
// any values that were set during YAML unmarshaling
func (c *Options) Initialize(name string) error {
	c.Name = name
	if c.Provider == "" {
		c.Provider = DefaultCacheProvider
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	n, ok := providers.Names[c.Provider]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidProvider, c.Provider)
	}
	c.ProviderID = n
	if c.Redis == nil {
		c.Redis = redis.New()
	}
	if c.Filesystem == nil {
		c.Filesystem = filesystem.New()
	}
	if c.BBolt == nil {
		c.BBolt = bbolt.New()
	}
	if c.Badger == nil {
		c.Badger = badger.New()
	}
	// a partly set provider section is decoded into a fresh struct
	c.Redis.Initialize()
	c.Filesystem.Initialize()
	c.BBolt.Initialize()
	c.Badger.Initialize()
	return nil
}

// Validate checks the Options for a usable configuration
func (c *Options) Validate() error {
	if c.Name == "" || c.Name == "none" {
		return ErrInvalidName
	}
	if _, ok := providers.Names[c.Provider]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidProvider, c.Provider)
	}
	return nil
}
