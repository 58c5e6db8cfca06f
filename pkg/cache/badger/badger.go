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

// Package badger is the BadgerDB implementation of the venuemaps cache
package badger

import (
	"errors"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/status"

	"github.com/dgraph-io/badger/v4"
)

// CacheClient implements the cache.Client interface
var _ cache.Client = &CacheClient{}

// CacheClient describes a Badger CacheClient
type CacheClient struct {
	Name   string
	Config *options.Options
	dbh    *badger.DB
}

// New returns a new badger cache client
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

// Connect opens the configured Badger key-value store
func (c *CacheClient) Connect() error {
	opts := badger.DefaultOptions(c.Config.Badger.Directory)
	opts.ValueDir = c.Config.Badger.ValueDirectory
	opts.Logger = nil

	var err error
	c.dbh, err = badger.Open(opts)
	return err
}

// Close closes the Badger store
func (c *CacheClient) Close() error {
	if c.dbh == nil {
		return nil
	}
	err := c.dbh.Close()
	c.dbh = nil
	return err
}

// Store places the data into the Badger Cache using the provided Key and TTL
func (c *CacheClient) Store(cacheKey string, data []byte, ttl time.Duration) error {
	if c.dbh == nil {
		return cache.ErrNotConnected
	}
	return c.dbh.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(cacheKey), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Retrieve gets data from the Badger Cache using the provided Key.
// Badger manages object expiration internally.
func (c *CacheClient) Retrieve(cacheKey string) ([]byte, status.LookupStatus, error) {
	if c.dbh == nil {
		return nil, status.LookupStatusError, cache.ErrNotConnected
	}
	var data []byte
	err := c.dbh.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if err == nil {
		return data, status.LookupStatusHit, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, status.LookupStatusKeyMiss, cache.ErrKNF
	}
	return nil, status.LookupStatusError, err
}

// Remove deletes the provided keys
func (c *CacheClient) Remove(cacheKeys ...string) error {
	if c.dbh == nil {
		return cache.ErrNotConnected
	}
	return c.dbh.Update(func(txn *badger.Txn) error {
		for _, cacheKey := range cacheKeys {
			if err := txn.Delete([]byte(cacheKey)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Keys returns the keys beginning with prefix, in byte order
func (c *CacheClient) Keys(prefix string) ([]string, error) {
	if c.dbh == nil {
		return nil, cache.ErrNotConnected
	}
	var out []string
	err := c.dbh.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return out, err
}
