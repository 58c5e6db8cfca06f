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

// Package bbolt is the bbolt implementation of the venuemaps cache
package bbolt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/status"

	"go.etcd.io/bbolt"
)

// CacheClient implements the cache.Client interface
var _ cache.Client = &CacheClient{}

// CacheClient describes a BBolt CacheClient. Expiration is not supported;
// every key lives until it is removed.
type CacheClient struct {
	Name   string
	Config *options.Options
	dbh    *bbolt.DB
}

// New returns a new bbolt cache client
func New(cacheName string, opts *options.Options) *CacheClient {
	if opts == nil {
		opts = options.New()
	}
	return &CacheClient{
		Name:   cacheName,
		Config: opts,
	}
}

// Configuration returns the Cache's Options
func (c *CacheClient) Configuration() *options.Options {
	return c.Config
}

// Close closes the database file
func (c *CacheClient) Close() error {
	if c.dbh == nil {
		return nil
	}
	err := c.dbh.Close()
	c.dbh = nil
	return err
}

// Connect opens the database file and ensures the bucket exists
func (c *CacheClient) Connect() error {
	var err error
	c.dbh, err = bbolt.Open(c.Config.BBolt.Filename, 0o644, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}

	err = c.dbh.Update(func(tx *bbolt.Tx) error {
		_, err2 := tx.CreateBucketIfNotExists([]byte(c.Config.BBolt.Bucket))
		if err2 != nil {
			return fmt.Errorf("create bucket: %w", err2)
		}
		return nil
	})
	if err != nil {
		c.dbh.Close()
		c.dbh = nil
		return err
	}
	return nil
}

// Store places data in the bucket under cacheKey
func (c *CacheClient) Store(cacheKey string, data []byte, _ time.Duration) error {
	if c.dbh == nil {
		return cache.ErrNotConnected
	}
	return c.dbh.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(c.Config.BBolt.Bucket)).Put([]byte(cacheKey), data)
	})
}

// Retrieve gets the data stored under cacheKey
func (c *CacheClient) Retrieve(cacheKey string) ([]byte, status.LookupStatus, error) {
	if c.dbh == nil {
		return nil, status.LookupStatusError, cache.ErrNotConnected
	}
	var data []byte
	err := c.dbh.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(c.Config.BBolt.Bucket)).Get([]byte(cacheKey))
		if v == nil {
			return cache.ErrKNF
		}
		// bbolt values are only valid for the life of the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, status.LookupStatusKeyMiss, err
	}
	return data, status.LookupStatusHit, nil
}

// Remove deletes the provided keys from the bucket
func (c *CacheClient) Remove(cacheKeys ...string) error {
	if c.dbh == nil {
		return cache.ErrNotConnected
	}
	return c.dbh.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(c.Config.BBolt.Bucket))
		for _, cacheKey := range cacheKeys {
			if err := b.Delete([]byte(cacheKey)); err != nil {
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
	err := c.dbh.View(func(tx *bbolt.Tx) error {
		cur := tx.Bucket([]byte(c.Config.BBolt.Bucket)).Cursor()
		p := []byte(prefix)
		for k, _ := cur.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = cur.Next() {
			out = append(out, string(k))
		}
		return nil
	})
	return out, err
}
