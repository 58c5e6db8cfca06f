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

// Package storage provides the synchronous string key/value stores used by
// the admin tools in place of browser local and session storage
package storage

import (
	"errors"

	"github.com/wepmaps/venuemaps/pkg/cache"
)

// keyPrefix separates storage keys from any other data sharing the cache
const keyPrefix = "storage:"

// Store is a string key/value store
type Store interface {
	// Get returns the value for key and whether it exists
	Get(key string) (string, bool, error)
	// Set writes value under key, replacing any prior value
	Set(key, value string) error
	// Remove deletes key; removing an absent key is not an error
	Remove(key string) error
}

// CacheStore is a Store over any cache provider
type CacheStore struct {
	client cache.Client
}

// New returns a Store backed by the connected cache client c
func New(c cache.Client) *CacheStore {
	return &CacheStore{client: c}
}

func (s *CacheStore) Get(key string) (string, bool, error) {
	b, _, err := s.client.Retrieve(keyPrefix + key)
	if errors.Is(err, cache.ErrKNF) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func (s *CacheStore) Set(key, value string) error {
	return s.client.Store(keyPrefix+key, []byte(value), 0)
}

func (s *CacheStore) Remove(key string) error {
	err := s.client.Remove(keyPrefix + key)
	if errors.Is(err, cache.ErrKNF) {
		return nil
	}
	return err
}
