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

// Package cache defines the venuemaps cache client interface implemented
// by each storage provider
package cache

import (
	"errors"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/status"
)

// ErrKNF represents the error "key not found in cache"
var ErrKNF = errors.New("key not found in cache")

// ErrNotConnected is returned when a client is used before Connect
var ErrNotConnected = errors.New("cache client is not connected")

// Client is the interface for the supported caching fabrics.
// Retrieve must return ErrKNF on a cache miss. A ttl < 1 stores the
// object without expiration.
type Client interface {
	Connect() error
	Store(cacheKey string, data []byte, ttl time.Duration) error
	Retrieve(cacheKey string) ([]byte, status.LookupStatus, error)
	Remove(cacheKeys ...string) error
	// Keys returns every stored key beginning with prefix
	Keys(prefix string) ([]string, error)
	Close() error
	Configuration() *options.Options
}

// Lookup is a map of named cache clients
type Lookup map[string]Client
