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

// Package partition stores cached responses in named partitions over a
// cache.Client
package partition

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/status"
	"github.com/wepmaps/venuemaps/pkg/encoding/providers"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/offline/document"
)

const markerPrefix = "__partition__:"

// ErrInvalidName is returned for a partition name that cannot be stored
var ErrInvalidName = errors.New("invalid partition name")

// Store holds named partitions of cached documents. Every entry lives
// under the key <partition>/<request key>; every opened partition has a
// marker key so partitions can be listed without scanning entries.
type Store struct {
	client cache.Client
	codec  providers.Provider
	now    func() time.Time
	opened sync.Map
}

// New returns a partition Store over client that compresses documents
// with codec
func New(client cache.Client, codec providers.Provider) *Store {
	return &Store{client: client, codec: codec, now: time.Now}
}

// RequestKey returns the key identifying r within a partition
func RequestKey(r *http.Request) string {
	return http.MethodGet + " " + r.URL.RequestURI()
}

// PathKey returns the request key of a GET for an origin-relative path
func PathKey(p string) string {
	return http.MethodGet + " " + p
}

func entryKey(name, requestKey string) string {
	return name + "/" + requestKey
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "/ ")
}

// Open creates the named partition if it does not exist
func (s *Store) Open(name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	if _, ok := s.opened.Load(name); ok {
		return nil
	}
	if err := s.client.Store(markerPrefix+name, []byte(name), 0); err != nil {
		return err
	}
	s.opened.Store(name, struct{}{})
	return nil
}

// Names returns the names of every partition in the store, sorted
func (s *Store) Names() ([]string, error) {
	keys, err := s.client.Keys(markerPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, markerPrefix))
	}
	sort.Strings(out)
	return out, nil
}

// Delete removes the named partition and every entry in it
func (s *Store) Delete(name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	keys, err := s.client.Keys(name + "/")
	if err != nil {
		return err
	}
	keys = append(keys, markerPrefix+name)
	s.opened.Delete(name)
	return s.client.Remove(keys...)
}

// Match returns the document stored for requestKey in the named partition.
// An undecodable entry is removed and reported as a miss.
func (s *Store) Match(name, requestKey string) (*document.Document, status.LookupStatus, error) {
	key := entryKey(name, requestKey)
	b, ls, err := s.client.Retrieve(key)
	if err != nil {
		if errors.Is(err, cache.ErrKNF) {
			return nil, status.LookupStatusKeyMiss, nil
		}
		return nil, ls, err
	}
	d, err := document.Decode(b)
	if err != nil {
		logger.Warn("removing undecodable cache entry",
			logging.Pairs{"partition": name, "key": requestKey, "detail": err.Error()})
		s.client.Remove(key)
		return nil, status.LookupStatusKeyMiss, nil
	}
	return d, status.LookupStatusHit, nil
}

// Put stores d for requestKey in the named partition, replacing any prior entry
func (s *Store) Put(name, requestKey string, d *document.Document) error {
	if err := s.Open(name); err != nil {
		return err
	}
	d.StoredAt = s.now()
	b, err := document.Encode(d, s.codec)
	if err != nil {
		return err
	}
	return s.client.Store(entryKey(name, requestKey), b, 0)
}

// Entries returns the request keys stored in the named partition
func (s *Store) Entries(name string) ([]string, error) {
	keys, err := s.client.Keys(name + "/")
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, name+"/")
	}
	return keys, nil
}
