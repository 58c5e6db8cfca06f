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

// Package filesystem is the filesystem implementation of the venuemaps cache
package filesystem

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/status"
)

// CacheClient implements the cache.Client interface
var _ cache.Client = &CacheClient{}

const (
	dataSuffix = ".data"
	keySuffix  = ".key"
	// hashedPrefix marks file names derived from a key hash. The dot is
	// outside the base64 alphabet, so these never decode as plain names.
	hashedPrefix = "h."
	// maxEncodedName keeps file names under the usual 255 byte NAME_MAX
	maxEncodedName = 200
)

// ErrKeyRequired is returned when storing an empty key
var ErrKeyRequired = errors.New("cacheKey required")

// New returns a new filesystem cache client
func New(name string, cfg *options.Options) *CacheClient {
	if cfg == nil {
		cfg = options.New()
	}
	return &CacheClient{
		Name:   name,
		Config: cfg,
	}
}

// CacheClient describes a Filesystem CacheClient. Each key is one file in
// the cache path, named by the base64 of the key. Keys too long for a file
// name are named by their sha256 instead, with the key kept in a sidecar
// .key file. Expiration is not supported.
type CacheClient struct {
	Name   string
	Config *options.Options
}

// Configuration returns the Cache's Options
func (c *CacheClient) Configuration() *options.Options {
	return c.Config
}

// Close is a no-op for the filesystem cache
func (c *CacheClient) Close() error {
	return nil
}

// Connect ensures the cache path exists and is writeable
func (c *CacheClient) Connect() error {
	return makeDirectory(c.Config.Filesystem.CachePath)
}

// Store writes data to the file for cacheKey, replacing it atomically
func (c *CacheClient) Store(cacheKey string, data []byte, _ time.Duration) error {
	if cacheKey == "" {
		return ErrKeyRequired
	}
	base, hashed := c.fileBase(cacheKey)
	if hashed {
		if err := os.WriteFile(base+keySuffix, []byte(cacheKey), 0o600); err != nil {
			return err
		}
	}
	dataFile := base + dataSuffix
	tmp := dataFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, dataFile)
}

// Retrieve reads the file for cacheKey
func (c *CacheClient) Retrieve(cacheKey string) ([]byte, status.LookupStatus, error) {
	base, _ := c.fileBase(cacheKey)
	data, err := os.ReadFile(base + dataSuffix)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, status.LookupStatusKeyMiss, cache.ErrKNF
		}
		return nil, status.LookupStatusError, err
	}
	return data, status.LookupStatusHit, nil
}

// Remove deletes the files for the provided keys; missing keys are ignored
func (c *CacheClient) Remove(cacheKeys ...string) error {
	for _, cacheKey := range cacheKeys {
		base, hashed := c.fileBase(cacheKey)
		files := []string{base + dataSuffix}
		if hashed {
			files = append(files, base+keySuffix)
		}
		for _, f := range files {
			if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
	}
	return nil
}

// Keys returns the sorted keys beginning with prefix
func (c *CacheClient) Keys(prefix string) ([]string, error) {
	dir := c.Config.Filesystem.CachePath
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasSuffix(n, dataSuffix) {
			continue
		}
		n = strings.TrimSuffix(n, dataSuffix)
		var k []byte
		if strings.HasPrefix(n, hashedPrefix) {
			k, err = os.ReadFile(filepath.Join(dir, n+keySuffix))
		} else {
			k, err = base64.RawURLEncoding.DecodeString(n)
		}
		if err != nil {
			continue
		}
		if strings.HasPrefix(string(k), prefix) {
			out = append(out, string(k))
		}
	}
	sort.Strings(out)
	return out, nil
}

// fileBase returns the cache file path for cacheKey without its suffix,
// and whether the name was derived from a hash of the key
func (c *CacheClient) fileBase(cacheKey string) (string, bool) {
	n := base64.RawURLEncoding.EncodeToString([]byte(cacheKey))
	if len(n) <= maxEncodedName {
		return filepath.Join(c.Config.Filesystem.CachePath, n), false
	}
	sum := sha256.Sum256([]byte(cacheKey))
	return filepath.Join(c.Config.Filesystem.CachePath,
		hashedPrefix+hex.EncodeToString(sum[:])), true
}

// makeDirectory creates a directory on the filesystem and returns the error in the event of a failure.
func makeDirectory(path string) error {
	err := os.MkdirAll(path, 0o755)
	if err == nil {
		// verify writability by attempting to touch a test file in the cache path
		tf := filepath.Join(path, ".test."+strconv.FormatInt(time.Now().UnixNano(), 10))
		err = os.WriteFile(tf, []byte(""), 0o600)
		if err == nil {
			os.Remove(tf)
		}
	}
	if err != nil {
		return fmt.Errorf("[%s] directory is not writeable by venuemaps: %w", path, err)
	}
	return nil
}
