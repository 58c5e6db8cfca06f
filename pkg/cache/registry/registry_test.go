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

package registry

import (
	"path/filepath"
	"testing"

	"github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newCacheConfig(t *testing.T, provider string) *options.Options {
	t.Helper()
	o := &options.Options{Provider: provider}
	require.NoError(t, o.Initialize(provider))
	dir := t.TempDir()
	switch o.ProviderID {
	case providers.FilesystemID:
		o.Filesystem.CachePath = dir
	case providers.BBoltID:
		o.BBolt.Filename = filepath.Join(dir, "venuemaps.db")
	case providers.BadgerDBID:
		o.Badger.Directory = dir
		o.Badger.ValueDirectory = dir
	case providers.RedisID:
		s := miniredis.RunT(t)
		o.Redis.Endpoint = s.Addr()
	}
	return o
}

func TestLoadCaches(t *testing.T) {
	opts := make(map[string]*options.Options)
	for name := range providers.Names {
		opts[name] = newCacheConfig(t, name)
	}
	caches, err := LoadCaches(opts)
	require.NoError(t, err)
	defer CloseCaches(caches)

	for name := range providers.Names {
		c, ok := caches[name]
		require.True(t, ok, "missing cache %s", name)
		require.NoError(t, c.Store("k", []byte("v"), 0))
		d, _, err := c.Retrieve("k")
		require.NoError(t, err)
		require.Equal(t, "v", string(d))
	}
	_, ok := caches["foo"]
	require.False(t, ok)
}

func TestLoadCachesConnectFailure(t *testing.T) {
	bad := newCacheConfig(t, providers.Redis)
	bad.Redis.Endpoint = ""
	_, err := LoadCaches(map[string]*options.Options{
		"default": newCacheConfig(t, providers.Memory),
		"bad":     bad,
	})
	require.Error(t, err)
}

func TestNewCacheDefaultsToMemory(t *testing.T) {
	c, err := NewCache("default", nil)
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, providers.MemoryID, c.Configuration().ProviderID)
}
