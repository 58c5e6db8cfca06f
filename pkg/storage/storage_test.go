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

package storage

import (
	"path/filepath"
	"testing"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/bbolt"
	"github.com/wepmaps/venuemaps/pkg/cache/memory"
	"github.com/wepmaps/venuemaps/pkg/cache/options"

	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, c cache.Client) {
	t.Helper()
	s := New(c)
	_, ok, err := s.Get("adminToken")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set("adminToken", "abc"))
	require.NoError(t, s.Set("adminToken", "def"))
	v, ok, err := s.Get("adminToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "def", v)

	require.NoError(t, s.Remove("adminToken"))
	require.NoError(t, s.Remove("adminToken"))
	_, ok, err = s.Get("adminToken")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	c := memory.New("session", nil)
	require.NoError(t, c.Connect())
	defer c.Close()
	exercise(t, c)
}

func TestBboltStore(t *testing.T) {
	o := options.New()
	o.Provider = "bbolt"
	o.BBolt.Filename = filepath.Join(t.TempDir(), "durable.db")
	c := bbolt.New("durable", o)
	require.NoError(t, c.Connect())
	defer c.Close()
	exercise(t, c)
}
