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

package badger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wepmaps/venuemaps/pkg/cache"
	bo "github.com/wepmaps/venuemaps/pkg/cache/badger/options"
	co "github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"
	"github.com/wepmaps/venuemaps/pkg/cache/status"
)

const cacheKey = "cacheKey"

func newCacheConfig(dbPath string) *co.Options {
	return &co.Options{
		Provider:   providers.BadgerDB,
		ProviderID: providers.BadgerDBID,
		Badger:     &bo.Options{Directory: dbPath, ValueDirectory: dbPath},
	}
}

func TestBadgerCache_Connect(t *testing.T) {
	bc := New(t.Name(), newCacheConfig(t.TempDir()+"/test.db"))
	if err := bc.Connect(); err != nil {
		t.Error(err)
	}
	bc.Close()
}

func TestBadgerCache_ConnectFailed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := newCacheConfig(filepath.Join(file, "db"))
	bc := New(t.Name(), cfg)
	if err := bc.Connect(); err == nil {
		t.Errorf("expected file access error for %s", cfg.Badger.Directory)
		bc.Close()
	}
}

func TestBadgerCache_StoreRetrieveRemove(t *testing.T) {
	bc := New(t.Name(), newCacheConfig(t.TempDir()+"/test.db"))
	if err := bc.Connect(); err != nil {
		t.Fatal(err)
	}
	defer bc.Close()

	if err := bc.Store(cacheKey, []byte("data"), 0); err != nil {
		t.Fatal(err)
	}
	data, ls, err := bc.Retrieve(cacheKey)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "data" || ls != status.LookupStatusHit {
		t.Errorf("unexpected retrieve result %q %s", data, ls)
	}
	if err := bc.Remove(cacheKey); err != nil {
		t.Fatal(err)
	}
	_, ls, err = bc.Retrieve(cacheKey)
	if !errors.Is(err, cache.ErrKNF) || ls != status.LookupStatusKeyMiss {
		t.Errorf("expected key miss, got %s %v", ls, err)
	}
}

func TestBadgerCache_Keys(t *testing.T) {
	bc := New(t.Name(), newCacheConfig(t.TempDir()+"/test.db"))
	if err := bc.Connect(); err != nil {
		t.Fatal(err)
	}
	defer bc.Close()
	bc.Store("wep-images-v3/GET /a.png", []byte("1"), 0)
	bc.Store("wep-images-v4/GET /a.png", []byte("2"), 0)
	bc.Store("wep-images-v4/GET /b.png", []byte("3"), 0)
	keys, err := bc.Keys("wep-images-v4/")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys got %v", keys)
	}
}
