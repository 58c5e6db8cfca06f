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

package bbolt

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	bo "github.com/wepmaps/venuemaps/pkg/cache/bbolt/options"
	co "github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"
	"github.com/wepmaps/venuemaps/pkg/cache/status"
)

const cacheKey = "cacheKey"

func newCacheConfig(dbPath string) *co.Options {
	return &co.Options{Provider: providers.BBolt, ProviderID: providers.BBoltID,
		BBolt: &bo.Options{Filename: dbPath, Bucket: "venuemaps_test"}}
}

func storeBenchmark(b *testing.B) *CacheClient {
	bc := New(b.Name(), newCacheConfig(b.TempDir()+"/test.db"))
	if err := bc.Connect(); err != nil {
		b.Fatal(err)
	}
	for n := 0; n < b.N; n++ {
		err := bc.Store(cacheKey+strconv.Itoa(n), []byte("data"+strconv.Itoa(n)), time.Minute)
		if err != nil {
			b.Error(err)
		}
	}
	return bc
}

func TestBboltCache_Connect(t *testing.T) {
	bc := New(t.Name(), newCacheConfig(t.TempDir()+"/test.db"))
	if err := bc.Connect(); err != nil {
		t.Error(err)
	}
	bc.Close()
}

func TestBboltCache_ConnectFailed(t *testing.T) {
	const expected = `open `
	bc := New(t.Name(), newCacheConfig(t.TempDir()+"/missing/dir/test.db"))
	err := bc.Connect()
	if err == nil {
		bc.Close()
		t.Fatalf("expected error for %s", expected)
	}
	if !strings.HasPrefix(err.Error(), expected) {
		t.Errorf("expected error '%s' got '%s'", expected, err.Error())
	}
}

func TestBboltCache_ConnectBadBucketName(t *testing.T) {
	const expected = `create bucket: bucket name required`
	cfg := newCacheConfig(t.TempDir() + "/test.db")
	cfg.BBolt.Bucket = ""
	bc := New(t.Name(), cfg)
	err := bc.Connect()
	if err == nil {
		bc.Close()
		t.Fatalf("expected error for %s", expected)
	}
	if err.Error() != expected {
		t.Errorf("expected error '%s' got '%s'", expected, err.Error())
	}
}

func TestBboltCache_NotConnected(t *testing.T) {
	bc := New(t.Name(), newCacheConfig(t.TempDir()+"/test.db"))
	if err := bc.Store(cacheKey, []byte("x"), 0); !errors.Is(err, cache.ErrNotConnected) {
		t.Errorf("expected %v got %v", cache.ErrNotConnected, err)
	}
}

func TestBboltCache_StoreRetrieve(t *testing.T) {
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
	if string(data) != "data" {
		t.Errorf("wanted \"%s\". got \"%s\"", "data", data)
	}
	if ls != status.LookupStatusHit {
		t.Errorf("expected %s got %s", status.LookupStatusHit, ls)
	}

	_, ls, err = bc.Retrieve("missing")
	if !errors.Is(err, cache.ErrKNF) || ls != status.LookupStatusKeyMiss {
		t.Errorf("expected key miss, got %s %v", ls, err)
	}
}

func TestBboltCache_Persistence(t *testing.T) {
	path := t.TempDir() + "/test.db"
	bc := New(t.Name(), newCacheConfig(path))
	if err := bc.Connect(); err != nil {
		t.Fatal(err)
	}
	bc.Store(cacheKey, []byte("data"), 0)
	bc.Close()

	bc = New(t.Name(), newCacheConfig(path))
	if err := bc.Connect(); err != nil {
		t.Fatal(err)
	}
	defer bc.Close()
	data, _, err := bc.Retrieve(cacheKey)
	if err != nil || string(data) != "data" {
		t.Errorf("expected persisted data, got %q %v", data, err)
	}
}

func TestBboltCache_KeysAndRemove(t *testing.T) {
	bc := New(t.Name(), newCacheConfig(t.TempDir()+"/test.db"))
	if err := bc.Connect(); err != nil {
		t.Fatal(err)
	}
	defer bc.Close()
	bc.Store("p1/a", []byte("1"), 0)
	bc.Store("p1/b", []byte("2"), 0)
	bc.Store("p2/a", []byte("3"), 0)

	keys, err := bc.Keys("p1/")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "p1/a" || keys[1] != "p1/b" {
		t.Errorf("unexpected keys %v", keys)
	}
	if err := bc.Remove(keys...); err != nil {
		t.Fatal(err)
	}
	keys, _ = bc.Keys("")
	if len(keys) != 1 || keys[0] != "p2/a" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func BenchmarkCache_Store(b *testing.B) {
	bc := storeBenchmark(b)
	bc.Close()
}
