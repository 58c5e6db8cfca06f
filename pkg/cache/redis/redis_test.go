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

package redis

import (
	"errors"
	"testing"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	co "github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"
	ro "github.com/wepmaps/venuemaps/pkg/cache/redis/options"
	"github.com/wepmaps/venuemaps/pkg/cache/status"

	"github.com/alicebob/miniredis/v2"
)

const cacheKey = `cacheKey`

func setupRedisCache(t *testing.T) (*CacheClient, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rcfg := ro.New()
	rcfg.Endpoint = s.Addr()
	cfg := &co.Options{Provider: providers.Redis, ProviderID: providers.RedisID, Redis: rcfg}
	rc := New(t.Name(), cfg)
	if err := rc.Connect(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rc.Close() })
	return rc, s
}

func TestRedisCache_Connect(t *testing.T) {
	setupRedisCache(t)
}

func TestRedisCache_ConnectBadEndpoint(t *testing.T) {
	rcfg := ro.New()
	rcfg.Endpoint = ""
	rc := New(t.Name(), &co.Options{Redis: rcfg})
	if err := rc.Connect(); !errors.Is(err, ErrInvalidEndpointConfig) {
		t.Errorf("expected %v got %v", ErrInvalidEndpointConfig, err)
	}
}

func TestRedisCache_SentinelOpts(t *testing.T) {
	rcfg := ro.New()
	rcfg.ClientType = "sentinel"
	rc := New(t.Name(), &co.Options{Redis: rcfg})
	if _, err := rc.sentinelOpts(); !errors.Is(err, ErrInvalidSentinelMasterConfig) {
		t.Errorf("expected %v got %v", ErrInvalidSentinelMasterConfig, err)
	}
	rcfg.SentinelMaster = "primary"
	o, err := rc.sentinelOpts()
	if err != nil {
		t.Fatal(err)
	}
	if o.MasterName != "primary" {
		t.Errorf("expected primary got %s", o.MasterName)
	}
}

func TestRedisCache_ClusterOpts(t *testing.T) {
	rcfg := ro.New()
	rcfg.Endpoints = nil
	rc := New(t.Name(), &co.Options{Redis: rcfg})
	if _, err := rc.clusterOpts(); !errors.Is(err, ErrInvalidEndpointsConfig) {
		t.Errorf("expected %v got %v", ErrInvalidEndpointsConfig, err)
	}
}

func TestRedisCache_StoreRetrieve(t *testing.T) {
	rc, s := setupRedisCache(t)
	if err := rc.Store(cacheKey, []byte("data"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if !s.Exists(ro.DefaultKeyPrefix + cacheKey) {
		t.Error("expected prefixed key in redis")
	}
	data, ls, err := rc.Retrieve(cacheKey)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "data" || ls != status.LookupStatusHit {
		t.Errorf("unexpected retrieve result %q %s", data, ls)
	}

	s.FastForward(2 * time.Minute)
	_, ls, err = rc.Retrieve(cacheKey)
	if !errors.Is(err, cache.ErrKNF) || ls != status.LookupStatusKeyMiss {
		t.Errorf("expected key miss after expiry, got %s %v", ls, err)
	}
}

func TestRedisCache_RemoveAndKeys(t *testing.T) {
	rc, _ := setupRedisCache(t)
	rc.Store("wep-static-v4/GET /app.js", []byte("1"), 0)
	rc.Store("wep-static-v4/GET /a.json?x=[1]", []byte("2"), 0)
	rc.Store("wep-static-v3/GET /app.js", []byte("3"), 0)

	keys, err := rc.Keys("wep-static-v4/")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys got %v", keys)
	}
	for _, k := range keys {
		if k[:len("wep-static-v4/")] != "wep-static-v4/" {
			t.Errorf("unexpected key %s", k)
		}
	}

	if err := rc.Remove(keys...); err != nil {
		t.Fatal(err)
	}
	keys, _ = rc.Keys("wep-static-")
	if len(keys) != 1 {
		t.Errorf("expected 1 key got %v", keys)
	}
}

func TestRedisCache_NotConnected(t *testing.T) {
	rc := New(t.Name(), nil)
	if err := rc.Store(cacheKey, nil, 0); !errors.Is(err, cache.ErrNotConnected) {
		t.Errorf("expected %v got %v", cache.ErrNotConnected, err)
	}
}
