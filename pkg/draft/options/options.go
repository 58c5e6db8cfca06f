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

// Package options holds the configuration of the admin draft manager
package options

import (
	"fmt"
	"time"

	verrors "github.com/wepmaps/venuemaps/pkg/errors"
)

const (
	// DefaultWindow is how long a draft stays eligible for recovery
	DefaultWindow = 24 * time.Hour
	// DefaultKey is the durable storage key holding the draft
	DefaultKey = "venuemaps.adminDraft"
	// DefaultDurableCache names the cache backing durable storage
	DefaultDurableCache = "durable"
	// DefaultSessionCache names the cache backing session storage
	DefaultSessionCache = "session"
)

// Options is the draft section of the venuemaps config
type Options struct {
	// Window is the staleness window after which a draft is purged
	Window time.Duration `yaml:"window,omitempty"`
	// Key is the durable storage key of the draft
	Key string `yaml:"key,omitempty"`
	// DurableCache is the cache name for storage that outlives a session
	DurableCache string `yaml:"durable_cache,omitempty"`
	// SessionCache is the cache name for per-session values such as the auth token
	SessionCache string `yaml:"session_cache,omitempty"`
}

// New returns Options with the default values set
func New() *Options {
	return &Options{
		Window:       DefaultWindow,
		Key:          DefaultKey,
		DurableCache: DefaultDurableCache,
		SessionCache: DefaultSessionCache,
	}
}

// Initialize fills any unset values with their defaults
func (o *Options) Initialize() {
	if o.Window == 0 {
		o.Window = DefaultWindow
	}
	if o.Key == "" {
		o.Key = DefaultKey
	}
	if o.DurableCache == "" {
		o.DurableCache = DefaultDurableCache
	}
	if o.SessionCache == "" {
		o.SessionCache = DefaultSessionCache
	}
}

// Validate checks the Options for a usable configuration
func (o *Options) Validate() error {
	if o.Window < 0 {
		return fmt.Errorf("%w: draft window %s", verrors.ErrInvalidOptions, o.Window)
	}
	return nil
}
