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

// Package config provides venuemaps configuration abilities, including
// parsing and printing configuration files, command line parameters, and
// environment variables, as well as default values and state.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	cache "github.com/wepmaps/venuemaps/pkg/cache/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"
	"github.com/wepmaps/venuemaps/pkg/config/mgmt"
	dataapi "github.com/wepmaps/venuemaps/pkg/dataapi/options"
	draft "github.com/wepmaps/venuemaps/pkg/draft/options"
	verrors "github.com/wepmaps/venuemaps/pkg/errors"
	frontend "github.com/wepmaps/venuemaps/pkg/frontend/options"
	logging "github.com/wepmaps/venuemaps/pkg/observability/logging/options"
	metrics "github.com/wepmaps/venuemaps/pkg/observability/metrics/options"
	tracing "github.com/wepmaps/venuemaps/pkg/observability/tracing/options"
	offline "github.com/wepmaps/venuemaps/pkg/offline/options"
	origin "github.com/wepmaps/venuemaps/pkg/origin/options"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the default path of the venuemaps config file
const DefaultConfigPath = "/etc/venuemaps/venuemaps.yaml"

// Config is the main configuration object
type Config struct {
	// Main is the primary MainConfig section
	Main *MainConfig `yaml:"main,omitempty"`
	// Frontend provides configurations about the caching front end
	Frontend *frontend.Options `yaml:"frontend,omitempty"`
	// Mgmt provides configurations about the management listener
	Mgmt *mgmt.Options `yaml:"mgmt,omitempty"`
	// Metrics provides configurations for collecting Metrics about the application
	Metrics *metrics.Options `yaml:"metrics,omitempty"`
	// Logging provides configurations that affect logging behavior
	Logging *logging.Options `yaml:"logging,omitempty"`
	// Tracing provides the distributed tracing configuration
	Tracing *tracing.Options `yaml:"tracing,omitempty"`
	// Origin is the upstream static site
	Origin *origin.Options `yaml:"origin,omitempty"`
	// Offline configures the offline cache controller
	Offline *offline.Options `yaml:"offline,omitempty"`
	// Caches is a map of named cache configurations
	Caches map[string]*cache.Options `yaml:"caches,omitempty"`
	// Draft configures the admin draft manager
	Draft *draft.Options `yaml:"draft,omitempty"`
	// Admin configures the Data API client
	Admin *dataapi.Options `yaml:"admin,omitempty"`

	// LoaderWarnings holds non-fatal findings from loading
	LoaderWarnings []string `yaml:"-"`

	configFilePath string
}

// MainConfig is a collection of general configuration values.
type MainConfig struct {
	// InstanceID represents a unique ID for the current instance, when multiple instances on the same host
	InstanceID int `yaml:"instance_id,omitempty"`
	// ServerName represents the server name that is conveyed in Via headers to upstream origins
	// defaults to os.Hostname
	ServerName string `yaml:"server_name,omitempty"`
}

// NewConfig returns a Config initialized with default values.
func NewConfig() *Config {
	hn, _ := os.Hostname()
	durable := cache.New()
	durable.Provider = providers.BBolt
	durable.ProviderID = providers.BBoltID
	durable.BBolt.Filename = "venuemaps-admin.db"
	return &Config{
		Main:     &MainConfig{ServerName: hn},
		Frontend: frontend.New(),
		Mgmt:     mgmt.New(),
		Metrics:  metrics.New(),
		Logging:  logging.New(),
		Tracing:  tracing.New(),
		Origin:   origin.New(),
		Offline:  offline.New(),
		Caches: map[string]*cache.Options{
			offline.DefaultCacheName:  cache.New(),
			draft.DefaultSessionCache: cache.New(),
			draft.DefaultDurableCache: durable,
		},
		Draft: draft.New(),
		Admin: dataapi.New(),
	}
}

// ConfigFilePath returns the file path from which this configuration is based
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Process initializes defaults on every section and validates the result
func (c *Config) Process() error {
	c.Offline.Initialize()
	c.Draft.Initialize()
	c.Metrics.Initialize()
	for k, v := range c.Caches {
		if v == nil {
			v = cache.New()
			c.Caches[k] = v
		}
		if err := v.Initialize(k); err != nil {
			return err
		}
	}
	return c.Validate()
}

// Validate checks the configuration for a runnable state
func (c *Config) Validate() error {
	if err := c.Origin.Validate(); err != nil {
		return err
	}
	if err := c.Offline.Validate(); err != nil {
		return err
	}
	if err := c.Draft.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	if err := c.Mgmt.Validate(); err != nil {
		return err
	}
	for _, v := range c.Caches {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	for _, name := range []string{c.Offline.CacheName, c.Draft.DurableCache, c.Draft.SessionCache} {
		if _, ok := c.Caches[name]; !ok {
			return fmt.Errorf("%w: %q", verrors.ErrUnknownCache, name)
		}
	}
	if c.Frontend.ListenPort < 1 {
		return fmt.Errorf("%w: no frontend listen port", verrors.ErrInvalidOptions)
	}
	if c.Mgmt.ListenPort > 0 && c.Mgmt.ListenPort == c.Frontend.ListenPort {
		c.LoaderWarnings = append(c.LoaderWarnings, "mgmt listen_port equals frontend listen_port; mgmt listener disabled")
		c.Mgmt.ListenPort = 0
	}
	return nil
}

// CacheSubset returns the cache options for the provided names only
func (c *Config) CacheSubset(names ...string) map[string]*cache.Options {
	out := make(map[string]*cache.Options, len(names))
	for _, n := range names {
		if o, ok := c.Caches[n]; ok {
			out[n] = o
		}
	}
	return out
}

// CacheNames returns the configured cache names in sorted order
func (c *Config) CacheNames() []string {
	out := make([]string, 0, len(c.Caches))
	for k := range c.Caches {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns an exact copy of the subject *Config
func (c *Config) Clone() *Config {
	nc := &Config{
		Main:           &MainConfig{},
		Frontend:       c.Frontend.Clone(),
		Mgmt:           c.Mgmt.Clone(),
		Metrics:        c.Metrics.Clone(),
		Logging:        c.Logging.Clone(),
		Tracing:        c.Tracing.Clone(),
		Origin:         c.Origin.Clone(),
		Offline:        c.Offline.Clone(),
		Caches:         make(map[string]*cache.Options, len(c.Caches)),
		configFilePath: c.configFilePath,
	}
	*nc.Main = *c.Main
	d := *c.Draft
	nc.Draft = &d
	a := *c.Admin
	nc.Admin = &a
	for k, v := range c.Caches {
		nc.Caches[k] = v.Clone()
	}
	nc.LoaderWarnings = append([]string(nil), c.LoaderWarnings...)
	return nc
}

// String returns the running configuration as YAML with secrets redacted
func (c *Config) String() string {
	cp := c.Clone()
	if cp.Admin.Password != "" {
		cp.Admin.Password = "*****"
	}
	for _, v := range cp.Caches {
		if v.Redis != nil && v.Redis.Password != "" {
			v.Redis.Password = "*****"
		}
	}
	var sb strings.Builder
	e := yaml.NewEncoder(&sb)
	e.SetIndent(2)
	if err := e.Encode(cp); err != nil {
		return "# " + err.Error()
	}
	e.Close()
	return sb.String()
}

// IsStale returns true if the config file has been modified since the provided time
func (c *Config) IsStale(since time.Time) bool {
	if c.configFilePath == "" {
		return false
	}
	fi, err := os.Stat(c.configFilePath)
	if err != nil {
		return false
	}
	return fi.ModTime().After(since)
}
