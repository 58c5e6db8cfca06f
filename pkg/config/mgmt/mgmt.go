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

// Package mgmt holds the configuration of the management listener
package mgmt

import (
	"errors"
	"time"
)

const (
	// DefaultAddress is the default address the management listener binds to
	DefaultAddress = "127.0.0.1"
	// DefaultPort is the default port of the management listener
	DefaultPort = 8484
	// DefaultConfigHandlerPath is the default path of the running-config handler
	DefaultConfigHandlerPath = "/venuemaps/config"
	// DefaultPingHandlerPath is the default path of the ping handler
	DefaultPingHandlerPath = "/venuemaps/ping"
	// DefaultHealthHandlerPath is the default path of the controller health handler
	DefaultHealthHandlerPath = "/venuemaps/health"
	// DefaultReloadHandlerPath is the default path of the config reload handler
	DefaultReloadHandlerPath = "/venuemaps/config/reload"
	// DefaultPprofServerName names the listener(s) hosting pprof routes
	DefaultPprofServerName = "both"
	// DefaultRateLimit is the default minimum interval between handled reload requests
	DefaultRateLimit = 3 * time.Second
)

// Options is a collection of configurations for venuemaps management features
type Options struct {
	// ListenAddress is IP address of the management listener
	ListenAddress string `yaml:"listen_address,omitempty"`
	// ListenPort is TCP Port of the management listener; < 1 disables it
	ListenPort int `yaml:"listen_port,omitempty"`
	// ConfigHandlerPath provides the path to register the Config Handler for outputting the running configuration
	ConfigHandlerPath string `yaml:"config_handler_path,omitempty"`
	// PingHandlerPath provides the path to register the Ping Handler for checking that venuemaps is running
	PingHandlerPath string `yaml:"ping_handler_path,omitempty"`
	// HealthHandlerPath reports the active and waiting offline controllers
	HealthHandlerPath string `yaml:"health_handler_path,omitempty"`
	// ReloadHandlerPath provides the path to register the Config Reload Handler
	ReloadHandlerPath string `yaml:"reload_handler_path,omitempty"`
	// PprofServer provides the name of the http listener that will host the pprof debugging routes
	// Options are: "metrics", "mgmt", "both", or "off"; default is both
	PprofServer string `yaml:"pprof_server,omitempty"`
	// ReloadRateLimit limits handled config reload HTTP requests to 1 per interval.
	// The rate limit does not apply to SIGHUP-based reload requests
	ReloadRateLimit time.Duration `yaml:"rate_limit,omitempty"`
}

// ErrInvalidPprofServerName returns an error for invalid pprof server name
var ErrInvalidPprofServerName = errors.New("invalid pprof server name")

// New returns a new Options references with Default Values set
func New() *Options {
	return &Options{
		ListenPort:        DefaultPort,
		ListenAddress:     DefaultAddress,
		ConfigHandlerPath: DefaultConfigHandlerPath,
		PingHandlerPath:   DefaultPingHandlerPath,
		HealthHandlerPath: DefaultHealthHandlerPath,
		ReloadHandlerPath: DefaultReloadHandlerPath,
		PprofServer:       DefaultPprofServerName,
		ReloadRateLimit:   DefaultRateLimit,
	}
}

// Validate checks the pprof server name, defaulting it when empty
func (o *Options) Validate() error {
	switch o.PprofServer {
	case "metrics", "mgmt", "off", "both":
		return nil
	case "":
		o.PprofServer = DefaultPprofServerName
		return nil
	}
	return ErrInvalidPprofServerName
}

// PprofOn returns true if the named listener should host pprof routes
func (o *Options) PprofOn(listener string) bool {
	return o.PprofServer == "both" || o.PprofServer == listener
}

// Clone returns a copy of the Options
func (o *Options) Clone() *Options {
	c := *o
	return &c
}
