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

package options

import "time"

// Options is a collection of configurations for the main http frontend for the application
type Options struct {
	// ListenAddress is IP address for the main http listener for the application
	ListenAddress string `yaml:"listen_address,omitempty"`
	// ListenPort is TCP Port for the main http listener for the application
	ListenPort int `yaml:"listen_port,omitempty"`
	// ReadHeaderTimeout bounds how long a client may take to send request headers
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout,omitempty"`
	// DrainTimeout is how long in-flight requests may run after a shutdown is requested
	DrainTimeout time.Duration `yaml:"drain_timeout,omitempty"`
	// ConnectionsLimit indicates how many concurrent front end connections venuemaps will handle at any time
	ConnectionsLimit int `yaml:"connections_limit,omitempty"`
}

// New returns a new Frontend Options with default values
func New() *Options {
	return &Options{
		ListenPort:        DefaultProxyListenPort,
		ListenAddress:     DefaultProxyListenAddress,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		DrainTimeout:      DefaultDrainTimeout,
	}
}

// Equal returns true if the Options are identical in value.
func (o *Options) Equal(o2 *Options) bool {
	return o2 != nil && *o == *o2
}

// Clone returns a clone of the Options
func (o *Options) Clone() *Options {
	c := *o
	return &c
}
