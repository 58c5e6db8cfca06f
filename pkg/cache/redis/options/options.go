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

import (
	"time"

	"github.com/wepmaps/venuemaps/pkg/config/types"
)

const (
	// DefaultRedisClientType is the default client type
	DefaultRedisClientType = "standard"
	// DefaultRedisProtocol is the default network protocol
	DefaultRedisProtocol = "tcp"
	// DefaultRedisEndpoint is the default redis endpoint
	DefaultRedisEndpoint = "redis:6379"
	// DefaultKeyPrefix namespaces every key venuemaps writes to redis
	DefaultKeyPrefix = "venuemaps:"
)

// Options is a collection of Configurations for Connecting to Redis
type Options struct {
	// ClientType defines the type of Redis Client ("standard", "cluster", "sentinel")
	ClientType string `yaml:"client_type,omitempty"`
	// Protocol represents the connection method (e.g., "tcp", "unix", etc.)
	Protocol string `yaml:"protocol,omitempty"`
	// Endpoint represents FQDN:port or IP:Port of the Redis Endpoint
	Endpoint string `yaml:"endpoint,omitempty"`
	// Endpoints represents FQDN:port or IP:Port collection of a Redis Cluster or Sentinel Nodes
	Endpoints []string `yaml:"endpoints,omitempty"`
	// Username can be set when using a password protected redis instance.
	Username string `yaml:"username,omitempty"`
	// Password can be set when using a password protected redis instance.
	Password types.EnvString `yaml:"password,omitempty"`
	// SentinelMaster should be set when using Redis Sentinel to indicate the Master Node
	SentinelMaster string `yaml:"sentinel_master,omitempty"`
	// DB is the Database to be selected after connecting to the server.
	DB int `yaml:"db,omitempty"`
	// KeyPrefix is prepended to every key and stripped from listed keys
	KeyPrefix string `yaml:"key_prefix,omitempty"`
	// MaxRetries is the maximum number of retries before giving up on the command
	MaxRetries int `yaml:"max_retries,omitempty"`
	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration `yaml:"dial_timeout,omitempty"`
	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration `yaml:"read_timeout,omitempty"`
	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty"`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `yaml:"pool_size,omitempty"`
	// UseTLS indicates whether the server connection is TLS
	UseTLS bool `yaml:"use_tls,omitempty"`
}

// New returns a new Redis Options Reference with default values set
func New() *Options {
	return &Options{
		ClientType: DefaultRedisClientType,
		Protocol:   DefaultRedisProtocol,
		Endpoint:   DefaultRedisEndpoint,
		Endpoints:  []string{DefaultRedisEndpoint},
		KeyPrefix:  DefaultKeyPrefix,
	}
}

// Initialize fills any fields left empty after YAML unmarshaling
func (o *Options) Initialize() {
	if o.ClientType == "" {
		o.ClientType = DefaultRedisClientType
	}
	if o.Protocol == "" {
		o.Protocol = DefaultRedisProtocol
	}
	if o.Endpoint == "" {
		o.Endpoint = DefaultRedisEndpoint
	}
	if len(o.Endpoints) == 0 {
		o.Endpoints = []string{o.Endpoint}
	}
	if o.KeyPrefix == "" {
		o.KeyPrefix = DefaultKeyPrefix
	}
}
