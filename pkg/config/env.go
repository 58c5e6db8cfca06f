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

package config

import (
	"os"
	"strconv"
)

const (
	// Environment variables
	evOriginURL    = "VENUEMAPS_ORIGIN_URL"
	evCacheVersion = "VENUEMAPS_CACHE_VERSION"
	evProxyPort    = "VENUEMAPS_PROXY_PORT"
	evMetricsPort  = "VENUEMAPS_METRICS_PORT"
	evLogLevel     = "VENUEMAPS_LOG_LEVEL"
	evAPIBaseURL   = "VENUEMAPS_API_BASE_URL"
)

func (c *Config) loadEnvVars() {
	// Origin
	if x := os.Getenv(evOriginURL); x != "" {
		c.Origin.URL = x
	}

	if x := os.Getenv(evCacheVersion); x != "" {
		c.Offline.Version = x
	}

	// Proxy Port
	if x := os.Getenv(evProxyPort); x != "" {
		if y, err := strconv.ParseInt(x, 10, 32); err == nil {
			c.Frontend.ListenPort = int(y)
		}
	}

	// Metrics Port
	if x := os.Getenv(evMetricsPort); x != "" {
		if y, err := strconv.ParseInt(x, 10, 32); err == nil {
			c.Metrics.ListenPort = int(y)
		}
	}

	// LogLevel
	if x := os.Getenv(evLogLevel); x != "" {
		c.Logging.LogLevel = x
	}

	if x := os.Getenv(evAPIBaseURL); x != "" {
		c.Admin.APIBaseURL = x
	}
}
