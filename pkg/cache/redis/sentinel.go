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
	"crypto/tls"

	"github.com/redis/go-redis/v9"
)

func (c *CacheClient) sentinelOpts() (*redis.FailoverOptions, error) {
	ro := c.Config.Redis
	if len(ro.Endpoints) == 0 {
		return nil, ErrInvalidEndpointsConfig
	}
	if ro.SentinelMaster == "" {
		return nil, ErrInvalidSentinelMasterConfig
	}

	o := &redis.FailoverOptions{
		SentinelAddrs: ro.Endpoints,
		MasterName:    ro.SentinelMaster,
		Username:      ro.Username,
		Password:      ro.Password.String(),
		DB:            ro.DB,
		MaxRetries:    ro.MaxRetries,
		DialTimeout:   ro.DialTimeout,
		ReadTimeout:   ro.ReadTimeout,
		WriteTimeout:  ro.WriteTimeout,
		PoolSize:      ro.PoolSize,
	}
	if ro.UseTLS {
		o.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return o, nil
}
