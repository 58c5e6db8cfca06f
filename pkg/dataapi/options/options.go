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

// Package options holds the configuration of the Data API client
package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/wepmaps/venuemaps/pkg/config/types"
	verrors "github.com/wepmaps/venuemaps/pkg/errors"
)

// DefaultTimeout is the default Data API request timeout
const DefaultTimeout = 30 * time.Second

// Options is the admin section of the venuemaps config
type Options struct {
	// APIBaseURL is the base URL of the Data API
	APIBaseURL string `yaml:"api_base_url,omitempty"`
	// Password is the admin password; ${ENV} references are expanded
	Password types.EnvString `yaml:"password,omitempty"`
	// Timeout bounds each Data API request
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// New returns Options with the default values set
func New() *Options {
	return &Options{Timeout: DefaultTimeout}
}

// Validate checks the Options for a usable configuration. An empty base
// URL is allowed and means the origin URL is used.
func (o *Options) Validate() error {
	if o.APIBaseURL == "" {
		return nil
	}
	u, err := url.Parse(o.APIBaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: api_base_url %q", verrors.ErrInvalidURL, o.APIBaseURL)
	}
	return nil
}
