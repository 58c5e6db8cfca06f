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

// Package options holds the configuration of the upstream origin
package options

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	verrors "github.com/wepmaps/venuemaps/pkg/errors"
)

const (
	// DefaultTimeout is the default upstream request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultKeepAliveTimeout is how long idle upstream connections are kept
	DefaultKeepAliveTimeout = 5 * time.Minute
	// DefaultMaxIdleConns is the idle upstream connection pool size
	DefaultMaxIdleConns = 20
)

// TLSOptions configures how the origin's certificate is trusted and which
// client certificate is presented to it
type TLSOptions struct {
	// InsecureSkipVerify disables verification of the origin's certificate
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty"`
	// CertificateAuthorityPaths are PEM files added to the system roots
	CertificateAuthorityPaths []string `yaml:"certificate_authority_paths,omitempty"`
	// ClientCertPath and ClientKeyPath name the client certificate pair
	ClientCertPath string `yaml:"client_cert_path,omitempty"`
	ClientKeyPath  string `yaml:"client_key_path,omitempty"`
}

// Options describes the origin serving the static venue site
type Options struct {
	// URL is the base URL of the origin, e.g. http://site:8000
	URL string `yaml:"url,omitempty"`
	// Timeout bounds each upstream fetch; 0 disables the bound
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// KeepAliveTimeout is the keep-alive period of upstream connections
	KeepAliveTimeout time.Duration `yaml:"keep_alive_timeout,omitempty"`
	// MaxIdleConns caps the idle upstream connections
	MaxIdleConns int `yaml:"max_idle_conns,omitempty"`
	// TLS configures https origins
	TLS *TLSOptions `yaml:"tls,omitempty"`

	base *url.URL
}

// New returns Options with the default values set
func New() *Options {
	return &Options{
		Timeout:          DefaultTimeout,
		KeepAliveTimeout: DefaultKeepAliveTimeout,
		MaxIdleConns:     DefaultMaxIdleConns,
	}
}

// Validate parses URL and ensures it is absolute
func (o *Options) Validate() error {
	u, err := url.Parse(o.URL)
	if err != nil {
		return fmt.Errorf("%w: origin url: %w", verrors.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: origin url %q", verrors.ErrInvalidURL, o.URL)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: origin timeout %s", verrors.ErrInvalidOptions, o.Timeout)
	}
	if o.MaxIdleConns < 0 || o.KeepAliveTimeout < 0 {
		return fmt.Errorf("%w: origin connection pool", verrors.ErrInvalidOptions)
	}
	if o.TLS != nil && (o.TLS.ClientCertPath == "") != (o.TLS.ClientKeyPath == "") {
		return fmt.Errorf("%w: origin tls needs both client_cert_path and client_key_path",
			verrors.ErrInvalidOptions)
	}
	o.base = u
	return nil
}

// Base returns the parsed origin URL; Validate must have succeeded
func (o *Options) Base() *url.URL {
	if o.base == nil {
		o.base, _ = url.Parse(o.URL)
	}
	return o.base
}

// Clone returns a copy of the Options
func (o *Options) Clone() *Options {
	c := *o
	if o.TLS != nil {
		t := *o.TLS
		t.CertificateAuthorityPaths = slices.Clone(o.TLS.CertificateAuthorityPaths)
		c.TLS = &t
	}
	return &c
}

// Equal reports whether o and o2 describe the same origin connection
func (o *Options) Equal(o2 *Options) bool {
	if o == nil || o2 == nil {
		return o == o2
	}
	if o.URL != o2.URL || o.Timeout != o2.Timeout ||
		o.KeepAliveTimeout != o2.KeepAliveTimeout || o.MaxIdleConns != o2.MaxIdleConns {
		return false
	}
	if o.TLS == nil || o2.TLS == nil {
		return o.TLS == o2.TLS
	}
	return o.TLS.InsecureSkipVerify == o2.TLS.InsecureSkipVerify &&
		o.TLS.ClientCertPath == o2.TLS.ClientCertPath &&
		o.TLS.ClientKeyPath == o2.TLS.ClientKeyPath &&
		slices.Equal(o.TLS.CertificateAuthorityPaths, o2.TLS.CertificateAuthorityPaths)
}
