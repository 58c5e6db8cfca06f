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

// Package proxy builds the HTTP clients used to reach the origin
package proxy

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/wepmaps/venuemaps/pkg/origin/options"
)

// NewHTTPClient returns an HTTP client configured for the origin. Redirects
// are returned to the caller rather than followed, and the per-request
// timeout is left to the caller's context.
func NewHTTPClient(o *options.Options) (*http.Client, error) {

	if o == nil {
		return nil, nil
	}

	var TLSConfig *tls.Config

	if o.TLS != nil {
		TLSConfig = &tls.Config{InsecureSkipVerify: o.TLS.InsecureSkipVerify}

		if o.TLS.ClientCertPath != "" && o.TLS.ClientKeyPath != "" {
			cert, err := tls.LoadX509KeyPair(o.TLS.ClientCertPath, o.TLS.ClientKeyPath)
			if err != nil {
				return nil, err
			}
			TLSConfig.Certificates = []tls.Certificate{cert}
		}

		if len(o.TLS.CertificateAuthorityPaths) > 0 {
			// start from the system pool, or an empty one when it is unavailable
			rootCAs, _ := x509.SystemCertPool()
			if rootCAs == nil {
				rootCAs = x509.NewCertPool()
			}
			for _, path := range o.TLS.CertificateAuthorityPaths {
				certs, err := os.ReadFile(path)
				if err != nil {
					return nil, err
				}
				if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
					return nil, fmt.Errorf("unable to append to CA Certs from file %s", path)
				}
			}
			TLSConfig.RootCAs = rootCAs
		}
	}

	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{KeepAlive: o.KeepAliveTimeout}).DialContext,
			MaxIdleConns:        o.MaxIdleConns,
			MaxIdleConnsPerHost: o.MaxIdleConns,
			IdleConnTimeout:     o.KeepAliveTimeout,
			TLSClientConfig:     TLSConfig,
		},
	}, nil
}
