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

package headers

import (
	"net"
	"net/http"
	"strings"

	"github.com/wepmaps/venuemaps/pkg/appinfo"
)

const (
	// NameVia represents the HTTP Header Name of "Via"
	NameVia = "Via"
	// NameXForwardedFor represents the HTTP Header Name of "X-Forwarded-For"
	NameXForwardedFor = "X-Forwarded-For"
	// NameXForwardedHost represents the HTTP Header Name of "X-Forwarded-Host"
	NameXForwardedHost = "X-Forwarded-Host"
	// NameXForwardedProto represents the HTTP Header Name of "X-Forwarded-Proto"
	NameXForwardedProto = "X-Forwarded-Proto"
)

// AddForwardingHeaders sets the Via and X-Forwarded-* headers of the
// outbound request from the inbound one. inbound may be nil for requests
// venuemaps originates itself, such as install and warm-up fetches.
func AddForwardingHeaders(inbound, outbound *http.Request) {
	if outbound.Header == nil {
		outbound.Header = make(http.Header)
	}
	outbound.Header.Set(NameVia, viaValue())
	outbound.Header.Set(NameUserAgent, appinfo.UserAgent())
	if inbound == nil {
		return
	}
	if ua := inbound.Header.Get(NameUserAgent); ua != "" {
		outbound.Header.Set(NameUserAgent, ua)
	}
	clientIP, _, err := net.SplitHostPort(inbound.RemoteAddr)
	if err != nil {
		clientIP = inbound.RemoteAddr
	}
	if clientIP != "" {
		if prior := inbound.Header.Get(NameXForwardedFor); prior != "" {
			clientIP = prior + ", " + clientIP
		}
		outbound.Header.Set(NameXForwardedFor, clientIP)
	}
	if inbound.Host != "" {
		outbound.Header.Set(NameXForwardedHost, inbound.Host)
	}
	proto := "http"
	if inbound.TLS != nil {
		proto = "https"
	}
	outbound.Header.Set(NameXForwardedProto, proto)
}

func viaValue() string {
	v := "1.1 " + appinfo.Server
	if appinfo.Version != "" {
		v += " (" + strings.TrimSpace(appinfo.UserAgent()) + ")"
	}
	return v
}
