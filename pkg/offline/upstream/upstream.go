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

// Package upstream fetches resources from the origin on behalf of the
// offline cache controller
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
	"github.com/wepmaps/venuemaps/pkg/observability/tracing"
	"github.com/wepmaps/venuemaps/pkg/offline/classify"
	"github.com/wepmaps/venuemaps/pkg/offline/document"
	"github.com/wepmaps/venuemaps/pkg/proxy/headers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrTransport wraps every failure to obtain a response from the origin.
// A response with an error status is not a transport failure.
var ErrTransport = errors.New("origin unreachable")

// Fetcher issues requests to the origin
type Fetcher struct {
	client  *http.Client
	base    *url.URL
	timeout time.Duration
	tracer  *tracing.Tracer
}

// New returns a Fetcher for the origin at base. A nil client uses a
// client with the default transport; a nil tracer records nothing.
func New(base *url.URL, timeout time.Duration, tracer *tracing.Tracer, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &Fetcher{client: client, base: base, timeout: timeout, tracer: tracer}
}

// URL returns the origin URL for an origin-relative request URI
func (f *Fetcher) URL(requestURI string) (*url.URL, error) {
	ref, err := url.Parse(requestURI)
	if err != nil {
		return nil, err
	}
	u := *f.base
	u.Path = singleJoin(f.base.Path, ref.Path)
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	u.Fragment = ""
	return &u, nil
}

func singleJoin(a, b string) string {
	switch {
	case a == "" || a == "/":
		return b
	case a[len(a)-1] == '/' && len(b) > 0 && b[0] == '/':
		return a + b[1:]
	case a[len(a)-1] != '/' && (len(b) == 0 || b[0] != '/'):
		return a + "/" + b
	}
	return a + b
}

// Fetch GETs requestURI from the origin and buffers the response into a
// Document. inbound is the client request being served, or nil for
// fetches venuemaps originates itself.
func (f *Fetcher) Fetch(ctx context.Context, inbound *http.Request,
	requestURI string, class classify.Class) (*document.Document, error) {

	u, err := f.URL(requestURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	ctx, span := f.tracer.Start(ctx, "offline.fetch", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", u.String()),
			attribute.String("venuemaps.class", class.String())))

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		tracing.EndHTTPSpan(span, 0, err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if inbound != nil {
		if v := inbound.Header.Values(headers.NameAccept); len(v) > 0 {
			req.Header[headers.NameAccept] = append([]string(nil), v...)
		}
	}
	headers.AddForwardingHeaders(inbound, req)

	resp, err := f.client.Do(req)
	if err != nil {
		observe(class, "error", start)
		tracing.EndHTTPSpan(span, 0, err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observe(class, "error", start)
		tracing.EndHTTPSpan(span, resp.StatusCode, err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	observe(class, strconvClass(resp.StatusCode), start)
	tracing.EndHTTPSpan(span, resp.StatusCode, nil)
	return document.FromResponse(resp, body), nil
}

// Forward sends inbound to target unchanged and returns the unbuffered
// response, which the caller must close
func (f *Fetcher) Forward(ctx context.Context, inbound *http.Request, target *url.URL) (*http.Response, error) {
	ctx, span := f.tracer.Start(ctx, "offline.forward", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", inbound.Method),
			attribute.String("http.url", target.String())))
	req, err := http.NewRequestWithContext(ctx, inbound.Method, target.String(), inbound.Body)
	if err != nil {
		tracing.EndHTTPSpan(span, 0, err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header = inbound.Header.Clone()
	headers.StripHopHeaders(req.Header)
	req.ContentLength = inbound.ContentLength
	headers.AddForwardingHeaders(inbound, req)
	resp, err := f.client.Do(req)
	if err != nil {
		tracing.EndHTTPSpan(span, 0, err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	tracing.EndHTTPSpan(span, resp.StatusCode, nil)
	return resp, nil
}

// SameOrigin returns true if u is relative or names the origin host
func (f *Fetcher) SameOrigin(u *url.URL) bool {
	return !u.IsAbs() || u.Host == "" || strings.EqualFold(u.Host, f.base.Host)
}

func observe(class classify.Class, result string, start time.Time) {
	metrics.OfflineFetchDuration.WithLabelValues(class.String(), result).
		Observe(time.Since(start).Seconds())
}

func strconvClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	}
	return "1xx"
}
