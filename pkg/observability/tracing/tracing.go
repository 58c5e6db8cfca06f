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

// Package tracing provides OpenTelemetry spans for upstream fetches and
// Data API calls
package tracing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/wepmaps/venuemaps/pkg/observability/tracing/options"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ErrUnknownProvider is returned for an unsupported tracing provider name
var ErrUnknownProvider = errors.New("unknown tracing provider")

// ShutdownFunc defines a function used to Flush a Tracer
type ShutdownFunc func(context.Context) error

// Tracer wraps an OpenTelemetry tracer together with its shutdown hook
type Tracer struct {
	trace.Tracer
	Name         string
	ShutdownFunc ShutdownFunc
	Options      *options.Options
}

// Noop returns a Tracer that records nothing
func Noop() *Tracer {
	return &Tracer{
		Tracer:  noop.NewTracerProvider().Tracer(options.DefaultTracerServiceName),
		Name:    options.ProviderNone,
		Options: options.New(),
	}
}

// New returns a Tracer for the provided options. Spans from the stdout
// provider are written to w, or os.Stdout when w is nil.
func New(opts *options.Options, w io.Writer) (*Tracer, error) {
	if opts == nil {
		return Noop(), nil
	}
	switch opts.Provider {
	case "", options.ProviderNone:
		return Noop(), nil
	case options.ProviderStdout:
	default:
		return nil, ErrUnknownProvider
	}

	if w == nil {
		w = os.Stdout
	}
	eo := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if opts.PrettyPrint {
		eo = append(eo, stdouttrace.WithPrettyPrint())
	}
	exp, err := stdouttrace.New(eo...)
	if err != nil {
		return nil, err
	}

	var sampler sdktrace.Sampler
	switch {
	case opts.SampleRate <= 0:
		sampler = sdktrace.NeverSample()
	case opts.SampleRate >= 1:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(opts.SampleRate)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp),
		sdktrace.WithSampler(sampler),
		sdktrace.WithResource(resource.NewWithAttributes("", tagAttributes(opts)...)),
	)

	return &Tracer{
		Tracer:       tp.Tracer(opts.ServiceName),
		Name:         opts.Provider,
		ShutdownFunc: tp.Shutdown,
		Options:      opts,
	}, nil
}

func tagAttributes(opts *options.Options) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("service.name", opts.ServiceName)}
	keys := make([]string, 0, len(opts.Tags))
	for k := range opts.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, attribute.String(k, opts.Tags[k]))
	}
	return attrs
}

// Shutdown flushes the tracer, if it has anything to flush
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.ShutdownFunc == nil {
		return nil
	}
	return t.ShutdownFunc(ctx)
}

// HTTPToCode translates an HTTP status code into a span status code
func HTTPToCode(status int) codes.Code {
	switch {
	case status < http.StatusBadRequest:
		return codes.Ok
	default:
		return codes.Error
	}
}

// EndHTTPSpan records the outcome of an HTTP exchange on span and ends it
func EndHTTPSpan(span trace.Span, statusCode int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
		span.SetStatus(HTTPToCode(statusCode), "")
	}
	span.End()
}
