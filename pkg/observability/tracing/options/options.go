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

// Package options holds the tracing configuration
package options

const (
	// ProviderNone disables tracing
	ProviderNone = "none"
	// ProviderStdout exports spans to stdout
	ProviderStdout = "stdout"

	// DefaultTracerProvider is the provider used when none is configured
	DefaultTracerProvider = ProviderNone
	// DefaultTracerServiceName is the service.name attribute attached to spans
	DefaultTracerServiceName = "venuemaps"
)

// Options is a Tracing Options collection
type Options struct {
	Provider    string            `yaml:"provider,omitempty"`
	ServiceName string            `yaml:"service_name,omitempty"`
	SampleRate  float64           `yaml:"sample_rate,omitempty"`
	PrettyPrint bool              `yaml:"pretty_print,omitempty"`
	Tags        map[string]string `yaml:"tags,omitempty"`
}

// New returns a new *Options with the default values
func New() *Options {
	return &Options{
		Provider:    DefaultTracerProvider,
		ServiceName: DefaultTracerServiceName,
		SampleRate:  1,
	}
}

// Clone returns an exact copy of a tracing config
func (o *Options) Clone() *Options {
	var tags map[string]string
	if o.Tags != nil {
		tags = make(map[string]string, len(o.Tags))
		for k, v := range o.Tags {
			tags[k] = v
		}
	}
	return &Options{
		Provider:    o.Provider,
		ServiceName: o.ServiceName,
		SampleRate:  o.SampleRate,
		PrettyPrint: o.PrettyPrint,
		Tags:        tags,
	}
}
