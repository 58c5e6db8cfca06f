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

// Package options holds the configuration of the offline cache controller
package options

import (
	"fmt"
	"path"
	"strings"

	"github.com/wepmaps/venuemaps/pkg/encoding/providers"
	verrors "github.com/wepmaps/venuemaps/pkg/errors"
)

const (
	// DefaultCacheName is the name of the cache the partitions are stored in
	DefaultCacheName = "default"
	// DefaultPrefix is the partition name prefix
	DefaultPrefix = "wep"
	// DefaultVersion is the cache version embedded in both partition names
	DefaultVersion = "v4"
	// DefaultFallbackDocument is served to offline navigations with no cached copy
	DefaultFallbackDocument = "/index.html"
	// DefaultControlPath is where the control channel is mounted
	DefaultControlPath = "/__venuemaps/control"
	// DefaultCompression is the codec applied to stored documents
	DefaultCompression = providers.SnappyValue
)

// DefaultManifest is the list of static assets fetched at install time
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/Fiber.html",
	"/ESPN.html",
	"/camera_positions.html",
	"/test-category.html",
	"/style.css",
	"/script.js",
	"/header.js",
	"/nav.js",
	"/search.js",
	"/data.json",
	"/print.css",
	"/manifest.json",
}

// Options is the offline section of the venuemaps config
type Options struct {
	// CacheName names the cache (under caches) holding both partitions
	CacheName string `yaml:"cache_name,omitempty"`
	// Prefix is the first segment of each partition name
	Prefix string `yaml:"prefix,omitempty"`
	// Version is the cache version tag; changing it rotates both partitions
	Version string `yaml:"version,omitempty"`
	// Manifest lists the static asset paths fetched on install
	Manifest []string `yaml:"manifest,omitempty"`
	// FallbackDocument is served for offline navigations
	FallbackDocument string `yaml:"fallback_document,omitempty"`
	// ControlPath is the path of the control channel endpoint
	ControlPath string `yaml:"control_path,omitempty"`
	// SkipWaiting promotes a newly installed controller without waiting
	SkipWaiting *bool `yaml:"skip_waiting,omitempty"`
	// RevalidateImages refreshes cached images in the background on a hit
	RevalidateImages *bool `yaml:"revalidate_images,omitempty"`
	// RevalidateStatic refreshes cached static assets in the background on a hit
	RevalidateStatic *bool `yaml:"revalidate_static,omitempty"`
	// Compression names the codec applied to stored documents:
	// none, snappy, zstd, br, gzip or deflate
	Compression string `yaml:"compression,omitempty"`
	// AllowCrossOrigin passes absolute-form requests for other hosts
	// through uncached; when false they are refused
	AllowCrossOrigin bool `yaml:"allow_cross_origin,omitempty"`
}

// New returns an Options with the default values set
func New() *Options {
	return &Options{
		CacheName:        DefaultCacheName,
		Prefix:           DefaultPrefix,
		Version:          DefaultVersion,
		Manifest:         append([]string(nil), DefaultManifest...),
		FallbackDocument: DefaultFallbackDocument,
		ControlPath:      DefaultControlPath,
		Compression:      DefaultCompression,
		SkipWaiting:      boolPtr(true),
		RevalidateImages: boolPtr(true),
		RevalidateStatic: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// Initialize fills any unset values with their defaults
func (o *Options) Initialize() {
	d := New()
	if o.CacheName == "" {
		o.CacheName = d.CacheName
	}
	if o.Prefix == "" {
		o.Prefix = d.Prefix
	}
	if o.Version == "" {
		o.Version = d.Version
	}
	if len(o.Manifest) == 0 {
		o.Manifest = d.Manifest
	}
	if o.FallbackDocument == "" {
		o.FallbackDocument = d.FallbackDocument
	}
	if o.Compression == "" {
		o.Compression = d.Compression
	}
	if o.ControlPath == "" {
		o.ControlPath = d.ControlPath
	}
	if o.SkipWaiting == nil {
		o.SkipWaiting = d.SkipWaiting
	}
	if o.RevalidateImages == nil {
		o.RevalidateImages = d.RevalidateImages
	}
	if o.RevalidateStatic == nil {
		o.RevalidateStatic = d.RevalidateStatic
	}
}

// Validate checks the Options for a usable configuration
func (o *Options) Validate() error {
	if _, ok := providers.ProviderID(o.Compression); !ok {
		return fmt.Errorf("%w: offline compression %q", verrors.ErrInvalidOptions, o.Compression)
	}
	if strings.ContainsAny(o.Prefix, "/ ") || o.Prefix == "" {
		return fmt.Errorf("%w: offline prefix %q", verrors.ErrInvalidOptions, o.Prefix)
	}
	if strings.ContainsAny(o.Version, "/ ") || o.Version == "" {
		return fmt.Errorf("%w: offline version %q", verrors.ErrInvalidOptions, o.Version)
	}
	if !strings.HasPrefix(o.ControlPath, "/") {
		return fmt.Errorf("%w: control_path %q", verrors.ErrInvalidPath, o.ControlPath)
	}
	if !strings.HasPrefix(o.FallbackDocument, "/") {
		return fmt.Errorf("%w: fallback_document %q", verrors.ErrInvalidPath, o.FallbackDocument)
	}
	for _, p := range o.Manifest {
		if !strings.HasPrefix(p, "/") || path.Clean(p) != p {
			return fmt.Errorf("%w: manifest entry %q", verrors.ErrInvalidPath, p)
		}
	}
	return nil
}

// StaticPartition returns the name of the static asset partition
func (o *Options) StaticPartition() string {
	return o.Prefix + "-static-" + o.Version
}

// ImagePartition returns the name of the image partition
func (o *Options) ImagePartition() string {
	return o.Prefix + "-images-" + o.Version
}

// Clone returns a deep copy of the Options
func (o *Options) Clone() *Options {
	c := *o
	c.Manifest = append([]string(nil), o.Manifest...)
	if o.SkipWaiting != nil {
		c.SkipWaiting = boolPtr(*o.SkipWaiting)
	}
	if o.RevalidateImages != nil {
		c.RevalidateImages = boolPtr(*o.RevalidateImages)
	}
	if o.RevalidateStatic != nil {
		c.RevalidateStatic = boolPtr(*o.RevalidateStatic)
	}
	return &c
}

// Codec returns the compression provider for stored documents
func (o *Options) Codec() providers.Provider {
	p, _ := providers.ProviderID(o.Compression)
	return p
}
