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

// Package classify sorts intercepted requests into the resource classes
// that select a caching policy
package classify

import (
	"path"
	"strconv"
	"strings"
)

// Class enumerates the resource classes
type Class int

const (
	// Other is any same-origin GET that is neither an image nor a static asset
	Other = Class(iota)
	// Image is a request whose path ends in an image extension
	Image
	// StaticAsset is a manifest path or a css, js, json or html file
	StaticAsset
)

var names = map[Class]string{
	Other:       "other",
	Image:       "image",
	StaticAsset: "static",
}

func (c Class) String() string {
	if v, ok := names[c]; ok {
		return v
	}
	return strconv.Itoa(int(c))
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {},
}

var staticExtensions = map[string]struct{}{
	".css": {}, ".js": {}, ".json": {}, ".html": {},
}

// Classifier assigns a Class to request paths
type Classifier struct {
	manifest map[string]struct{}
}

// New returns a Classifier that treats every manifest path as a static asset
func New(manifest []string) *Classifier {
	m := make(map[string]struct{}, len(manifest))
	for _, p := range manifest {
		m[p] = struct{}{}
	}
	return &Classifier{manifest: m}
}

// Classify returns the Class of a request path. The image test runs
// before the static test.
func (c *Classifier) Classify(urlPath string) Class {
	ext := strings.ToLower(path.Ext(urlPath))
	if _, ok := imageExtensions[ext]; ok {
		return Image
	}
	if _, ok := c.manifest[urlPath]; ok {
		return StaticAsset
	}
	if _, ok := staticExtensions[ext]; ok {
		return StaticAsset
	}
	return Other
}
