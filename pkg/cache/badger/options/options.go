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

package options

// DefaultCachePath is the default directory for badger data and value logs
const DefaultCachePath = "/tmp/venuemaps/badger"

// Options is a collection of Configurations for storing cached data in a Badger key-value store
type Options struct {
	// Directory represents the path on disk where the Badger database should store data
	Directory string `yaml:"directory,omitempty"`
	// ValueDirectory represents the path on disk where the Badger database will store its value log.
	ValueDirectory string `yaml:"value_directory,omitempty"`
}

// New returns a reference to a new Badger Options
func New() *Options {
	return &Options{Directory: DefaultCachePath, ValueDirectory: DefaultCachePath}
}

// Initialize fills any fields left empty after YAML unmarshaling. The
// value log follows Directory unless it is set separately.
func (o *Options) Initialize() {
	if o.Directory == "" {
		o.Directory = DefaultCachePath
	}
	if o.ValueDirectory == "" {
		o.ValueDirectory = o.Directory
	}
}
