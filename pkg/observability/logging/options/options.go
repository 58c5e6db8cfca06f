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

// Package options holds the logging configuration
package options

const (
	// DefaultLogLevel is the log level used when none is configured
	DefaultLogLevel = "info"
	// DefaultLogFile is empty, meaning log to the console
	DefaultLogFile = ""
)

// Options is a collection of Logging options
type Options struct {
	// LogFile provides the filepath to the instance's logfile. Set as empty string to Log to Console
	LogFile string `yaml:"log_file,omitempty"`
	// LogLevel provides the most granular level (e.g., debug, info, error) to log
	LogLevel string `yaml:"log_level,omitempty"`
}

// New returns a new Options with default values
func New() *Options {
	return &Options{LogLevel: DefaultLogLevel, LogFile: DefaultLogFile}
}

// Clone returns a clone of the Options
func (o *Options) Clone() *Options {
	return &Options{LogLevel: o.LogLevel, LogFile: o.LogFile}
}

// Equal returns true when both Options would produce the same logger
func (o *Options) Equal(o2 *Options) bool {
	if o2 == nil {
		return false
	}
	return o.LogFile == o2.LogFile && o.LogLevel == o2.LogLevel
}
