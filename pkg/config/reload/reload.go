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

// Package reload holds the signature shared by the config reload triggers
package reload

const (
	// ConfigNotReloadedText is reported when a reload request changed nothing
	ConfigNotReloadedText = "configuration NOT reloaded"
	// ConfigReloadedText is reported when a reload request applied a new configuration
	ConfigReloadedText = "configuration reloaded"
)

// Reloader reloads the running configuration when it has changed. source
// names the trigger (sighup, handler) for logging.
type Reloader func(source string) (bool, error)
