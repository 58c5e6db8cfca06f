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

package types

import (
	"os"

	"gopkg.in/yaml.v3"
)

// EnvString is a string that should automatically have any environment variable references
// expanded as it is decoded from YAML. For example, if the YAML contains
//
//	foo: ${BAR}
//
// then the value of foo will be the value of the BAR environment variable.
type EnvString string

// UnmarshalYAML implements yaml.Unmarshaler
func (s *EnvString) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = EnvString(os.ExpandEnv(raw))
	return nil
}

// Unmarshal decodes a YAML scalar into s, expanding environment variables
func (s *EnvString) Unmarshal(data []byte) error {
	return yaml.Unmarshal(data, s)
}

// String returns the expanded value
func (s EnvString) String() string {
	return string(s)
}
