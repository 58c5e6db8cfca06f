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

package controller

// State is the lifecycle state of a Controller
type State int

const (
	// StateNew is a controller that has not been installed
	StateNew = State(iota)
	// StateInstalling is a controller whose manifest fetch is in progress
	StateInstalling
	// StateInstalled is a controller that precached its manifest and is
	// waiting to take over
	StateInstalled
	// StateActive is the controller intercepting requests
	StateActive
	// StateRedundant is a controller that has been replaced or closed
	StateRedundant
)

var stateNames = map[State]string{
	StateNew:        "new",
	StateInstalling: "installing",
	StateInstalled:  "installed",
	StateActive:     "active",
	StateRedundant:  "redundant",
}

func (s State) String() string {
	if v, ok := stateNames[s]; ok {
		return v
	}
	return "unknown"
}
