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

// Package errors holds errors shared across venuemaps packages
package errors

import "errors"

// ErrInvalidOptions is an error for when a configuration is invalid
var ErrInvalidOptions = errors.New("invalid options")

// ErrMissingPathConfig is an error for when a configuration is missing a path value
var ErrMissingPathConfig = errors.New("missing path config")

// ErrInvalidPath is an error for when a configuration's path is invalid
var ErrInvalidPath = errors.New("invalid path value in config")

// ErrInvalidURL is an error for when a configured URL cannot be used
var ErrInvalidURL = errors.New("invalid url value in config")

// ErrUnknownCache is an error for a reference to a cache name that is not configured
var ErrUnknownCache = errors.New("reference to undefined cache")

// ErrServerAlreadyStarted is an error for a second call to start the daemon
var ErrServerAlreadyStarted = errors.New("the server is already started")

// ErrNilListener is an error for an operation on a listener that was never opened
var ErrNilListener = errors.New("nil listener")

// ErrNoSuchListener is an error for an operation on an unknown listener name
var ErrNoSuchListener = errors.New("no such listener")
