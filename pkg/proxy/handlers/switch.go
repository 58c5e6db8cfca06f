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

package handlers

import (
	"net/http"
	"sync/atomic"
)

// SwitchHandler is an HTTP Wrapper that allows users to update the underlying handler in-place
// once associated with a net.Listener
type SwitchHandler struct {
	mux atomic.Pointer[http.Handler]
}

// NewSwitchHandler returns a New *SwitchHandler
func NewSwitchHandler(router http.Handler) *SwitchHandler {
	s := &SwitchHandler{}
	s.mux.Store(&router)
	return s
}

// ServeHTTP serves an HTTP Request
func (s *SwitchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// Update atomically changes the underlying handler without impacting user requests or uptime
func (s *SwitchHandler) Update(h http.Handler) {
	s.mux.Store(&h)
}

// Handler returns the current mux
func (s *SwitchHandler) Handler() http.Handler {
	return *s.mux.Load()
}
