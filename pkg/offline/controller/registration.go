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

import (
	"context"
	"net/http"
	"sync"

	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/offline/upstream"
)

// Registration tracks the active controller and at most one installed
// controller waiting to replace it
type Registration struct {
	mu          sync.RWMutex
	active      *Controller
	waiting     *Controller
	passthrough http.Handler
}

// Status summarizes a Registration
type Status struct {
	ActiveVersion  string   `json:"active_version,omitempty"`
	WaitingVersion string   `json:"waiting_version,omitempty"`
	Partitions     []string `json:"partitions,omitempty"`
}

// NewRegistration returns an empty Registration. Requests arriving before
// any controller activates are handed to passthrough.
func NewRegistration(passthrough http.Handler) *Registration {
	return &Registration{passthrough: passthrough}
}

// Register installs c. With skipWaiting the controller is activated at
// once; otherwise it waits for SkipWaiting. A failed install leaves the
// current controller in place.
func (reg *Registration) Register(ctx context.Context, c *Controller, skipWaiting bool) error {
	if err := c.Install(ctx); err != nil {
		c.Close()
		return err
	}
	reg.mu.Lock()
	prev := reg.waiting
	reg.waiting = c
	reg.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	if skipWaiting {
		return reg.SkipWaiting(ctx)
	}
	logger.Info("cache controller waiting", logging.Pairs{"version": c.Version()})
	return nil
}

// SkipWaiting promotes the waiting controller to active and retires the
// one it replaces. It is a no-op when nothing is waiting.
func (reg *Registration) SkipWaiting(ctx context.Context) error {
	reg.mu.Lock()
	c := reg.waiting
	if c == nil {
		reg.mu.Unlock()
		return nil
	}
	// the old controller stops writing before its partitions are deleted
	old := reg.active
	var prev State
	if old != nil && old != c {
		prev = old.retire()
	}
	if err := c.Activate(ctx); err != nil {
		if old != nil && old != c {
			old.setState(prev)
		}
		reg.mu.Unlock()
		return err
	}
	reg.active = c
	reg.waiting = nil
	reg.mu.Unlock()
	if old != nil && old != c {
		old.Close()
	}
	return nil
}

// Active returns the active controller or nil
func (reg *Registration) Active() *Controller {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.active
}

// Waiting returns the installed controller waiting to activate, or nil
func (reg *Registration) Waiting() *Controller {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.waiting
}

// Status reports the active and waiting versions and the partitions that
// currently exist
func (reg *Registration) Status() Status {
	reg.mu.RLock()
	active, waiting := reg.active, reg.waiting
	reg.mu.RUnlock()
	var s Status
	if active != nil {
		s.ActiveVersion = active.Version()
		if names, err := active.store.Names(); err == nil {
			s.Partitions = names
		}
	}
	if waiting != nil {
		s.WaitingVersion = waiting.Version()
	}
	return s
}

// ServeHTTP hands r to the active controller
func (reg *Registration) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reg.mu.RLock()
	c, pt := reg.active, reg.passthrough
	reg.mu.RUnlock()
	if c != nil {
		c.ServeHTTP(w, r)
		return
	}
	pt.ServeHTTP(w, r)
}

// SetPassthrough replaces the handler used while no controller is active
func (reg *Registration) SetPassthrough(h http.Handler) {
	reg.mu.Lock()
	reg.passthrough = h
	reg.mu.Unlock()
}

// Close retires both controllers
func (reg *Registration) Close() {
	reg.mu.Lock()
	active, waiting := reg.active, reg.waiting
	reg.active, reg.waiting = nil, nil
	reg.mu.Unlock()
	if waiting != nil {
		waiting.Close()
	}
	if active != nil {
		active.Close()
	}
}

// Passthrough returns a handler that forwards every request to the origin
// without touching any cache
func Passthrough(f *upstream.Fetcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !f.SameOrigin(r.URL) {
			proxyError(w, http.StatusForbidden)
			return
		}
		u, err := f.URL(r.URL.RequestURI())
		if err == nil {
			var resp *http.Response
			if resp, err = f.Forward(r.Context(), r, u); err == nil {
				stream(w, resp)
				return
			}
		}
		logger.Warn("proxy request failed", logging.Pairs{"method": r.Method,
			"path": r.URL.Path, "detail": err.Error()})
		proxyError(w, http.StatusBadGateway)
	})
}
