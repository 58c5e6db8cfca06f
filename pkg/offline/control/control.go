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

// Package control implements the one-way control channel of the offline
// cache controller
package control

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/offline/controller"
	"github.com/wepmaps/venuemaps/pkg/proxy/headers"

	"github.com/gorilla/mux"
)

const (
	// ActionPrecacheImages warms the image partition with the listed URLs
	ActionPrecacheImages = "precacheImages"
	// ActionSkipWaiting promotes the waiting controller
	ActionSkipWaiting = "skipWaiting"
)

// maxMessageSize bounds the size of a control message body
const maxMessageSize = 1 << 20

// Message is a control channel message
type Message struct {
	Action string   `json:"action"`
	Images []string `json:"images,omitempty"`
}

// Register mounts the control channel on r at path. Every method is
// routed to the handler so that non-POST requests are refused rather than
// forwarded to the origin by a catch-all route.
func Register(r *mux.Router, path string, reg *controller.Registration) {
	r.Handle(path, Handler(reg))
}

// Handler returns the control channel handler. Accepted messages are
// answered 202 with no body.
func Handler(reg *controller.Registration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set(headers.NameAllow, http.MethodPost)
			respond(w, http.StatusMethodNotAllowed)
			return
		}
		var m Message
		b, err := io.ReadAll(io.LimitReader(r.Body, maxMessageSize))
		if err == nil {
			err = json.Unmarshal(b, &m)
		}
		if err != nil {
			logger.Debug("invalid control message", logging.Pairs{"detail": err.Error()})
			respond(w, http.StatusBadRequest)
			return
		}
		switch m.Action {
		case ActionPrecacheImages:
			c := reg.Active()
			if c == nil {
				respond(w, http.StatusConflict)
				return
			}
			if err := c.Warm(r.Context(), m.Images); err != nil {
				logger.Warn("image warm-up refused", logging.Pairs{"detail": err.Error()})
				respond(w, http.StatusConflict)
				return
			}
			logger.Debug("image warm-up started", logging.Pairs{"count": len(m.Images)})
		case ActionSkipWaiting:
			if err := reg.SkipWaiting(r.Context()); err != nil {
				logger.Error("skip waiting failed", logging.Pairs{"detail": err.Error()})
			}
		default:
			respond(w, http.StatusBadRequest)
			return
		}
		respond(w, http.StatusAccepted)
	})
}

func respond(w http.ResponseWriter, code int) {
	w.Header().Set(headers.NameCacheControl, headers.ValueNoCache)
	w.WriteHeader(code)
}
