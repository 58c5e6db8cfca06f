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
	"sync"
	"time"

	"github.com/wepmaps/venuemaps/pkg/config/reload"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/proxy/headers"
)

// ReloadHandleFunc will reload the running configuration if it has changed.
// Requests arriving within rateLimit of the last handled request are
// refused with 429.
func ReloadHandleFunc(f reload.Reloader, rateLimit time.Duration) func(http.ResponseWriter, *http.Request) {
	var mtx sync.Mutex
	var last time.Time
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headers.NameContentType, headers.ValueTextPlain)
		w.Header().Set(headers.NameCacheControl, headers.ValueNoCache)
		mtx.Lock()
		if rateLimit > 0 && !last.IsZero() && time.Since(last) < rateLimit {
			mtx.Unlock()
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(reload.ConfigNotReloadedText))
			return
		}
		last = time.Now()
		mtx.Unlock()
		didReload, err := f("handler")
		if err != nil {
			logger.Warn(reload.ConfigNotReloadedText, logging.Pairs{"detail": err.Error()})
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(reload.ConfigNotReloadedText))
			return
		}
		w.WriteHeader(http.StatusOK)
		if didReload {
			w.Write([]byte(reload.ConfigReloadedText))
		} else {
			w.Write([]byte(reload.ConfigNotReloadedText))
		}
	}
}
