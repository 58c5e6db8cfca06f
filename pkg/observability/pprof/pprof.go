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

// Package pprof registers the Go runtime profiling endpoints
package pprof

import (
	"net/http/pprof"

	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"

	"github.com/gorilla/mux"
)

// RegisterRoutes will register the Pprof Debugging endpoints to the provided router
func RegisterRoutes(routerName string, r *mux.Router) {
	logger.Info("registering pprof /debug routes", logging.Pairs{"routerName": routerName})
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	// Index also serves the named profiles (heap, goroutine, ...)
	r.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
}
