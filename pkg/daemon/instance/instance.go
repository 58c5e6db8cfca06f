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

// Package instance holds the running state of the daemon
package instance

import (
	"context"
	"sync"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/config"
	"github.com/wepmaps/venuemaps/pkg/config/reload"
	verrors "github.com/wepmaps/venuemaps/pkg/errors"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/tracing"
	"github.com/wepmaps/venuemaps/pkg/offline/controller"
)

// ConfigValidator loads and validates a fresh configuration
type ConfigValidator func() (*config.Config, error)

// ConfigApplicator applies a configuration to the instance
type ConfigApplicator func(*ServerInstance, *config.Config, reload.Reloader, func()) error

// ServerInstance is the state shared by the daemon and its reload triggers
type ServerInstance struct {
	// Context ends when the daemon shuts down
	Context      context.Context
	Config       *config.Config
	LoadedAt     time.Time
	Caches       cache.Lookup
	Tracer       *tracing.Tracer
	Registration *controller.Registration

	ConfigValidator  ConfigValidator
	ConfigApplicator ConfigApplicator

	mtx sync.Mutex
}

// RequestReload applies a freshly loaded configuration when the config
// file changed since it was last loaded
func (si *ServerInstance) RequestReload(source string) (bool, error) {
	si.mtx.Lock()
	defer si.mtx.Unlock()
	if si.Config == nil {
		return false, verrors.ErrInvalidOptions
	}
	if !si.Config.IsStale(si.LoadedAt) {
		logger.Warn(reload.ConfigNotReloadedText,
			logging.Pairs{"source": source, "reason": "config file unchanged"})
		return false, nil
	}
	conf, err := si.ConfigValidator()
	if err != nil {
		logger.Warn(reload.ConfigNotReloadedText,
			logging.Pairs{"source": source, "detail": err.Error()})
		return false, err
	}
	logger.Warn("configuration reload starting now",
		logging.Pairs{"source": source})
	if err := si.ConfigApplicator(si, conf, si.RequestReload, nil); err != nil {
		logger.Warn(reload.ConfigNotReloadedText,
			logging.Pairs{"source": source, "detail": err.Error()})
		return false, err
	}
	logger.Info(reload.ConfigReloadedText, logging.Pairs{"source": source})
	return true, nil
}
