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

// Package daemon runs the venuemaps process as an HTTP Listener
// based on the provided configuration
package daemon

import (
	"context"
	"fmt"
	goruntime "runtime"
	"sync"

	"github.com/wepmaps/venuemaps/pkg/appinfo"
	"github.com/wepmaps/venuemaps/pkg/appinfo/usage"
	"github.com/wepmaps/venuemaps/pkg/cache/registry"
	"github.com/wepmaps/venuemaps/pkg/config"
	"github.com/wepmaps/venuemaps/pkg/daemon/instance"
	"github.com/wepmaps/venuemaps/pkg/daemon/setup"
	"github.com/wepmaps/venuemaps/pkg/daemon/signaling"
	verrors "github.com/wepmaps/venuemaps/pkg/errors"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
)

var mtx sync.Mutex
var wasStarted bool

// Start loads the configuration from args, starts the listeners and the
// offline cache controller, and blocks until ctx ends or the process is
// asked to stop. errorFunc is called when startup cannot complete.
func Start(ctx context.Context, args []string, errorFunc func()) error {
	mtx.Lock()
	if wasStarted {
		mtx.Unlock()
		return verrors.ErrServerAlreadyStarted
	}

	metrics.BuildInfo.WithLabelValues(goruntime.Version(),
		appinfo.GitCommitID, appinfo.Version).Set(1)

	conf, flags, err := setup.LoadAndValidate(args)
	if err != nil {
		mtx.Unlock()
		return err
	}

	// if it's a -version command, print version and exit
	if flags != nil && flags.PrintVersion {
		mtx.Unlock()
		usage.PrintVersion()
		return nil
	}

	// if it's a -validate command, print validation result
	if flags != nil && flags.ValidateConfig {
		mtx.Unlock()
		fmt.Println("venuemaps configuration validation succeeded.")
		return nil
	}
	wasStarted = true
	mtx.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	si := &instance.ServerInstance{
		Context: ctx,
		ConfigValidator: func() (*config.Config, error) {
			c, _, err := setup.LoadAndValidate(args)
			return c, err
		},
		ConfigApplicator: setup.ApplyConfig,
	}

	// Serve with Config
	if err := setup.ApplyConfig(si, conf, si.RequestReload, errorFunc); err != nil {
		return err
	}

	signaling.Wait(ctx, si.RequestReload)

	shutdown(si)
	return nil
}

func shutdown(si *instance.ServerInstance) {
	logger.Info("venuemaps shutting down", nil)
	setup.Listeners().DrainAndCloseAll(si.Config.Frontend.DrainTimeout)
	if si.Registration != nil {
		si.Registration.Close()
	}
	if err := registry.CloseCaches(si.Caches); err != nil {
		logger.Warn("cache shutdown failed", logging.Pairs{"detail": err.Error()})
	}
	if err := si.Tracer.Shutdown(context.Background()); err != nil {
		logger.Warn("tracer shutdown failed", logging.Pairs{"detail": err.Error()})
	}
	logger.Logger().Close()
}
