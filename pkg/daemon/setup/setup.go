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

// Package setup applies a loaded configuration to the running daemon
package setup

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	goruntime "runtime"
	"time"

	"github.com/wepmaps/venuemaps/pkg/appinfo"
	"github.com/wepmaps/venuemaps/pkg/appinfo/usage"
	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/registry"
	"github.com/wepmaps/venuemaps/pkg/config"
	"github.com/wepmaps/venuemaps/pkg/config/reload"
	"github.com/wepmaps/venuemaps/pkg/daemon/instance"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/level"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
	"github.com/wepmaps/venuemaps/pkg/observability/tracing"
	"github.com/wepmaps/venuemaps/pkg/offline/control"
	"github.com/wepmaps/venuemaps/pkg/offline/controller"
	"github.com/wepmaps/venuemaps/pkg/offline/partition"
	"github.com/wepmaps/venuemaps/pkg/offline/upstream"
	"github.com/wepmaps/venuemaps/pkg/proxy"
	"github.com/wepmaps/venuemaps/pkg/proxy/handlers"

	"github.com/gorilla/mux"
)

// LoadAndValidate loads the configuration from the provided command line
// arguments, the environment and the config file
func LoadAndValidate(args []string) (*config.Config, *config.Flags, error) {
	cfg, flags, err := config.Load(appinfo.Name, appinfo.Version, args)
	if err != nil {
		fmt.Println("\nERROR: Could not load configuration:", err.Error())
		if flags != nil && flags.ValidateConfig {
			usage.PrintUsage()
		}
		return nil, flags, err
	}
	return cfg, flags, nil
}

// ApplyConfig applies newConf to si. On the first call it builds every
// component; on a reload it keeps whatever the new configuration did not
// change. A changed offline section registers a new cache controller.
func ApplyConfig(si *instance.ServerInstance, newConf *config.Config,
	hupFunc reload.Reloader, errorFunc func()) error {

	if si == nil || newConf == nil {
		return nil
	}
	if si.Context == nil {
		si.Context = context.Background()
	}

	if newConf.Main.ServerName == "" {
		newConf.Main.ServerName, _ = os.Hostname()
	}
	appinfo.Server = newConf.Main.ServerName

	applyLoggingConfig(newConf, si.Config)
	for _, w := range newConf.LoaderWarnings {
		logger.Warn(w, nil)
	}

	tracer, err := applyTracingConfig(si, newConf)
	if err != nil {
		handleStartupIssue("tracing setup failed",
			logging.Pairs{"detail": err.Error()}, errorFunc)
		return err
	}

	caches, err := applyCachingConfig(si, newConf)
	if err != nil {
		handleStartupIssue("cache setup failed",
			logging.Pairs{"detail": err.Error()}, errorFunc)
		return err
	}

	client, err := proxy.NewHTTPClient(newConf.Origin)
	if err != nil {
		handleStartupIssue("origin client setup failed",
			logging.Pairs{"detail": err.Error()}, errorFunc)
		return err
	}
	fetcher := upstream.New(newConf.Origin.Base(), newConf.Origin.Timeout, tracer, client)
	if si.Registration == nil {
		si.Registration = controller.NewRegistration(controller.Passthrough(fetcher))
	} else {
		si.Registration.SetPassthrough(controller.Passthrough(fetcher))
	}

	if offlineChanged(si.Config, newConf) {
		store := partition.New(caches[newConf.Offline.CacheName], newConf.Offline.Codec())
		c := controller.New(newConf.Offline, store, fetcher)
		go registerController(si.Context, si.Registration, c, *newConf.Offline.SkipWaiting)
	}

	// every config (re)load is a new router
	r := mux.NewRouter()
	r.HandleFunc(newConf.Mgmt.PingHandlerPath, handlers.PingHandleFunc(newConf)).
		Methods(http.MethodGet, http.MethodHead)
	control.Register(r, newConf.Offline.ControlPath, si.Registration)
	r.PathPrefix("/").Handler(si.Registration)

	var rh http.Handler
	if hupFunc != nil {
		rh = http.HandlerFunc(handlers.ReloadHandleFunc(hupFunc, newConf.Mgmt.ReloadRateLimit))
	}
	applyListenerConfigs(newConf, si.Config, r, rh, si.Registration, errorFunc)

	if si.Tracer != nil && si.Tracer != tracer {
		go delayedTracerShutdown(si.Tracer, newConf.Frontend.DrainTimeout)
	}

	si.Config = newConf
	si.LoadedAt = time.Now()
	si.Caches = caches
	si.Tracer = tracer

	metrics.LastReloadSuccessfulTimestamp.Set(float64(time.Now().Unix()))
	metrics.LastReloadSuccessful.Set(1)
	return nil
}

// registerController installs c in the background. A failed install keeps
// the previously active controller, or passthrough when there is none.
func registerController(ctx context.Context, reg *controller.Registration,
	c *controller.Controller, skipWaiting bool) {
	if err := reg.Register(ctx, c, skipWaiting); err != nil {
		logger.Error("cache controller registration failed",
			logging.Pairs{"version": c.Version(), "detail": err.Error()})
		return
	}
	logger.Info("cache controller registered",
		logging.Pairs{"version": c.Version(), "skipWaiting": skipWaiting})
}

// offlineChanged reports whether newConf needs a new cache controller
func offlineChanged(oldConf, newConf *config.Config) bool {
	if oldConf == nil {
		return true
	}
	if !oldConf.Origin.Equal(newConf.Origin) ||
		!reflect.DeepEqual(oldConf.Offline, newConf.Offline) {
		return true
	}
	oc, nc := oldConf.Caches[oldConf.Offline.CacheName], newConf.Caches[newConf.Offline.CacheName]
	return oc == nil || !oc.Equal(nc)
}

func applyTracingConfig(si *instance.ServerInstance, newConf *config.Config) (*tracing.Tracer, error) {
	if si.Tracer != nil && si.Config != nil &&
		reflect.DeepEqual(si.Config.Tracing, newConf.Tracing) {
		return si.Tracer, nil
	}
	return tracing.New(newConf.Tracing, nil)
}

func applyLoggingConfig(c, o *config.Config) {

	oldLogger := logger.Logger()

	if c == nil || c.Logging == nil {
		return
	}

	if o != nil && o.Logging != nil {
		if c.Logging.Equal(o.Logging) {
			// no changes in logging config,
			// so we keep the old logger intact
			return
		}
		if c.Logging.LogFile == o.Logging.LogFile {
			// the only change is the log level, so update it and keep the original logger
			oldLogger.SetLogLevel(level.Level(c.Logging.LogLevel))
			return
		}
		if o.Logging.LogFile != "" {
			// if we're changing from file1 -> console or file1 -> file2, close file1 handle
			// the extra 1s allows HTTP listeners to close first and finish their log writes
			go delayedLogCloser(oldLogger, c.Frontend.DrainTimeout+time.Second)
		}
	}
	initLogger(c)
}

// applyCachingConfig connects the cache holding the offline partitions.
// A cache whose options did not change across a reload is reused.
func applyCachingConfig(si *instance.ServerInstance,
	newConf *config.Config) (cache.Lookup, error) {

	names := newConf.CacheSubset(newConf.Offline.CacheName)
	caches := make(cache.Lookup, len(names))

	for k, v := range names {
		if w, ok := si.Caches[k]; ok && v.Equal(w.Configuration()) {
			// if a cache is in both the old and new config, and unchanged, pass the
			// pre-existing object instead of making a new one
			caches[k] = w
			continue
		}
		c, err := registry.NewCache(k, v)
		if err != nil {
			for n, c := range caches {
				if old, ok := si.Caches[n]; !ok || old != c {
					c.Close()
				}
			}
			return nil, fmt.Errorf("cache %q: %w", k, err)
		}
		caches[k] = c
	}

	// close the caches the new configuration no longer uses
	for k, w := range si.Caches {
		if n, ok := caches[k]; ok && n == w {
			continue
		}
		go func(w cache.Client) {
			time.Sleep(newConf.Frontend.DrainTimeout)
			w.Close()
		}(w)
	}
	return caches, nil
}

func initLogger(c *config.Config) logging.Logger {
	logger.SetLogger(logging.New(c.Logging))
	logger.Info("application loaded from configuration",
		logging.Pairs{
			"name":      appinfo.Name,
			"version":   appinfo.Version,
			"goVersion": goruntime.Version(),
			"goArch":    goruntime.GOARCH,
			"goOS":      goruntime.GOOS,
			"commitID":  appinfo.GitCommitID,
			"buildTime": appinfo.BuildTime,
			"logLevel":  c.Logging.LogLevel,
			"config":    c.ConfigFilePath(),
			"pid":       os.Getpid(),
		},
	)
	return logger.Logger()
}

func delayedLogCloser(logger logging.Logger, delay time.Duration) {
	// we can't immediately close the logger, because some outstanding
	// http requests might still be on the old reference, so this will
	// allow time for those connections to drain
	if logger == nil {
		return
	}
	time.Sleep(delay)
	logger.Close()
}

func delayedTracerShutdown(t *tracing.Tracer, delay time.Duration) {
	time.Sleep(delay)
	if err := t.Shutdown(context.Background()); err != nil {
		logger.Warn("tracer shutdown failed", logging.Pairs{"detail": err.Error()})
	}
}

func handleStartupIssue(event string, detail logging.Pairs, errorFunc func()) {
	metrics.LastReloadSuccessful.Set(0)
	if event != "" {
		if errorFunc != nil {
			logger.Error(event, detail)
			errorFunc()
			return
		}
		logger.Warn(event, detail)
		return
	}
	if errorFunc != nil {
		errorFunc()
	}
}
