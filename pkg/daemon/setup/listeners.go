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

package setup

import (
	"net/http"
	"time"

	"github.com/wepmaps/venuemaps/pkg/config"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
	"github.com/wepmaps/venuemaps/pkg/observability/pprof"
	"github.com/wepmaps/venuemaps/pkg/proxy/handlers"
	"github.com/wepmaps/venuemaps/pkg/proxy/handlers/health"
	"github.com/wepmaps/venuemaps/pkg/proxy/listener"

	"github.com/gorilla/mux"
)

const (
	frontendListener = "frontendListener"
	metricsListener  = "metricsListener"
	mgmtListener     = "mgmtListener"
)

var lg = listener.NewGroup()

// Listeners returns the listener group of the daemon
func Listeners() *listener.Group {
	return lg
}

func applyListenerConfigs(conf, oldConf *config.Config,
	router, reloadHandler http.Handler, reg health.Reporter, errorFunc func()) {

	if conf == nil || conf.Frontend == nil {
		return
	}

	if oldConf != nil && oldConf.Frontend.ConnectionsLimit != conf.Frontend.ConnectionsLimit {
		logger.Warn("connections limit change requires a process restart. listeners not updated.",
			logging.Pairs{"oldLimit": oldConf.Frontend.ConnectionsLimit,
				"newLimit": conf.Frontend.ConnectionsLimit})
		return
	}

	hasOldFC := oldConf != nil && oldConf.Frontend != nil
	hasOldMC := oldConf != nil && oldConf.Metrics != nil
	hasOldRC := oldConf != nil && oldConf.Mgmt != nil
	rht := conf.Frontend.ReadHeaderTimeout

	// if the plaintext HTTP port is configured, then set up the http listener instance
	if conf.Frontend.ListenPort > 0 && (!hasOldFC ||
		(oldConf.Frontend.ListenAddress != conf.Frontend.ListenAddress ||
			oldConf.Frontend.ListenPort != conf.Frontend.ListenPort)) {
		lg.DrainAndClose(frontendListener, conf.Frontend.DrainTimeout)
		go lg.StartListener(frontendListener,
			conf.Frontend.ListenAddress, conf.Frontend.ListenPort,
			conf.Frontend.ConnectionsLimit, router, errorFunc, rht)
	} else {
		lg.UpdateRouter(frontendListener, router)
	}

	// if the Metrics HTTP port is configured, then set up the http listener instance
	metricsRouter := mux.NewRouter()
	metricsRouter.Handle(conf.Metrics.Path, metrics.Handler())
	metricsRouter.HandleFunc(conf.Mgmt.ConfigHandlerPath, handlers.ConfigHandleFunc(conf))
	if conf.Mgmt.PprofOn("metrics") {
		pprof.RegisterRoutes("metrics", metricsRouter)
	}
	if conf.Metrics != nil && conf.Metrics.ListenPort > 0 &&
		(!hasOldMC || (conf.Metrics.ListenAddress != oldConf.Metrics.ListenAddress ||
			conf.Metrics.ListenPort != oldConf.Metrics.ListenPort)) {
		lg.DrainAndClose(metricsListener, 0)
		go lg.StartListener(metricsListener,
			conf.Metrics.ListenAddress, conf.Metrics.ListenPort,
			conf.Frontend.ConnectionsLimit, metricsRouter, errorFunc, rht)
	} else {
		lg.UpdateRouter(metricsListener, metricsRouter)
	}

	mr := mux.NewRouter() // management router
	mr.HandleFunc(conf.Mgmt.ConfigHandlerPath, handlers.ConfigHandleFunc(conf))
	mr.HandleFunc(conf.Mgmt.PingHandlerPath, handlers.PingHandleFunc(conf))
	mr.Handle(conf.Mgmt.HealthHandlerPath, health.StatusHandler(reg))
	if reloadHandler != nil {
		mr.Handle(conf.Mgmt.ReloadHandlerPath, reloadHandler)
	}
	if conf.Mgmt.PprofOn("mgmt") {
		pprof.RegisterRoutes("mgmt", mr)
	}
	// if the Management HTTP port is configured, then set up the http listener instance
	if conf.Mgmt.ListenPort > 0 &&
		(!hasOldRC || (conf.Mgmt.ListenAddress != oldConf.Mgmt.ListenAddress ||
			conf.Mgmt.ListenPort != oldConf.Mgmt.ListenPort)) {
		lg.DrainAndClose(mgmtListener, time.Millisecond*500)
		go lg.StartListener(mgmtListener,
			conf.Mgmt.ListenAddress, conf.Mgmt.ListenPort,
			conf.Frontend.ConnectionsLimit, mr, errorFunc, rht)
	} else {
		lg.UpdateRouter(mgmtListener, mr)
	}

	if hasOldMC && conf.Metrics.ListenPort < 1 {
		lg.DrainAndClose(metricsListener, 0)
	}
	if hasOldRC && conf.Mgmt.ListenPort < 1 {
		lg.DrainAndClose(mgmtListener, 0)
	}
}
