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

// Package metrics implements prometheus metrics and exposes the metrics HTTP handler
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricNamespace  = "venuemaps"
	offlineSubsystem = "offline"
	draftSubsystem   = "draft"
	configSubsystem  = "config"
	buildSubsystem   = "build"
	apiSubsystem     = "dataapi"
	frontSubsystem   = "frontend"
)

// BuildInfo is a Gauge representing the binary build information of the running server instance
var BuildInfo *prometheus.GaugeVec

// LastReloadSuccessful gauge will be set to 1 if the last config reload succeeded else 0
var LastReloadSuccessful prometheus.Gauge

// LastReloadSuccessfulTimestamp gauge is the epoch time of the most recent successful config load
var LastReloadSuccessfulTimestamp prometheus.Gauge

// OfflineLookups is a Counter of intercepted requests by partition, resource class and lookup status
var OfflineLookups *prometheus.CounterVec

// OfflineRevalidations is a Counter of background cache updates by partition and result
var OfflineRevalidations *prometheus.CounterVec

// OfflineLifecycle is a Counter of controller lifecycle events (install, activate) by result
var OfflineLifecycle *prometheus.CounterVec

// OfflinePartitionsDeleted is a Counter of partitions removed during activation
var OfflinePartitionsDeleted prometheus.Counter

// OfflineFetchDuration is a Histogram of upstream fetch latency in seconds
var OfflineFetchDuration *prometheus.HistogramVec

// DraftOperations is a Counter of draft store operations by operation and status
var DraftOperations *prometheus.CounterVec

// APIRequests is a Counter of Data API requests by operation and status code class
var APIRequests *prometheus.CounterVec

// FrontendMaxConnections is a Gauge representing the max number of active concurrent connections in the server
var FrontendMaxConnections prometheus.Gauge

// FrontendActiveConnections is a Gauge representing the current number of active connections in the server
var FrontendActiveConnections prometheus.Gauge

// FrontendConnections is a Counter of connection events (requested, accepted, failed, closed)
var FrontendConnections *prometheus.CounterVec

var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10}

func init() {
	BuildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: buildSubsystem,
			Name:      "info",
			Help: "A metric with a constant '1' value labeled by version, " +
				"revision, and goversion from which venuemaps was built.",
		},
		[]string{"goversion", "revision", "version"},
	)

	LastReloadSuccessfulTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: configSubsystem,
			Name:      "last_reload_success_time_seconds",
			Help:      "Timestamp of the last successful configuration reload.",
		},
	)

	LastReloadSuccessful = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: configSubsystem,
			Name:      "last_reload_successful",
			Help:      "Whether the last configuration reload attempt was successful.",
		},
	)

	OfflineLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: offlineSubsystem,
			Name:      "lookups_total",
			Help:      "Count of intercepted requests by partition, resource class and lookup status.",
		},
		[]string{"partition", "class", "status"},
	)

	OfflineRevalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: offlineSubsystem,
			Name:      "revalidations_total",
			Help:      "Count of background cache updates by partition and result.",
		},
		[]string{"partition", "result"},
	)

	OfflineLifecycle = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: offlineSubsystem,
			Name:      "lifecycle_events_total",
			Help:      "Count of cache controller lifecycle events by event and result.",
		},
		[]string{"event", "result"},
	)

	OfflinePartitionsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: offlineSubsystem,
			Name:      "partitions_deleted_total",
			Help:      "Count of cache partitions deleted during activation.",
		},
	)

	OfflineFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Subsystem: offlineSubsystem,
			Name:      "fetch_duration_seconds",
			Help:      "Time required in seconds to fetch a resource from the origin.",
			Buckets:   defaultBuckets,
		},
		[]string{"class", "result"},
	)

	DraftOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: draftSubsystem,
			Name:      "operations_total",
			Help:      "Count of admin draft operations by operation and status.",
		},
		[]string{"operation", "status"},
	)

	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: apiSubsystem,
			Name:      "requests_total",
			Help:      "Count of Data API requests by operation and response code class.",
		},
		[]string{"operation", "code"},
	)

	FrontendMaxConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: frontSubsystem,
			Name:      "max_connections",
			Help:      "Venuemaps max number of active connections.",
		},
	)

	FrontendActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: frontSubsystem,
			Name:      "active_connections",
			Help:      "Venuemaps number of active connections.",
		},
	)

	FrontendConnections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontSubsystem,
			Name:      "connections_total",
			Help:      "Count of frontend connection events by event.",
		},
		[]string{"event"},
	)

	prometheus.MustRegister(BuildInfo)
	prometheus.MustRegister(LastReloadSuccessful)
	prometheus.MustRegister(LastReloadSuccessfulTimestamp)
	prometheus.MustRegister(OfflineLookups)
	prometheus.MustRegister(OfflineRevalidations)
	prometheus.MustRegister(OfflineLifecycle)
	prometheus.MustRegister(OfflinePartitionsDeleted)
	prometheus.MustRegister(OfflineFetchDuration)
	prometheus.MustRegister(DraftOperations)
	prometheus.MustRegister(APIRequests)
	prometheus.MustRegister(FrontendMaxConnections)
	prometheus.MustRegister(FrontendActiveConnections)
	prometheus.MustRegister(FrontendConnections)
}

// Handler returns the http handler for the listener
func Handler() http.Handler {
	return promhttp.Handler()
}
