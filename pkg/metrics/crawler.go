/*
 * Copyright 2025 Carver Automation Corporation.
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

// Package metrics exposes crawler state as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brotheri"

// Crawler records scan, sampler and supervisor measurements in its own registry.
type Crawler struct {
	registry *prometheus.Registry

	scanRunning      prometheus.Gauge
	scanProgress     prometheus.Gauge
	scansTotal       *prometheus.CounterVec
	lastScanDuration prometheus.Gauge
	devices          prometheus.Gauge
	links            prometheus.Gauge

	downSpeed     *prometheus.GaugeVec
	upSpeed       *prometheus.GaugeVec
	quotaExceeded prometheus.Counter

	workerRestarts prometheus.Counter
}

func newGauge(registry *prometheus.Registry, subsystem, name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
	registry.MustRegister(g)

	return g
}

func newCounter(registry *prometheus.Registry, subsystem, name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
	registry.MustRegister(c)

	return c
}

// New builds the collectors. The version is exported as a build info gauge.
func New(version string) *Crawler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "crawler_info",
		Help:        "Crawler build information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
	info.Set(1)
	registry.MustRegister(info)

	c := &Crawler{
		registry:         registry,
		scanRunning:      newGauge(registry, "scan", "running", "Whether a topology scan is in progress."),
		scanProgress:     newGauge(registry, "scan", "progress_percent", "Progress of the current scan."),
		lastScanDuration: newGauge(registry, "scan", "last_duration_seconds", "Duration of the last scan."),
		devices:          newGauge(registry, "scan", "devices", "Devices found by the last successful scan."),
		links:            newGauge(registry, "scan", "links", "Links inferred by the last successful scan."),
		quotaExceeded:    newCounter(registry, "bandwidth", "quota_exceeded_total", "Hosts flagged as over their monthly quota."),
		workerRestarts:   newCounter(registry, "monitor", "worker_restarts_total", "Monitoring worker respawns."),
	}

	c.scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "total",
		Help:      "Completed scans by result.",
	}, []string{"result"})

	c.downSpeed = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bandwidth",
		Name:      "down_bytes_per_second",
		Help:      "Last sampled download rate per host.",
	}, []string{"device_id"})

	c.upSpeed = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bandwidth",
		Name:      "up_bytes_per_second",
		Help:      "Last sampled upload rate per host.",
	}, []string{"device_id"})

	registry.MustRegister(c.scansTotal, c.downSpeed, c.upSpeed)

	return c
}

func (c *Crawler) ScanStarted() {
	c.scanRunning.Set(1)
	c.scanProgress.Set(0)
}

func (c *Crawler) ScanProgress(progress int) {
	c.scanProgress.Set(float64(progress))
}

// ScanFinished records the outcome. Device and link counts only move on success.
func (c *Crawler) ScanFinished(duration time.Duration, devices, links int, err error) {
	c.scanRunning.Set(0)
	c.lastScanDuration.Set(duration.Seconds())

	if err != nil {
		c.scansTotal.WithLabelValues("failure").Inc()
		return
	}

	c.scansTotal.WithLabelValues("success").Inc()
	c.scanProgress.Set(100)
	c.devices.Set(float64(devices))
	c.links.Set(float64(links))
}

func (c *Crawler) SampleRecorded(deviceID string, downSpeed, upSpeed float64) {
	c.downSpeed.WithLabelValues(deviceID).Set(downSpeed)
	c.upSpeed.WithLabelValues(deviceID).Set(upSpeed)
}

func (c *Crawler) QuotaExceeded(string) {
	c.quotaExceeded.Inc()
}

func (c *Crawler) WorkerRestarted() {
	c.workerRestarts.Inc()
}

// Registry returns the registry the collectors live in.
func (c *Crawler) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Crawler) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
