// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package uawatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "uawatch"

// Phases observed by Metrics.
const (
	phaseDiscovery = "discovery"
	phaseConnect   = "connect"
	phaseWait      = "wait_for_connection"
	phaseSubscribe = "subscribe"
	phaseMonitor   = "monitor"
	phaseActive    = "active"
)

// Metrics holds the orchestrator's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	State                 prometheus.Gauge
	Transitions           *prometheus.CounterVec
	PhaseDuration         *prometheus.HistogramVec
	DiscoveredURLs        prometheus.Counter
	SkippedServers        prometheus.Counter
	MonitoredItems        *prometheus.CounterVec
	Notifications         *prometheus.CounterVec
	DroppedNotifications  prometheus.Counter
	DisconnectErrorsTotal prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "driver",
			Name:      "state",
			Help:      "Driver state (0=idle, 1=discovering, 2=connecting, 3=waiting, 4=subscribing, 5=active, 6=disconnecting, 7=terminated, 8=failed)",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "driver",
			Name:      "transitions_total",
			Help:      "Driver state transitions",
		}, []string{"from", "to"}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "driver",
			Name:      "phase_duration_seconds",
			Help:      "Time spent in each orchestration phase",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		DiscoveredURLs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "discovery",
			Name:      "urls_total",
			Help:      "Connectable URLs returned by discovery",
		}),
		SkippedServers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "discovery",
			Name:      "skipped_servers_total",
			Help:      "Discovered servers skipped for advertising no discovery URLs",
		}),
		MonitoredItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "subscription",
			Name:      "monitored_items_total",
			Help:      "Monitored item creation results",
		}, []string{"result"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dispatch",
			Name:      "notifications_total",
			Help:      "Dispatched data change notifications by status severity",
		}, []string{"status"}),
		DroppedNotifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dispatch",
			Name:      "dropped_total",
			Help:      "Notifications dropped because the handler queue was full",
		}),
		DisconnectErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "disconnect_errors_total",
			Help:      "Disconnect requests that returned an error",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.State,
			m.Transitions,
			m.PhaseDuration,
			m.DiscoveredURLs,
			m.SkippedServers,
			m.MonitoredItems,
			m.Notifications,
			m.DroppedNotifications,
			m.DisconnectErrorsTotal,
		)
	}
	return m
}

func (m *Metrics) transition(from, to State) {
	if m == nil {
		return
	}
	m.State.Set(float64(to))
	m.Transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *Metrics) observePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *Metrics) urlsDiscovered(n int) {
	if m == nil {
		return
	}
	m.DiscoveredURLs.Add(float64(n))
}

func (m *Metrics) serverSkipped() {
	if m == nil {
		return
	}
	m.SkippedServers.Inc()
}

func (m *Metrics) itemCreated(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.MonitoredItems.WithLabelValues(result).Inc()
}

func (m *Metrics) notificationDispatched(n Notification) {
	if m == nil {
		return
	}
	status := n.Status.Severity()
	if !n.HasValue {
		status = "missing"
	}
	m.Notifications.WithLabelValues(status).Inc()
}

func (m *Metrics) notificationDropped() {
	if m == nil {
		return
	}
	m.DroppedNotifications.Inc()
}

func (m *Metrics) disconnectFailed() {
	if m == nil {
		return
	}
	m.DisconnectErrorsTotal.Inc()
}
