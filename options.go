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
	"log/slog"
)

// Option configures the orchestrator components.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	metrics    *Metrics
	handler    Handler
	finder     ServerFinder
	observer   StateObserver
	timestamps TimestampsToReturn
	monitoring MonitoringParameters
	runID      string
}

func defaultOptions() *options {
	return &options{
		logger:     slog.Default(),
		timestamps: TimestampsToReturnBoth,
		monitoring: DefaultMonitoringParameters(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records orchestration metrics. Nil disables them.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithHandler sets the handler dispatched data changes are forwarded to.
func WithHandler(h Handler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithServerFinder replaces the stack's find-servers query, e.g. with
// multicast discovery.
func WithServerFinder(f ServerFinder) Option {
	return func(o *options) {
		o.finder = f
	}
}

// WithStateObserver is called after every driver state transition.
func WithStateObserver(fn StateObserver) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithTimestamps sets the timestamps returned with monitored values.
func WithTimestamps(t TimestampsToReturn) Option {
	return func(o *options) {
		o.timestamps = t
	}
}

// WithMonitoringParameters overrides the default sampling settings of
// monitored items.
func WithMonitoringParameters(p MonitoringParameters) Option {
	return func(o *options) {
		o.monitoring = p
	}
}

// WithRunID sets the run id instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}
