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
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SubscriptionManager creates subscriptions and registers monitored items on
// an established session.
type SubscriptionManager struct {
	logger     *slog.Logger
	metrics    *Metrics
	timestamps TimestampsToReturn
	monitoring MonitoringParameters
}

// NewSubscriptionManager creates a SubscriptionManager. Items are requested
// with the Value attribute and both timestamps unless overridden with
// WithTimestamps and WithMonitoringParameters.
func NewSubscriptionManager(opts ...Option) *SubscriptionManager {
	o := applyOptions(opts)
	return &SubscriptionManager{
		logger:     o.logger,
		metrics:    o.metrics,
		timestamps: o.timestamps,
		monitoring: o.monitoring,
	}
}

// Subscribe creates exactly one subscription and registers onChange as its
// only data change callback. The server assigned id is returned even when the
// server revised the requested parameters.
func (m *SubscriptionManager) Subscribe(ctx context.Context, session Session, params SubscriptionParams, onChange ChangeCallback) (uint32, error) {
	if onChange == nil {
		return 0, &SubscriptionError{Err: fmt.Errorf("%w: nil change callback", ErrInvalidConfig)}
	}

	start := time.Now()
	info, err := session.CreateSubscription(ctx, params, onChange)
	m.metrics.observePhase(phaseSubscribe, time.Since(start))
	if err != nil {
		return 0, &SubscriptionError{Err: err}
	}

	attrs := []any{
		slog.Uint64("subscription_id", uint64(info.ID)),
		slog.Duration("publishing_interval", info.RevisedPublishingInterval),
		slog.Uint64("lifetime_count", uint64(info.RevisedLifetimeCount)),
		slog.Uint64("max_keep_alive_count", uint64(info.RevisedMaxKeepAliveCount)),
	}
	if info.RevisedPublishingInterval != params.PublishingInterval ||
		info.RevisedLifetimeCount != params.LifetimeCount ||
		info.RevisedMaxKeepAliveCount != params.MaxKeepAliveCount {
		m.logger.Info("Subscription created with revised parameters", attrs...)
	} else {
		m.logger.Info("Subscription created", attrs...)
	}

	return info.ID, nil
}

// Monitor registers one monitored item per node id as a single batch and
// returns one result per node id in input order. A failed item is reported in
// its result; only a rejected batch returns a *MonitorError. Duplicate node
// ids are sent as given.
func (m *SubscriptionManager) Monitor(ctx context.Context, session Session, subscriptionID uint32, nodeIDs []NodeID) ([]MonitoredItemResult, error) {
	if len(nodeIDs) == 0 {
		return []MonitoredItemResult{}, nil
	}

	reqs := make([]MonitoredItemRequest, len(nodeIDs))
	for i, id := range nodeIDs {
		reqs[i] = MonitoredItemRequest{
			NodeID:      id,
			AttributeID: AttributeValue,
			Parameters:  m.monitoring,
		}
	}

	start := time.Now()
	results, err := session.CreateMonitoredItems(ctx, subscriptionID, m.timestamps, reqs)
	m.metrics.observePhase(phaseMonitor, time.Since(start))
	if err != nil {
		return nil, &MonitorError{SubscriptionID: subscriptionID, Err: err}
	}
	if len(results) != len(nodeIDs) {
		return nil, &MonitorError{
			SubscriptionID: subscriptionID,
			Err:            fmt.Errorf("server returned %d results for %d items", len(results), len(nodeIDs)),
		}
	}

	for i := range results {
		results[i].NodeID = nodeIDs[i]
		m.metrics.itemCreated(results[i].OK())
		if !results[i].OK() {
			m.logger.Warn("Monitored item rejected",
				slog.String("node_id", nodeIDs[i].String()),
				slog.String("status", results[i].StatusCode.String()))
			continue
		}
		m.logger.Debug("Monitored item created",
			slog.String("node_id", nodeIDs[i].String()),
			slog.Uint64("monitored_item_id", uint64(results[i].MonitoredItemID)),
			slog.Duration("sampling_interval", results[i].RevisedSamplingInterval))
	}

	return results, nil
}
