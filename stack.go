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

import "context"

// ServerFinder answers find-servers queries against a discovery endpoint.
type ServerFinder interface {
	FindServers(ctx context.Context, discoveryURL string) ([]DiscoveredServer, error)
}

// Stack is the protocol stack surface the orchestrator depends on.
type Stack interface {
	ServerFinder

	// NewClient builds a client instance for the local application.
	NewClient(cfg ClientConfig) (Client, error)
}

// Client opens sessions on behalf of one local application.
type Client interface {
	// OpenSession opens a secure channel and session against endpoint.URL.
	// The returned task must be run until it returns; it is the session's
	// only path for incoming messages.
	OpenSession(ctx context.Context, endpoint EndpointDescriptor, identity Identity) (Session, BackgroundTask, error)
}

// ChangeCallback receives every data change of one subscription. It runs on
// the background task and must return quickly.
type ChangeCallback func(DataValue, MonitoredItem)

// Session is a shared handle to an authenticated session. Implementations
// are safe for concurrent use.
type Session interface {
	// WaitForConnection blocks until the session is usable.
	WaitForConnection(ctx context.Context) error

	CreateSubscription(ctx context.Context, params SubscriptionParams, onChange ChangeCallback) (SubscriptionInfo, error)

	// CreateMonitoredItems returns one result per request, in request order.
	CreateMonitoredItems(ctx context.Context, subscriptionID uint32, timestamps TimestampsToReturn, items []MonitoredItemRequest) ([]MonitoredItemResult, error)

	DeleteSubscription(ctx context.Context, subscriptionID uint32) error

	// Disconnect closes the session. Calling it again is a no-op.
	Disconnect(ctx context.Context) error
}

// BackgroundTask processes incoming session traffic until the session ends.
type BackgroundTask interface {
	// Run returns nil once the session was closed by Disconnect or ctx is
	// done, and an error when the session was lost.
	Run(ctx context.Context) error
}
