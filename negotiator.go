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
	"log/slog"
	"time"
)

// Negotiator establishes sessions through a protocol stack.
type Negotiator struct {
	stack   Stack
	logger  *slog.Logger
	metrics *Metrics
}

// NewNegotiator creates a Negotiator on top of stack.
func NewNegotiator(stack Stack, opts ...Option) *Negotiator {
	o := applyOptions(opts)
	return &Negotiator{
		stack:   stack,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Connect builds a client from cfg and opens a session against endpoint,
// bounded by cfg.SessionTimeout. The session is not usable before
// WaitForConnection returns, and the task must be run by the caller.
// Every failure is returned as a *ConnectError; nothing is retried.
func (n *Negotiator) Connect(ctx context.Context, endpoint EndpointDescriptor, identity Identity, cfg ClientConfig) (Session, BackgroundTask, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, &ConnectError{Endpoint: endpoint.URL, Err: err}
	}

	client, err := n.stack.NewClient(cfg)
	if err != nil {
		return nil, nil, &ConnectError{Endpoint: endpoint.URL, Err: err}
	}

	n.logger.Info("Opening session",
		slog.String("endpoint", endpoint.URL),
		slog.String("security_policy", endpoint.SecurityPolicy.Short()),
		slog.String("security_mode", endpoint.SecurityMode.String()),
		slog.String("identity", identity.String()))

	ctx, cancel := context.WithTimeout(ctx, cfg.SessionTimeout)
	defer cancel()

	start := time.Now()
	session, task, err := client.OpenSession(ctx, endpoint, identity)
	n.metrics.observePhase(phaseConnect, time.Since(start))
	if err != nil {
		return nil, nil, &ConnectError{Endpoint: endpoint.URL, Err: err}
	}

	return session, task, nil
}
