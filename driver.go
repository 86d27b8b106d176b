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
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Driver sequences one run: discover, connect to the first advertised URL,
// subscribe, stay active until the session ends, disconnect.
type Driver struct {
	cfg        DriverConfig
	discoverer *Discoverer
	negotiator *Negotiator
	subs       *SubscriptionManager
	dispatcher *Dispatcher
	logger     *slog.Logger
	metrics    *Metrics
	observer   StateObserver
	runID      string

	mu             sync.RWMutex
	state          State
	started        bool
	endpointURL    string
	subscriptionID uint32
	results        []MonitoredItemResult
}

// NewDriver creates a Driver for cfg on top of stack.
func NewDriver(cfg DriverConfig, stack Stack, opts ...Option) (*Driver, error) {
	if stack == nil {
		return nil, fmt.Errorf("%w: stack is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	runID := o.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := o.logger.With(
		slog.String("run_id", runID),
		slog.String("discovery_url", cfg.DiscoveryURL))

	var finder ServerFinder = stack
	if o.finder != nil {
		finder = o.finder
	}

	shared := []Option{WithLogger(logger), WithMetrics(o.metrics)}
	return &Driver{
		cfg:        cfg,
		discoverer: NewDiscoverer(finder, shared...),
		negotiator: NewNegotiator(stack, shared...),
		subs: NewSubscriptionManager(append(shared,
			WithTimestamps(cfg.Timestamps),
			WithMonitoringParameters(cfg.Monitoring))...),
		dispatcher: NewDispatcher(o.handler, shared...),
		logger:     logger,
		metrics:    o.metrics,
		observer:   o.observer,
		runID:      runID,
		state:      StateIdle,
	}, nil
}

// RunID identifies this run in logs and forwarded notifications.
func (d *Driver) RunID() string { return d.runID }

// State returns the current state.
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// EndpointURL returns the selected server URL, empty before connecting.
func (d *Driver) EndpointURL() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.endpointURL
}

// SubscriptionID returns the server assigned subscription id, zero before
// subscribing.
func (d *Driver) SubscriptionID() uint32 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.subscriptionID
}

// Results returns the monitored item results in node id order.
func (d *Driver) Results() []MonitoredItemResult {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]MonitoredItemResult(nil), d.results...)
}

// Run executes the lifecycle and returns the terminal state. A discovery or
// connect error ends in StateFailed. An empty discovery result, a cancelled
// ctx in any phase and the end of the session end in StateTerminated; a
// subscription failure or a lost session ends there too but returns its
// error. The background task has always returned when Run returns.
func (d *Driver) Run(ctx context.Context) (State, error) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return d.State(), ErrDriverStarted
	}
	d.started = true
	d.mu.Unlock()

	d.transition(StateDiscovering)
	urls, err := d.discoverer.Discover(ctx, d.cfg.DiscoveryURL)
	if err != nil {
		if ctx.Err() != nil {
			d.logger.Info("Shutdown requested during discovery")
			d.transition(StateTerminated)
			return StateTerminated, nil
		}
		d.logger.Error("Discovery failed", slog.String("error", err.Error()))
		return d.fail(err)
	}
	if len(urls) == 0 {
		d.logger.Info("No usable server found")
		d.transition(StateTerminated)
		return StateTerminated, nil
	}

	url := urls[0]
	d.mu.Lock()
	d.endpointURL = url
	d.mu.Unlock()

	d.transition(StateConnecting)
	session, task, err := d.negotiator.Connect(ctx, d.cfg.endpoint(url), d.cfg.Identity, d.cfg.Client)
	if err != nil {
		if ctx.Err() != nil {
			d.logger.Info("Shutdown requested while connecting")
			d.transition(StateTerminated)
			return StateTerminated, nil
		}
		d.logger.Error("Connect failed", slog.String("endpoint", url), slog.String("error", err.Error()))
		return d.fail(err)
	}

	// The task outlives ctx so that teardown after a shutdown request still
	// drains the session.
	taskCtx, cancelTask := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelTask()
	taskDone := make(chan error, 1)
	go func() {
		taskDone <- task.Run(taskCtx)
	}()

	d.transition(StateWaitingForConnection)
	start := time.Now()
	err = session.WaitForConnection(ctx)
	d.metrics.observePhase(phaseWait, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			d.logger.Info("Shutdown requested while waiting for connection")
			return d.terminate(session, taskDone, cancelTask)
		}
		d.logger.Error("Session did not connect", slog.String("endpoint", url), slog.String("error", err.Error()))
		d.release(session, taskDone, cancelTask)
		return d.fail(&ConnectError{Endpoint: url, Err: err})
	}

	d.transition(StateSubscribing)
	if err := d.subscribe(ctx, session); err != nil {
		if ctx.Err() != nil {
			d.logger.Info("Shutdown requested while subscribing")
			return d.terminate(session, taskDone, cancelTask)
		}
		d.logger.Error("Subscription failed", slog.String("error", err.Error()))
		state, _ := d.terminate(session, taskDone, cancelTask)
		return state, err
	}

	d.transition(StateActive)
	start = time.Now()
	select {
	case err := <-taskDone:
		d.metrics.observePhase(phaseActive, time.Since(start))
		if err != nil {
			d.logger.Warn("Session ended", slog.String("error", err.Error()))
		} else {
			d.logger.Info("Session ended")
		}
		d.closeQuietly(session)
		d.transition(StateTerminated)
		return StateTerminated, err
	case <-ctx.Done():
		d.metrics.observePhase(phaseActive, time.Since(start))
		d.logger.Info("Shutdown requested")
		return d.terminate(session, taskDone, cancelTask)
	}
}

func (d *Driver) subscribe(ctx context.Context, session Session) error {
	subID, err := d.subs.Subscribe(ctx, session, d.cfg.Subscription, d.dispatcher.OnChange)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.subscriptionID = subID
	d.mu.Unlock()

	results, err := d.subs.Monitor(ctx, session, subID, d.cfg.NodeIDs)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.results = results
	d.mu.Unlock()

	ok := 0
	for _, r := range results {
		if r.OK() {
			ok++
		}
	}
	d.logger.Info("Monitoring nodes",
		slog.Uint64("subscription_id", uint64(subID)),
		slog.Int("requested", len(results)),
		slog.Int("created", ok))
	return nil
}

// terminate disconnects, waits for the task and ends in StateTerminated.
func (d *Driver) terminate(session Session, taskDone <-chan error, cancelTask context.CancelFunc) (State, error) {
	d.transition(StateDisconnecting)
	d.disconnect(session)
	d.awaitTask(taskDone, cancelTask)
	d.transition(StateTerminated)
	return StateTerminated, nil
}

// release tears the session down without a state transition.
func (d *Driver) release(session Session, taskDone <-chan error, cancelTask context.CancelFunc) {
	d.disconnect(session)
	d.awaitTask(taskDone, cancelTask)
}

// closeQuietly frees a session whose task already ended.
func (d *Driver) closeQuietly(session Session) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Client.SessionTimeout)
	defer cancel()
	if err := session.Disconnect(ctx); err != nil {
		d.logger.Debug("Closing ended session failed", slog.String("error", err.Error()))
	}
}

// disconnect never fails the run; errors are logged.
func (d *Driver) disconnect(session Session) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Client.SessionTimeout)
	defer cancel()
	if err := session.Disconnect(ctx); err != nil {
		d.metrics.disconnectFailed()
		d.logger.Warn("Disconnect failed", slog.String("error", err.Error()))
		return
	}
	d.logger.Info("Disconnected")
}

// awaitTask waits for the background task, cancelling it when it does not
// finish within the session timeout after disconnect.
func (d *Driver) awaitTask(taskDone <-chan error, cancelTask context.CancelFunc) {
	var err error
	select {
	case err = <-taskDone:
	case <-time.After(d.cfg.Client.SessionTimeout):
		d.logger.Warn("Background task still running after disconnect, cancelling")
		cancelTask()
		err = <-taskDone
	}
	if err != nil && !errors.Is(err, context.Canceled) && !IsSessionClosed(err) {
		d.logger.Warn("Background task ended with error", slog.String("error", err.Error()))
	}
}

func (d *Driver) fail(err error) (State, error) {
	d.transition(StateFailed)
	return StateFailed, err
}

func (d *Driver) transition(to State) {
	d.mu.Lock()
	from := d.state
	d.state = to
	d.mu.Unlock()

	d.metrics.transition(from, to)
	d.logger.Info("State changed", slog.String("from", from.String()), slog.String("to", to.String()))
	if d.observer != nil {
		d.observer(from, to)
	}
}
