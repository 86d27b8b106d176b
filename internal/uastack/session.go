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

package uastack

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/edgeo-scada/uawatch"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	notifyQueueSize     = 256
)

// uaClient is the part of *opcua.Client a session uses.
type uaClient interface {
	State() opcua.ConnState
	Subscribe(ctx context.Context, params *opcua.SubscriptionParameters, notifyCh chan<- *opcua.PublishNotificationData) (*opcua.Subscription, error)
	Close(ctx context.Context) error
}

// uaSubscription is the part of *opcua.Subscription a session uses.
type uaSubscription interface {
	Monitor(ctx context.Context, ts ua.TimestampsToReturn, items ...*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error)
	Cancel(ctx context.Context) error
}

type subscription struct {
	id       uint32
	sub      uaSubscription
	onChange uawatch.ChangeCallback

	mu    sync.RWMutex
	items map[uint32]uawatch.MonitoredItem
}

func (s *subscription) register(item uawatch.MonitoredItem) {
	s.mu.Lock()
	s.items[item.ClientHandle] = item
	s.mu.Unlock()
}

func (s *subscription) unregister(handles ...uint32) {
	s.mu.Lock()
	for _, h := range handles {
		delete(s.items, h)
	}
	s.mu.Unlock()
}

func (s *subscription) setID(handle, id uint32) {
	s.mu.Lock()
	if item, ok := s.items[handle]; ok {
		item.ID = id
		s.items[handle] = item
	}
	s.mu.Unlock()
}

func (s *subscription) item(handle uint32) (uawatch.MonitoredItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[handle]
	return item, ok
}

// session implements uawatch.Session. Every subscription publishes into one
// notify channel drained by the background task.
type session struct {
	client       uaClient
	cancel       context.CancelFunc
	logger       *slog.Logger
	pollInterval time.Duration
	notifyCh     chan *opcua.PublishNotificationData

	mu         sync.Mutex
	subs       map[uint32]*subscription
	nextHandle atomic.Uint32

	closeOnce sync.Once
	closed    chan struct{}
}

var _ uawatch.Session = (*session)(nil)

func newSession(c uaClient, cancel context.CancelFunc, logger *slog.Logger) *session {
	return &session{
		client:       c,
		cancel:       cancel,
		logger:       logger,
		pollInterval: defaultPollInterval,
		notifyCh:     make(chan *opcua.PublishNotificationData, notifyQueueSize),
		subs:         make(map[uint32]*subscription),
		closed:       make(chan struct{}),
	}
}

func (s *session) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// WaitForConnection polls the client state until it is connected.
func (s *session) WaitForConnection(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		switch st := s.client.State(); st {
		case opcua.Connected:
			return nil
		case opcua.Closed, opcua.Disconnected:
			return fmt.Errorf("%w: state %v", uawatch.ErrNotConnected, st)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed:
			return uawatch.ErrSessionClosed
		case <-ticker.C:
		}
	}
}

// CreateSubscription creates a subscription publishing into the session's
// notify channel.
func (s *session) CreateSubscription(ctx context.Context, params uawatch.SubscriptionParams, onChange uawatch.ChangeCallback) (uawatch.SubscriptionInfo, error) {
	if s.isClosed() {
		return uawatch.SubscriptionInfo{}, uawatch.ErrSessionClosed
	}
	if !params.PublishingEnabled {
		return uawatch.SubscriptionInfo{}, uawatch.ErrPublishingDisabled
	}

	sub, err := s.client.Subscribe(ctx, &opcua.SubscriptionParameters{
		Interval:                   params.PublishingInterval,
		LifetimeCount:              params.LifetimeCount,
		MaxKeepAliveCount:          params.MaxKeepAliveCount,
		MaxNotificationsPerPublish: params.MaxNotificationsPerPublish,
		Priority:                   params.Priority,
	}, s.notifyCh)
	if err != nil {
		return uawatch.SubscriptionInfo{}, err
	}

	s.addSubscription(sub.SubscriptionID, sub, onChange)

	return uawatch.SubscriptionInfo{
		ID:                        sub.SubscriptionID,
		RevisedPublishingInterval: sub.RevisedPublishingInterval,
		RevisedLifetimeCount:      sub.RevisedLifetimeCount,
		RevisedMaxKeepAliveCount:  sub.RevisedMaxKeepAliveCount,
	}, nil
}

func (s *session) addSubscription(id uint32, sub uaSubscription, onChange uawatch.ChangeCallback) *subscription {
	entry := &subscription{
		id:       id,
		sub:      sub,
		onChange: onChange,
		items:    make(map[uint32]uawatch.MonitoredItem),
	}
	s.mu.Lock()
	s.subs[id] = entry
	s.mu.Unlock()
	return entry
}

func (s *session) subscription(id uint32) *subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs[id]
}

// CreateMonitoredItems registers the items as one batch. Client handles are
// registered before the request is sent so that notifications racing the
// response are not lost.
func (s *session) CreateMonitoredItems(ctx context.Context, subscriptionID uint32, timestamps uawatch.TimestampsToReturn, items []uawatch.MonitoredItemRequest) ([]uawatch.MonitoredItemResult, error) {
	if s.isClosed() {
		return nil, uawatch.ErrSessionClosed
	}
	sub := s.subscription(subscriptionID)
	if sub == nil {
		return nil, fmt.Errorf("%w: %d", uawatch.ErrSubscriptionNotFound, subscriptionID)
	}

	handles := make([]uint32, len(items))
	reqs := make([]*ua.MonitoredItemCreateRequest, len(items))
	for i, it := range items {
		handles[i] = s.nextHandle.Add(1)
		sub.register(uawatch.MonitoredItem{
			SubscriptionID: subscriptionID,
			ClientHandle:   handles[i],
			NodeID:         it.NodeID,
			AttributeID:    it.AttributeID,
		})
		reqs[i] = toCreateRequest(it, handles[i])
	}

	resp, err := sub.sub.Monitor(ctx, ua.TimestampsToReturn(timestamps), reqs...)
	if err != nil {
		sub.unregister(handles...)
		return nil, err
	}
	if resp == nil || len(resp.Results) != len(items) {
		sub.unregister(handles...)
		n := 0
		if resp != nil {
			n = len(resp.Results)
		}
		return nil, fmt.Errorf("%w: %d results for %d items", uawatch.StatusBadUnexpectedError, n, len(items))
	}

	results := make([]uawatch.MonitoredItemResult, len(items))
	for i, r := range resp.Results {
		results[i] = toItemResult(items[i].NodeID, handles[i], r)
		if results[i].OK() {
			sub.setID(handles[i], results[i].MonitoredItemID)
		} else {
			sub.unregister(handles[i])
		}
	}
	return results, nil
}

// DeleteSubscription cancels the subscription on the server and forgets its
// items.
func (s *session) DeleteSubscription(ctx context.Context, subscriptionID uint32) error {
	s.mu.Lock()
	sub, ok := s.subs[subscriptionID]
	delete(s.subs, subscriptionID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", uawatch.ErrSubscriptionNotFound, subscriptionID)
	}
	return sub.sub.Cancel(ctx)
}

// Disconnect closes the session once; later calls return nil.
func (s *session) Disconnect(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.client.Close(ctx)
		s.cancel()
	})
	return err
}

// deliver routes one publish result to the callback of its subscription.
func (s *session) deliver(msg *opcua.PublishNotificationData) {
	if msg == nil {
		return
	}
	if msg.Error != nil {
		s.logger.Warn("Publish failed",
			slog.Uint64("subscription_id", uint64(msg.SubscriptionID)),
			slog.String("error", msg.Error.Error()))
		return
	}

	sub := s.subscription(msg.SubscriptionID)
	if sub == nil {
		s.logger.Debug("Notification for unknown subscription",
			slog.Uint64("subscription_id", uint64(msg.SubscriptionID)))
		return
	}

	switch v := msg.Value.(type) {
	case *ua.DataChangeNotification:
		for _, n := range v.MonitoredItems {
			if n == nil {
				continue
			}
			item, ok := sub.item(n.ClientHandle)
			if !ok {
				s.logger.Debug("Notification for unknown client handle",
					slog.Uint64("subscription_id", uint64(sub.id)),
					slog.Uint64("client_handle", uint64(n.ClientHandle)))
				continue
			}
			sub.onChange(toDataValue(n.Value), item)
		}
	case *ua.StatusChangeNotification:
		s.logger.Warn("Subscription status changed",
			slog.Uint64("subscription_id", uint64(sub.id)),
			slog.String("status", uawatch.StatusCode(v.Status).String()))
	default:
		s.logger.Debug("Ignoring notification",
			slog.Uint64("subscription_id", uint64(sub.id)),
			slog.String("type", fmt.Sprintf("%T", v)))
	}
}

// backgroundTask drains the notify channel and watches the connection.
type backgroundTask struct {
	s *session
}

// Run returns nil after Disconnect or when ctx is done, and an error
// wrapping uawatch.ErrSessionClosed when the connection was lost.
func (t *backgroundTask) Run(ctx context.Context) error {
	s := t.s
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.closed:
			return nil
		case msg := <-s.notifyCh:
			s.deliver(msg)
		case <-ticker.C:
			switch st := s.client.State(); st {
			case opcua.Closed, opcua.Disconnected:
				if s.isClosed() {
					return nil
				}
				return fmt.Errorf("%w: connection state %v", uawatch.ErrSessionClosed, st)
			}
		}
	}
}
