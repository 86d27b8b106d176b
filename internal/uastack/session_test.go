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
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/uawatch"
)

type fakeClient struct {
	state     atomic.Int32
	closed    atomic.Int32
	closeErr  error
	subscribe func(*opcua.SubscriptionParameters, chan<- *opcua.PublishNotificationData) (*opcua.Subscription, error)
}

func (c *fakeClient) State() opcua.ConnState { return opcua.ConnState(c.state.Load()) }

func (c *fakeClient) setState(s opcua.ConnState) { c.state.Store(int32(s)) }

func (c *fakeClient) Subscribe(_ context.Context, p *opcua.SubscriptionParameters, ch chan<- *opcua.PublishNotificationData) (*opcua.Subscription, error) {
	return c.subscribe(p, ch)
}

func (c *fakeClient) Close(context.Context) error {
	c.closed.Add(1)
	return c.closeErr
}

type fakeSubscription struct {
	monitor  func(ua.TimestampsToReturn, []*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error)
	canceled atomic.Int32
}

func (s *fakeSubscription) Monitor(_ context.Context, ts ua.TimestampsToReturn, items ...*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error) {
	return s.monitor(ts, items)
}

func (s *fakeSubscription) Cancel(context.Context) error {
	s.canceled.Add(1)
	return nil
}

func testSession(c *fakeClient) (*session, *atomic.Int32) {
	var cancels atomic.Int32
	s := newSession(c, func() { cancels.Add(1) }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.pollInterval = 5 * time.Millisecond
	return s, &cancels
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

type recorded struct {
	dv   uawatch.DataValue
	item uawatch.MonitoredItem
}

func (r *recorder) onChange(dv uawatch.DataValue, item uawatch.MonitoredItem) {
	r.mu.Lock()
	r.calls = append(r.calls, recorded{dv, item})
	r.mu.Unlock()
}

func (r *recorder) snapshot() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func goodResults(n int) *ua.CreateMonitoredItemsResponse {
	resp := &ua.CreateMonitoredItemsResponse{}
	for i := 0; i < n; i++ {
		resp.Results = append(resp.Results, &ua.MonitoredItemCreateResult{
			StatusCode:              ua.StatusOK,
			MonitoredItemID:         uint32(100 + i),
			RevisedSamplingInterval: 250,
			RevisedQueueSize:        10,
		})
	}
	return resp
}

func requests(ids ...uawatch.NodeID) []uawatch.MonitoredItemRequest {
	reqs := make([]uawatch.MonitoredItemRequest, len(ids))
	for i, id := range ids {
		reqs[i] = uawatch.MonitoredItemRequest{
			NodeID:      id,
			AttributeID: uawatch.AttributeValue,
			Parameters:  uawatch.DefaultMonitoringParameters(),
		}
	}
	return reqs
}

func TestWaitForConnection(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		c := &fakeClient{}
		c.setState(opcua.Connecting)
		s, _ := testSession(c)

		go func() {
			time.Sleep(20 * time.Millisecond)
			c.setState(opcua.Connected)
		}()
		require.NoError(t, s.WaitForConnection(context.Background()))
	})

	t.Run("closed", func(t *testing.T) {
		c := &fakeClient{}
		c.setState(opcua.Closed)
		s, _ := testSession(c)

		err := s.WaitForConnection(context.Background())
		assert.ErrorIs(t, err, uawatch.ErrNotConnected)
	})

	t.Run("context canceled", func(t *testing.T) {
		c := &fakeClient{}
		c.setState(opcua.Connecting)
		s, _ := testSession(c)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, s.WaitForConnection(ctx), context.DeadlineExceeded)
	})
}

func TestCreateSubscription(t *testing.T) {
	c := &fakeClient{}
	var got *opcua.SubscriptionParameters
	c.subscribe = func(p *opcua.SubscriptionParameters, _ chan<- *opcua.PublishNotificationData) (*opcua.Subscription, error) {
		got = p
		return &opcua.Subscription{
			SubscriptionID:            7,
			RevisedPublishingInterval: 2 * time.Second,
			RevisedLifetimeCount:      30,
			RevisedMaxKeepAliveCount:  10,
		}, nil
	}
	s, _ := testSession(c)

	info, err := s.CreateSubscription(context.Background(), uawatch.DefaultSubscriptionParams(), func(uawatch.DataValue, uawatch.MonitoredItem) {})
	require.NoError(t, err)
	assert.Equal(t, uint32(7), info.ID)
	assert.Equal(t, 2*time.Second, info.RevisedPublishingInterval)
	assert.Equal(t, time.Second, got.Interval)
	assert.Equal(t, uint32(10), got.LifetimeCount)
	assert.NotNil(t, s.subscription(7))
}

func TestCreateSubscriptionPublishingDisabled(t *testing.T) {
	s, _ := testSession(&fakeClient{})
	params := uawatch.DefaultSubscriptionParams()
	params.PublishingEnabled = false

	_, err := s.CreateSubscription(context.Background(), params, func(uawatch.DataValue, uawatch.MonitoredItem) {})
	assert.ErrorIs(t, err, uawatch.ErrPublishingDisabled)
}

func TestCreateMonitoredItems(t *testing.T) {
	s, _ := testSession(&fakeClient{})
	var sent []*ua.MonitoredItemCreateRequest
	fs := &fakeSubscription{monitor: func(ts ua.TimestampsToReturn, items []*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error) {
		assert.Equal(t, ua.TimestampsToReturnBoth, ts)
		sent = items
		resp := goodResults(len(items))
		resp.Results[1].StatusCode = ua.StatusBadNodeIDUnknown
		return resp, nil
	}}
	sub := s.addSubscription(1, fs, (&recorder{}).onChange)

	ids := []uawatch.NodeID{
		uawatch.NewStringNodeID(2, "v1"),
		uawatch.NewStringNodeID(2, "v2"),
		uawatch.NewNumericNodeID(0, 2258),
	}
	results, err := s.CreateMonitoredItems(context.Background(), 1, uawatch.TimestampsToReturnBoth, requests(ids...))
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Len(t, sent, 3)

	for i, r := range results {
		assert.Equal(t, ids[i], r.NodeID)
		assert.Equal(t, sent[i].RequestedParameters.ClientHandle, r.ClientHandle)
	}
	assert.True(t, results[0].OK())
	assert.Equal(t, uawatch.StatusBadNodeIDUnknown, results[1].StatusCode)
	assert.Equal(t, 250*time.Millisecond, results[2].RevisedSamplingInterval)

	assert.Equal(t, "ns=2;s=v1", sent[0].ItemToMonitor.NodeID.String())
	assert.Equal(t, ua.AttributeIDValue, sent[0].ItemToMonitor.AttributeID)
	assert.Equal(t, ua.MonitoringModeReporting, sent[0].MonitoringMode)

	item, ok := sub.item(results[0].ClientHandle)
	require.True(t, ok)
	assert.Equal(t, uint32(100), item.ID)
	_, ok = sub.item(results[1].ClientHandle)
	assert.False(t, ok, "rejected item stays registered")
}

func TestCreateMonitoredItemsErrors(t *testing.T) {
	t.Run("unknown subscription", func(t *testing.T) {
		s, _ := testSession(&fakeClient{})
		_, err := s.CreateMonitoredItems(context.Background(), 9, uawatch.TimestampsToReturnBoth, requests(uawatch.NewNumericNodeID(0, 1)))
		assert.ErrorIs(t, err, uawatch.ErrSubscriptionNotFound)
	})

	t.Run("service failure", func(t *testing.T) {
		s, _ := testSession(&fakeClient{})
		fs := &fakeSubscription{monitor: func(ua.TimestampsToReturn, []*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error) {
			return nil, ua.StatusBadTooManyOperations
		}}
		sub := s.addSubscription(1, fs, (&recorder{}).onChange)

		_, err := s.CreateMonitoredItems(context.Background(), 1, uawatch.TimestampsToReturnBoth, requests(uawatch.NewNumericNodeID(0, 1)))
		require.Error(t, err)
		assert.Empty(t, sub.items)
	})

	t.Run("result count mismatch", func(t *testing.T) {
		s, _ := testSession(&fakeClient{})
		fs := &fakeSubscription{monitor: func(ua.TimestampsToReturn, []*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error) {
			return goodResults(1), nil
		}}
		s.addSubscription(1, fs, (&recorder{}).onChange)

		_, err := s.CreateMonitoredItems(context.Background(), 1, uawatch.TimestampsToReturnBoth,
			requests(uawatch.NewNumericNodeID(0, 1), uawatch.NewNumericNodeID(0, 2)))
		assert.True(t, uawatch.IsStatusCode(err, uawatch.StatusBadUnexpectedError))
	})
}

func TestDeliver(t *testing.T) {
	s, _ := testSession(&fakeClient{})
	rec := &recorder{}
	fs := &fakeSubscription{monitor: func(_ ua.TimestampsToReturn, items []*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error) {
		return goodResults(len(items)), nil
	}}
	s.addSubscription(3, fs, rec.onChange)

	results, err := s.CreateMonitoredItems(context.Background(), 3, uawatch.TimestampsToReturnBoth,
		requests(uawatch.NewStringNodeID(2, "v1"), uawatch.NewStringNodeID(2, "v2")))
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.deliver(&opcua.PublishNotificationData{
		SubscriptionID: 3,
		Value: &ua.DataChangeNotification{MonitoredItems: []*ua.MonitoredItemNotification{
			{ClientHandle: results[1].ClientHandle, Value: &ua.DataValue{Value: ua.MustVariant(int32(42)), SourceTimestamp: now}},
			{ClientHandle: 9999, Value: &ua.DataValue{Value: ua.MustVariant(int32(1))}},
			{ClientHandle: results[0].ClientHandle, Value: &ua.DataValue{Status: ua.StatusBadNodeIDUnknown}},
		}},
	})
	// Unknown subscription and publish errors are dropped.
	s.deliver(&opcua.PublishNotificationData{SubscriptionID: 4, Value: &ua.DataChangeNotification{}})
	s.deliver(&opcua.PublishNotificationData{SubscriptionID: 3, Error: errors.New("boom")})
	s.deliver(nil)

	calls := rec.snapshot()
	require.Len(t, calls, 2)

	assert.Equal(t, "ns=2;s=v2", calls[0].item.NodeID.String())
	require.True(t, calls[0].dv.HasValue())
	assert.Equal(t, int32(42), calls[0].dv.Value.Value)
	assert.Equal(t, "Int32", calls[0].dv.Value.Type)
	assert.Equal(t, now, calls[0].dv.SourceTimestamp)

	assert.Equal(t, "ns=2;s=v1", calls[1].item.NodeID.String())
	assert.False(t, calls[1].dv.HasValue())
	assert.Equal(t, uawatch.StatusBadNodeIDUnknown, calls[1].dv.Status)
}

func TestDeleteSubscription(t *testing.T) {
	s, _ := testSession(&fakeClient{})
	fs := &fakeSubscription{}
	s.addSubscription(5, fs, (&recorder{}).onChange)

	require.NoError(t, s.DeleteSubscription(context.Background(), 5))
	assert.Equal(t, int32(1), fs.canceled.Load())
	assert.ErrorIs(t, s.DeleteSubscription(context.Background(), 5), uawatch.ErrSubscriptionNotFound)
}

func TestDisconnectIdempotent(t *testing.T) {
	c := &fakeClient{closeErr: io.ErrClosedPipe}
	s, cancels := testSession(c)

	assert.ErrorIs(t, s.Disconnect(context.Background()), io.ErrClosedPipe)
	assert.NoError(t, s.Disconnect(context.Background()))
	assert.Equal(t, int32(1), c.closed.Load())
	assert.Equal(t, int32(1), cancels.Load())

	_, err := s.CreateSubscription(context.Background(), uawatch.DefaultSubscriptionParams(), (&recorder{}).onChange)
	assert.ErrorIs(t, err, uawatch.ErrSessionClosed)
}

func TestBackgroundTask(t *testing.T) {
	t.Run("returns nil after disconnect", func(t *testing.T) {
		c := &fakeClient{}
		c.setState(opcua.Connected)
		s, _ := testSession(c)
		task := &backgroundTask{s: s}

		done := make(chan error, 1)
		go func() { done <- task.Run(context.Background()) }()

		require.NoError(t, s.Disconnect(context.Background()))
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("task did not stop")
		}
	})

	t.Run("returns error when connection is lost", func(t *testing.T) {
		c := &fakeClient{}
		c.setState(opcua.Connected)
		s, _ := testSession(c)
		task := &backgroundTask{s: s}

		done := make(chan error, 1)
		go func() { done <- task.Run(context.Background()) }()

		c.setState(opcua.Disconnected)
		select {
		case err := <-done:
			assert.ErrorIs(t, err, uawatch.ErrSessionClosed)
		case <-time.After(time.Second):
			t.Fatal("task did not stop")
		}
	})

	t.Run("delivers notifications", func(t *testing.T) {
		c := &fakeClient{}
		c.setState(opcua.Connected)
		s, _ := testSession(c)
		rec := &recorder{}
		fs := &fakeSubscription{monitor: func(_ ua.TimestampsToReturn, items []*ua.MonitoredItemCreateRequest) (*ua.CreateMonitoredItemsResponse, error) {
			return goodResults(len(items)), nil
		}}
		s.addSubscription(1, fs, rec.onChange)
		results, err := s.CreateMonitoredItems(context.Background(), 1, uawatch.TimestampsToReturnBoth, requests(uawatch.NewNumericNodeID(0, 2258)))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- (&backgroundTask{s: s}).Run(ctx) }()

		s.notifyCh <- &opcua.PublishNotificationData{
			SubscriptionID: 1,
			Value: &ua.DataChangeNotification{MonitoredItems: []*ua.MonitoredItemNotification{
				{ClientHandle: results[0].ClientHandle, Value: &ua.DataValue{Value: ua.MustVariant("hello")}},
			}},
		}

		require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
		cancel()
		assert.NoError(t, <-done)
	})
}

func TestToDataValue(t *testing.T) {
	assert.Equal(t, uawatch.StatusBadNoData, toDataValue(nil).Status)

	dv := toDataValue(&ua.DataValue{Value: ua.MustVariant(3.5)})
	require.True(t, dv.HasValue())
	assert.Equal(t, "Double", dv.Value.Type)
	assert.True(t, dv.Status.IsGood())

	assert.False(t, toDataValue(&ua.DataValue{Status: ua.StatusBadNodeIDUnknown}).HasValue())

	null := toDataValue(&ua.DataValue{Value: &ua.Variant{}, Status: ua.StatusOK})
	require.True(t, null.HasValue())
	assert.Nil(t, null.Value.Value)
	assert.Equal(t, "Null", null.Value.Type)
	assert.Equal(t, uawatch.StatusGood, null.Status)

	assert.False(t, toDataValue(&ua.DataValue{Value: &ua.Variant{}, Status: ua.StatusBadNodeIDUnknown}).HasValue())
}

func TestSelectEndpoint(t *testing.T) {
	endpoints := []*ua.EndpointDescription{
		nil,
		{EndpointURL: "opc.tcp://a:4840", SecurityPolicyURI: ua.SecurityPolicyURIBasic256Sha256, SecurityMode: ua.MessageSecurityModeSignAndEncrypt},
		{EndpointURL: "opc.tcp://b:4840", SecurityPolicyURI: ua.SecurityPolicyURINone, SecurityMode: ua.MessageSecurityModeNone},
	}

	got := selectEndpoint(endpoints, uawatch.SecurityPolicyNone, uawatch.MessageSecurityModeNone)
	require.NotNil(t, got)
	assert.Equal(t, "opc.tcp://b:4840", got.EndpointURL)

	got = selectEndpoint(endpoints, uawatch.SecurityPolicyBasic256Sha256, uawatch.MessageSecurityModeSignAndEncrypt)
	require.NotNil(t, got)
	assert.Equal(t, "opc.tcp://a:4840", got.EndpointURL)

	assert.Nil(t, selectEndpoint(endpoints, uawatch.SecurityPolicyBasic256Sha256, uawatch.MessageSecurityModeSign))
}

func TestToServers(t *testing.T) {
	servers := toServers([]*ua.ApplicationDescription{
		{ApplicationURI: "urn:a", ApplicationName: &ua.LocalizedText{Text: "A"}, DiscoveryURLs: []string{"opc.tcp://a:4840"}},
		nil,
		{ApplicationURI: "urn:b"},
	})
	require.Len(t, servers, 2)
	assert.Equal(t, "A", servers[0].ApplicationName)
	assert.Equal(t, []string{"opc.tcp://a:4840"}, servers[0].DiscoveryURLs)
	assert.Empty(t, servers[1].ApplicationName)
	assert.Empty(t, servers[1].DiscoveryURLs)
}
