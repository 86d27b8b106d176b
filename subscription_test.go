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

package uawatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/mocks"
)

func noopChange(uawatch.DataValue, uawatch.MonitoredItem) {}

func TestSubscribe(t *testing.T) {
	session := mocks.NewMockSession(t)
	params := uawatch.DefaultSubscriptionParams()
	session.EXPECT().CreateSubscription(mock.Anything, params, mock.Anything).
		Return(uawatch.SubscriptionInfo{ID: 42, RevisedPublishingInterval: 2 * time.Second}, nil).Once()

	m := uawatch.NewSubscriptionManager(uawatch.WithLogger(discardLogger()))
	id, err := m.Subscribe(context.Background(), session, params, noopChange)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)
}

func TestSubscribeErrors(t *testing.T) {
	m := uawatch.NewSubscriptionManager(uawatch.WithLogger(discardLogger()))

	_, err := m.Subscribe(context.Background(), mocks.NewMockSession(t), uawatch.DefaultSubscriptionParams(), nil)
	assert.True(t, uawatch.IsSubscriptionError(err))
	assert.ErrorIs(t, err, uawatch.ErrInvalidConfig)

	session := mocks.NewMockSession(t)
	session.EXPECT().CreateSubscription(mock.Anything, mock.Anything, mock.Anything).
		Return(uawatch.SubscriptionInfo{}, uawatch.StatusBadTooManySubscriptions).Once()
	_, err = m.Subscribe(context.Background(), session, uawatch.DefaultSubscriptionParams(), noopChange)
	assert.True(t, uawatch.IsSubscriptionError(err))
	assert.True(t, uawatch.IsStatusCode(err, uawatch.StatusBadTooManySubscriptions))
}

func TestMonitorReturnsOneResultPerNode(t *testing.T) {
	ids := []uawatch.NodeID{
		uawatch.NewStringNodeID(2, "v1"),
		uawatch.NewStringNodeID(2, "missing"),
		uawatch.NewStringNodeID(2, "v1"),
	}
	session := mocks.NewMockSession(t)
	session.EXPECT().CreateMonitoredItems(mock.Anything, uint32(7), uawatch.TimestampsToReturnSource, mock.Anything).
		RunAndReturn(func(_ context.Context, _ uint32, _ uawatch.TimestampsToReturn, items []uawatch.MonitoredItemRequest) ([]uawatch.MonitoredItemResult, error) {
			require.Len(t, items, 3)
			for i, it := range items {
				assert.Equal(t, ids[i], it.NodeID)
				assert.Equal(t, uawatch.AttributeValue, it.AttributeID)
				assert.Equal(t, 100*time.Millisecond, it.Parameters.SamplingInterval)
			}
			// Servers do not echo node ids back.
			return []uawatch.MonitoredItemResult{
				{MonitoredItemID: 1, StatusCode: uawatch.StatusGood},
				{StatusCode: uawatch.StatusBadNodeIDUnknown},
				{MonitoredItemID: 3, StatusCode: uawatch.StatusGood},
			}, nil
		}).Once()

	m := uawatch.NewSubscriptionManager(
		uawatch.WithLogger(discardLogger()),
		uawatch.WithTimestamps(uawatch.TimestampsToReturnSource),
		uawatch.WithMonitoringParameters(uawatch.MonitoringParameters{SamplingInterval: 100 * time.Millisecond, QueueSize: 1}))

	results, err := m.Monitor(context.Background(), session, 7, ids)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := range ids {
		assert.Equal(t, ids[i], results[i].NodeID)
	}
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.True(t, results[2].OK())
}

func TestMonitorEmpty(t *testing.T) {
	m := uawatch.NewSubscriptionManager(uawatch.WithLogger(discardLogger()))
	results, err := m.Monitor(context.Background(), mocks.NewMockSession(t), 1, nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestMonitorErrors(t *testing.T) {
	ids := []uawatch.NodeID{uawatch.NewNumericNodeID(0, 2258), uawatch.NewNumericNodeID(0, 2259)}
	m := uawatch.NewSubscriptionManager(uawatch.WithLogger(discardLogger()))

	session := mocks.NewMockSession(t)
	session.EXPECT().CreateMonitoredItems(mock.Anything, uint32(1), mock.Anything, mock.Anything).
		Return(nil, uawatch.StatusBadSubscriptionIDInvalid).Once()
	_, err := m.Monitor(context.Background(), session, 1, ids)
	assert.True(t, uawatch.IsMonitorError(err))
	assert.True(t, uawatch.IsStatusCode(err, uawatch.StatusBadSubscriptionIDInvalid))

	session = mocks.NewMockSession(t)
	session.EXPECT().CreateMonitoredItems(mock.Anything, uint32(1), mock.Anything, mock.Anything).
		Return([]uawatch.MonitoredItemResult{{StatusCode: uawatch.StatusGood}}, nil).Once()
	_, err = m.Monitor(context.Background(), session, 1, ids)
	assert.True(t, uawatch.IsMonitorError(err))
}
