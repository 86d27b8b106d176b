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
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/mocks"
)

var v2 = uawatch.MonitoredItem{SubscriptionID: 1, ID: 11, ClientHandle: 2, NodeID: uawatch.NewStringNodeID(2, "v2")}

func TestDispatcherValue(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	h := mocks.NewMockHandler(t)
	h.EXPECT().HandleNotification(uawatch.Notification{
		SubscriptionID:  1,
		ClientHandle:    2,
		NodeID:          v2.NodeID,
		HasValue:        true,
		Value:           int32(42),
		Type:            "Int32",
		Status:          uawatch.StatusGood,
		SourceTimestamp: ts,
	}).Return().Once()

	d := uawatch.NewDispatcher(h, uawatch.WithLogger(discardLogger()))
	d.OnChange(uawatch.DataValue{
		Value:           &uawatch.Variant{Type: "Int32", Value: int32(42)},
		Status:          uawatch.StatusGood,
		SourceTimestamp: ts,
	}, v2)
}

func TestDispatcherMissingValue(t *testing.T) {
	h := mocks.NewMockHandler(t)
	h.EXPECT().HandleNotification(mock.MatchedBy(func(n uawatch.Notification) bool {
		return !n.HasValue && n.Value == nil && n.Status == uawatch.StatusBadNodeIDUnknown
	})).Return().Once()

	d := uawatch.NewDispatcher(h, uawatch.WithLogger(discardLogger()))
	d.OnChange(uawatch.DataValue{Status: uawatch.StatusBadNodeIDUnknown}, v2)
}

func TestDispatcherNullValue(t *testing.T) {
	var got uawatch.Notification
	d := uawatch.NewDispatcher(uawatch.HandlerFunc(func(n uawatch.Notification) { got = n }), uawatch.WithLogger(discardLogger()))
	d.OnChange(uawatch.DataValue{Value: &uawatch.Variant{Type: "Null"}, Status: uawatch.StatusGood}, v2)

	assert.True(t, got.HasValue)
	assert.Nil(t, got.Value)
	assert.Equal(t, `Item "ns=2;s=v2", Value = <nil> (Good)`, uawatch.FormatNotification(got))
}

func TestDispatcherDefaultsToLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	d := uawatch.NewDispatcher(nil, uawatch.WithLogger(logger))

	d.OnChange(uawatch.DataValue{Value: &uawatch.Variant{Type: "Int32", Value: int32(42)}}, v2)
	d.OnChange(uawatch.DataValue{Status: uawatch.StatusBadNodeIDUnknown}, v2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "Item changed", first["msg"])
	assert.Equal(t, "ns=2;s=v2", first["node_id"])
	assert.EqualValues(t, 42, first["value"])
	assert.Equal(t, "Value not found", second["msg"])
	assert.Equal(t, "WARN", second["level"])
	assert.Equal(t, "BadNodeIdUnknown", second["status"])
}

func TestFormatNotification(t *testing.T) {
	assert.Equal(t, `Item "ns=2;s=v2", Value = 42 (Good)`, uawatch.FormatNotification(uawatch.Notification{
		NodeID: v2.NodeID, HasValue: true, Value: int32(42), Status: uawatch.StatusGood,
	}))
	assert.Equal(t, `Item "ns=2;s=v2", Value not found, error: BadNodeIdUnknown`, uawatch.FormatNotification(uawatch.Notification{
		NodeID: v2.NodeID, Status: uawatch.StatusBadNodeIDUnknown,
	}))
	assert.Equal(t, `Item "ns=2;s=v2", Value = 7 (UncertainLastUsableValue)`, uawatch.FormatNotification(uawatch.Notification{
		NodeID: v2.NodeID, HasValue: true, Value: 7, Status: uawatch.StatusUncertainLastUsableValue,
	}))
}

func TestWriterHandler(t *testing.T) {
	n := uawatch.Notification{NodeID: v2.NodeID, HasValue: true, Value: 1.5, Type: "Double", Status: uawatch.StatusGood}

	var text bytes.Buffer
	h, err := uawatch.NewWriterHandler(&text, "text")
	require.NoError(t, err)
	h.HandleNotification(n)
	assert.Equal(t, "Item \"ns=2;s=v2\", Value = 1.5 (Good)\n", text.String())

	var js bytes.Buffer
	h, err = uawatch.NewWriterHandler(&js, "json")
	require.NoError(t, err)
	h.HandleNotification(n)
	h.HandleNotification(n)
	lines := strings.Split(strings.TrimSpace(js.String()), "\n")
	assert.Len(t, lines, 2)
	assert.JSONEq(t, `{"node_id":"ns=2;s=v2","subscription_id":0,"value":1.5,"type":"Double","status":"Good","status_code":0}`, lines[0])

	_, err = uawatch.NewWriterHandler(&js, "xml")
	assert.ErrorIs(t, err, uawatch.ErrInvalidConfig)
}

func TestMultiHandler(t *testing.T) {
	var calls []string
	multi := uawatch.MultiHandler{
		uawatch.HandlerFunc(func(uawatch.Notification) { calls = append(calls, "a") }),
		uawatch.HandlerFunc(func(uawatch.Notification) { calls = append(calls, "b") }),
	}
	multi.HandleNotification(uawatch.Notification{})
	assert.Equal(t, []string{"a", "b"}, calls)
}
