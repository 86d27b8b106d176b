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
	"fmt"
	"strings"
	"time"

	"github.com/gopcua/opcua/ua"

	"github.com/edgeo-scada/uawatch"
)

func toServers(apps []*ua.ApplicationDescription) []uawatch.DiscoveredServer {
	servers := make([]uawatch.DiscoveredServer, 0, len(apps))
	for _, app := range apps {
		if app == nil {
			continue
		}
		srv := uawatch.DiscoveredServer{
			ApplicationURI: app.ApplicationURI,
			DiscoveryURLs:  append([]string(nil), app.DiscoveryURLs...),
		}
		if app.ApplicationName != nil {
			srv.ApplicationName = app.ApplicationName.Text
		}
		servers = append(servers, srv)
	}
	return servers
}

func toNodeID(id uawatch.NodeID) *ua.NodeID {
	if id.Type == uawatch.NodeIDTypeString {
		return ua.NewStringNodeID(id.Namespace, id.Identifier)
	}
	return ua.NewNumericNodeID(id.Namespace, id.Numeric)
}

func toCreateRequest(it uawatch.MonitoredItemRequest, handle uint32) *ua.MonitoredItemCreateRequest {
	attr := it.AttributeID
	if attr == 0 {
		attr = uawatch.AttributeValue
	}
	return &ua.MonitoredItemCreateRequest{
		ItemToMonitor: &ua.ReadValueID{
			NodeID:       toNodeID(it.NodeID),
			AttributeID:  ua.AttributeID(attr),
			DataEncoding: &ua.QualifiedName{},
		},
		MonitoringMode: ua.MonitoringModeReporting,
		RequestedParameters: &ua.MonitoringParameters{
			ClientHandle:     handle,
			SamplingInterval: milliseconds(it.Parameters.SamplingInterval),
			QueueSize:        it.Parameters.QueueSize,
			DiscardOldest:    it.Parameters.DiscardOldest,
		},
	}
}

func toItemResult(id uawatch.NodeID, handle uint32, r *ua.MonitoredItemCreateResult) uawatch.MonitoredItemResult {
	res := uawatch.MonitoredItemResult{
		NodeID:       id,
		ClientHandle: handle,
	}
	if r == nil {
		res.StatusCode = uawatch.StatusBadUnexpectedError
		return res
	}
	res.StatusCode = uawatch.StatusCode(r.StatusCode)
	res.MonitoredItemID = r.MonitoredItemID
	res.RevisedSamplingInterval = duration(r.RevisedSamplingInterval)
	res.RevisedQueueSize = r.RevisedQueueSize
	return res
}

// toDataValue keeps the value when the server sent one and the status code
// otherwise. A null variant is a present value unless the status is bad.
func toDataValue(dv *ua.DataValue) uawatch.DataValue {
	if dv == nil {
		return uawatch.DataValue{Status: uawatch.StatusBadNoData}
	}
	out := uawatch.DataValue{
		Status:          uawatch.StatusCode(dv.Status),
		SourceTimestamp: dv.SourceTimestamp,
		ServerTimestamp: dv.ServerTimestamp,
	}
	if dv.Value != nil && (dv.Value.Value() != nil || !out.Status.IsBad()) {
		out.Value = &uawatch.Variant{
			Type:  strings.TrimPrefix(fmt.Sprint(dv.Value.Type()), "TypeID"),
			Value: dv.Value.Value(),
		}
	}
	return out
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func duration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
