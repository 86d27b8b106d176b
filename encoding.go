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
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Encoder serializes a notification for output or transport.
type Encoder func(Notification) ([]byte, error)

// notificationRecord is the serialized form of a Notification.
type notificationRecord struct {
	NodeID          string     `json:"node_id" yaml:"node_id" cbor:"node_id"`
	SubscriptionID  uint32     `json:"subscription_id" yaml:"subscription_id" cbor:"subscription_id"`
	Value           any        `json:"value" yaml:"value" cbor:"value"`
	Type            string     `json:"type,omitempty" yaml:"type,omitempty" cbor:"type,omitempty"`
	Missing         bool       `json:"missing,omitempty" yaml:"missing,omitempty" cbor:"missing,omitempty"`
	Status          string     `json:"status" yaml:"status" cbor:"status"`
	StatusCode      uint32     `json:"status_code" yaml:"status_code" cbor:"status_code"`
	SourceTimestamp *time.Time `json:"source_timestamp,omitempty" yaml:"source_timestamp,omitempty" cbor:"source_timestamp,omitempty"`
	ServerTimestamp *time.Time `json:"server_timestamp,omitempty" yaml:"server_timestamp,omitempty" cbor:"server_timestamp,omitempty"`
}

func newRecord(n Notification) notificationRecord {
	r := notificationRecord{
		NodeID:         n.NodeID.String(),
		SubscriptionID: n.SubscriptionID,
		Value:          n.Value,
		Type:           n.Type,
		Missing:        !n.HasValue,
		Status:         n.Status.String(),
		StatusCode:     uint32(n.Status),
	}
	if !n.SourceTimestamp.IsZero() {
		ts := n.SourceTimestamp.UTC()
		r.SourceTimestamp = &ts
	}
	if !n.ServerTimestamp.IsZero() {
		ts := n.ServerTimestamp.UTC()
		r.ServerTimestamp = &ts
	}
	return r
}

var notificationEncMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	notificationEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create notification CBOR encoder mode: %v", err))
	}
}

// EncodeJSON encodes n as a JSON object.
func EncodeJSON(n Notification) ([]byte, error) {
	return json.Marshal(newRecord(n))
}

// EncodeYAML encodes n as a YAML document.
func EncodeYAML(n Notification) ([]byte, error) {
	b, err := yaml.Marshal(newRecord(n))
	if err != nil {
		return nil, err
	}
	return append([]byte("---\n"), b...), nil
}

// EncodeCBOR encodes n as a canonical CBOR map.
func EncodeCBOR(n Notification) ([]byte, error) {
	return notificationEncMode.Marshal(newRecord(n))
}

// EncoderFor returns the encoder for format "json", "yaml" or "cbor".
func EncoderFor(format string) (Encoder, error) {
	switch format {
	case "json":
		return EncodeJSON, nil
	case "yaml":
		return EncodeYAML, nil
	case "cbor":
		return EncodeCBOR, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfig, format)
	}
}
