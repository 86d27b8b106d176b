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

// Package uawatch discovers OPC UA servers, negotiates a session with one of
// them and keeps a subscription alive that streams data changes back to the
// application.
package uawatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NodeIDType represents the type of a NodeID identifier.
type NodeIDType uint8

// NodeID types.
const (
	NodeIDTypeNumeric NodeIDType = iota
	NodeIDTypeString
)

// NodeID addresses one node in a server address space.
type NodeID struct {
	Type       NodeIDType
	Namespace  uint16
	Numeric    uint32
	Identifier string
}

// NewNumericNodeID creates a new numeric NodeID.
func NewNumericNodeID(namespace uint16, id uint32) NodeID {
	return NodeID{
		Type:      NodeIDTypeNumeric,
		Namespace: namespace,
		Numeric:   id,
	}
}

// NewStringNodeID creates a new string NodeID.
func NewStringNodeID(namespace uint16, id string) NodeID {
	return NodeID{
		Type:       NodeIDTypeString,
		Namespace:  namespace,
		Identifier: id,
	}
}

// ParseNodeID parses the "ns=<n>;i=<id>" / "ns=<n>;s=<id>" notation. The
// namespace prefix is optional and defaults to 0; an identifier without a type
// prefix is numeric when it parses as one and a string otherwise.
func ParseNodeID(s string) (NodeID, error) {
	ns := uint16(0)
	identifier := strings.TrimSpace(s)
	if identifier == "" {
		return NodeID{}, fmt.Errorf("%w: empty", ErrInvalidNodeID)
	}

	if strings.HasPrefix(identifier, "ns=") {
		parts := strings.SplitN(identifier, ";", 2)
		if len(parts) != 2 {
			return NodeID{}, fmt.Errorf("%w: %s", ErrInvalidNodeID, s)
		}
		nsVal, err := strconv.ParseUint(strings.TrimPrefix(parts[0], "ns="), 10, 16)
		if err != nil {
			return NodeID{}, fmt.Errorf("%w: invalid namespace in %s", ErrInvalidNodeID, s)
		}
		ns = uint16(nsVal)
		identifier = parts[1]
	}

	switch {
	case strings.HasPrefix(identifier, "i="):
		id, err := strconv.ParseUint(strings.TrimPrefix(identifier, "i="), 10, 32)
		if err != nil {
			return NodeID{}, fmt.Errorf("%w: invalid numeric identifier in %s", ErrInvalidNodeID, s)
		}
		return NewNumericNodeID(ns, uint32(id)), nil
	case strings.HasPrefix(identifier, "s="):
		return NewStringNodeID(ns, strings.TrimPrefix(identifier, "s=")), nil
	case strings.HasPrefix(identifier, "g="), strings.HasPrefix(identifier, "b="):
		return NodeID{}, fmt.Errorf("%w: GUID and opaque identifiers are not supported: %s", ErrInvalidNodeID, s)
	}

	if id, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		return NewNumericNodeID(ns, uint32(id)), nil
	}
	return NewStringNodeID(ns, identifier), nil
}

// ParseNodeIDs parses every entry of ss, keeping order and duplicates.
func ParseNodeIDs(ss []string) ([]NodeID, error) {
	ids := make([]NodeID, 0, len(ss))
	for _, s := range ss {
		id, err := ParseNodeID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// String formats the NodeID in the notation accepted by ParseNodeID.
func (n NodeID) String() string {
	var id string
	switch n.Type {
	case NodeIDTypeNumeric:
		id = "i=" + strconv.FormatUint(uint64(n.Numeric), 10)
	case NodeIDTypeString:
		id = "s=" + n.Identifier
	default:
		return fmt.Sprintf("<unknown type %d>", n.Type)
	}
	if n.Namespace == 0 {
		return id
	}
	return fmt.Sprintf("ns=%d;%s", n.Namespace, id)
}

// MarshalText implements encoding.TextMarshaler.
func (n NodeID) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *NodeID) UnmarshalText(b []byte) error {
	id, err := ParseNodeID(string(b))
	if err != nil {
		return err
	}
	*n = id
	return nil
}

// AttributeID identifies a node attribute.
type AttributeID uint32

// Attributes that can be monitored.
const (
	AttributeNodeID      AttributeID = 1
	AttributeDisplayName AttributeID = 4
	AttributeValue       AttributeID = 13
)

// TimestampsToReturn specifies which timestamps to return.
type TimestampsToReturn uint32

// Timestamps to return options.
const (
	TimestampsToReturnSource  TimestampsToReturn = 0
	TimestampsToReturnServer  TimestampsToReturn = 1
	TimestampsToReturnBoth    TimestampsToReturn = 2
	TimestampsToReturnNeither TimestampsToReturn = 3
)

// String returns the string representation of a TimestampsToReturn.
func (t TimestampsToReturn) String() string {
	switch t {
	case TimestampsToReturnSource:
		return "Source"
	case TimestampsToReturnServer:
		return "Server"
	case TimestampsToReturnBoth:
		return "Both"
	case TimestampsToReturnNeither:
		return "Neither"
	default:
		return fmt.Sprintf("TimestampsToReturn(%d)", uint32(t))
	}
}

// ParseTimestampsToReturn converts a string to TimestampsToReturn.
func ParseTimestampsToReturn(s string) (TimestampsToReturn, error) {
	switch strings.ToLower(s) {
	case "both", "":
		return TimestampsToReturnBoth, nil
	case "source":
		return TimestampsToReturnSource, nil
	case "server":
		return TimestampsToReturnServer, nil
	case "neither":
		return TimestampsToReturnNeither, nil
	default:
		return 0, fmt.Errorf("unknown timestamps mode: %s", s)
	}
}

// MessageSecurityMode represents the security mode for messages.
type MessageSecurityMode uint32

// Message security modes.
const (
	MessageSecurityModeInvalid        MessageSecurityMode = 0
	MessageSecurityModeNone           MessageSecurityMode = 1
	MessageSecurityModeSign           MessageSecurityMode = 2
	MessageSecurityModeSignAndEncrypt MessageSecurityMode = 3
)

// String returns the string representation of a MessageSecurityMode.
func (m MessageSecurityMode) String() string {
	switch m {
	case MessageSecurityModeNone:
		return "None"
	case MessageSecurityModeSign:
		return "Sign"
	case MessageSecurityModeSignAndEncrypt:
		return "SignAndEncrypt"
	default:
		return "Invalid"
	}
}

// ParseSecurityMode converts a string to MessageSecurityMode.
func ParseSecurityMode(s string) (MessageSecurityMode, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return MessageSecurityModeNone, nil
	case "sign":
		return MessageSecurityModeSign, nil
	case "signandencrypt", "sign_and_encrypt":
		return MessageSecurityModeSignAndEncrypt, nil
	default:
		return MessageSecurityModeInvalid, fmt.Errorf("unknown security mode: %s", s)
	}
}

// SecurityPolicy is an OPC UA security policy URI.
type SecurityPolicy string

// Security policies.
const (
	SecurityPolicyNone           SecurityPolicy = "http://opcfoundation.org/UA/SecurityPolicy#None"
	SecurityPolicyBasic128Rsa15  SecurityPolicy = "http://opcfoundation.org/UA/SecurityPolicy#Basic128Rsa15"
	SecurityPolicyBasic256       SecurityPolicy = "http://opcfoundation.org/UA/SecurityPolicy#Basic256"
	SecurityPolicyBasic256Sha256 SecurityPolicy = "http://opcfoundation.org/UA/SecurityPolicy#Basic256Sha256"
	SecurityPolicyAes128Sha256   SecurityPolicy = "http://opcfoundation.org/UA/SecurityPolicy#Aes128_Sha256_RsaOaep"
	SecurityPolicyAes256Sha256   SecurityPolicy = "http://opcfoundation.org/UA/SecurityPolicy#Aes256_Sha256_RsaPss"
)

// ParseSecurityPolicy accepts either a short policy name or a full URI.
func ParseSecurityPolicy(s string) (SecurityPolicy, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return SecurityPolicyNone, nil
	case "basic128rsa15":
		return SecurityPolicyBasic128Rsa15, nil
	case "basic256":
		return SecurityPolicyBasic256, nil
	case "basic256sha256":
		return SecurityPolicyBasic256Sha256, nil
	case "aes128sha256rsaoaep", "aes128sha256":
		return SecurityPolicyAes128Sha256, nil
	case "aes256sha256rsapss", "aes256sha256":
		return SecurityPolicyAes256Sha256, nil
	}
	switch p := SecurityPolicy(s); p {
	case SecurityPolicyNone, SecurityPolicyBasic128Rsa15, SecurityPolicyBasic256,
		SecurityPolicyBasic256Sha256, SecurityPolicyAes128Sha256, SecurityPolicyAes256Sha256:
		return p, nil
	}
	return "", fmt.Errorf("unknown security policy: %s", s)
}

// Short returns the fragment of the policy URI, e.g. "Basic256Sha256".
func (p SecurityPolicy) Short() string {
	if i := strings.LastIndexByte(string(p), '#'); i >= 0 {
		return string(p)[i+1:]
	}
	return string(p)
}

// UserTokenType represents the type of user identity token.
type UserTokenType uint32

// User token types.
const (
	UserTokenTypeAnonymous   UserTokenType = 0
	UserTokenTypeUserName    UserTokenType = 1
	UserTokenTypeCertificate UserTokenType = 2
	UserTokenTypeIssuedToken UserTokenType = 3
)

// String returns the string representation of a UserTokenType.
func (t UserTokenType) String() string {
	switch t {
	case UserTokenTypeAnonymous:
		return "Anonymous"
	case UserTokenTypeUserName:
		return "UserName"
	case UserTokenTypeCertificate:
		return "Certificate"
	case UserTokenTypeIssuedToken:
		return "IssuedToken"
	default:
		return fmt.Sprintf("UserTokenType(%d)", uint32(t))
	}
}

// UserTokenPolicy selects which of the endpoint's token policies the identity
// is presented under. An empty PolicyID lets the stack pick the first policy
// matching TokenType.
type UserTokenPolicy struct {
	PolicyID  string
	TokenType UserTokenType
}

// Identity is the user identity token presented when activating a session.
type Identity struct {
	Type     UserTokenType
	Username string
	Password string
}

// AnonymousIdentity returns the anonymous identity token.
func AnonymousIdentity() Identity {
	return Identity{Type: UserTokenTypeAnonymous}
}

// UserNameIdentity returns a user name and password identity token.
func UserNameIdentity(username, password string) Identity {
	return Identity{Type: UserTokenTypeUserName, Username: username, Password: password}
}

// String never includes the password.
func (id Identity) String() string {
	if id.Type == UserTokenTypeUserName {
		return "UserName(" + id.Username + ")"
	}
	return id.Type.String()
}

// EndpointDescriptor names the server endpoint and how to secure the session
// opened against it.
type EndpointDescriptor struct {
	URL             string
	SecurityPolicy  SecurityPolicy
	SecurityMode    MessageSecurityMode
	UserTokenPolicy UserTokenPolicy
}

// DiscoveredServer is one entry of a find-servers response.
type DiscoveredServer struct {
	ApplicationName string
	ApplicationURI  string
	DiscoveryURLs   []string
}

// SubscriptionParams are the requested subscription timing parameters.
type SubscriptionParams struct {
	PublishingInterval         time.Duration
	LifetimeCount              uint32
	MaxKeepAliveCount          uint32
	MaxNotificationsPerPublish uint32
	Priority                   uint8
	PublishingEnabled          bool
}

// DefaultSubscriptionParams returns a 1s publishing interval with a lifetime
// count of 10 and a keep-alive count of 30.
func DefaultSubscriptionParams() SubscriptionParams {
	return SubscriptionParams{
		PublishingInterval: time.Second,
		LifetimeCount:      10,
		MaxKeepAliveCount:  30,
		PublishingEnabled:  true,
	}
}

// SubscriptionInfo is the server's answer to a create subscription request.
type SubscriptionInfo struct {
	ID                        uint32
	RevisedPublishingInterval time.Duration
	RevisedLifetimeCount      uint32
	RevisedMaxKeepAliveCount  uint32
}

// MonitoringParameters are the sampling settings of a monitored item.
type MonitoringParameters struct {
	SamplingInterval time.Duration
	QueueSize        uint32
	DiscardOldest    bool
}

// DefaultMonitoringParameters lets the server sample as fast as practical and
// keeps ten queued values, discarding the oldest.
func DefaultMonitoringParameters() MonitoringParameters {
	return MonitoringParameters{
		SamplingInterval: 0,
		QueueSize:        10,
		DiscardOldest:    true,
	}
}

// MonitoredItemRequest is one entry of a create monitored items batch.
type MonitoredItemRequest struct {
	NodeID      NodeID
	AttributeID AttributeID
	Parameters  MonitoringParameters
}

// MonitoredItemResult is the per-item outcome of a create monitored items
// batch. A bad StatusCode marks a failed entry; the batch itself succeeded.
type MonitoredItemResult struct {
	NodeID                  NodeID
	MonitoredItemID         uint32
	ClientHandle            uint32
	StatusCode              StatusCode
	RevisedSamplingInterval time.Duration
	RevisedQueueSize        uint32
}

// OK reports whether the item was created.
func (r MonitoredItemResult) OK() bool {
	return !r.StatusCode.IsBad()
}

// Err returns the item status as an error, or nil when the item was created.
func (r MonitoredItemResult) Err() error {
	if r.OK() {
		return nil
	}
	return r.StatusCode
}

// MonitoredItem identifies the item a data change belongs to.
type MonitoredItem struct {
	SubscriptionID uint32
	ID             uint32
	ClientHandle   uint32
	NodeID         NodeID
	AttributeID    AttributeID
}

// Variant is a decoded OPC UA variant.
type Variant struct {
	Type  string
	Value any
}

// DataValue is a status coded, timestamped value snapshot. Value is nil when
// the server reported no value; Status then explains why. A null variant
// sent with a good or uncertain status is a present Value whose Value field
// is nil.
type DataValue struct {
	Value           *Variant
	Status          StatusCode
	SourceTimestamp time.Time
	ServerTimestamp time.Time
}

// HasValue reports whether the snapshot carries a value.
func (dv DataValue) HasValue() bool {
	return dv.Value != nil
}
