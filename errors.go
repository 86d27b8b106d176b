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
	"errors"
	"fmt"
)

// StatusCode is an OPC UA status code as reported by the server.
type StatusCode uint32

// StatusCode severity levels.
const (
	StatusSeverityGood      uint32 = 0x00000000
	StatusSeverityUncertain uint32 = 0x40000000
	StatusSeverityBad       uint32 = 0x80000000
	StatusSeverityMask      uint32 = 0xC0000000
)

// Status codes surfaced by discovery, session and subscription services.
const (
	StatusGood                              StatusCode = 0x00000000
	StatusUncertain                         StatusCode = 0x40000000
	StatusUncertainNoCommunicationLastValue StatusCode = 0x408F0000
	StatusUncertainLastUsableValue          StatusCode = 0x40900000
	StatusBad                               StatusCode = 0x80000000
	StatusBadUnexpectedError                StatusCode = 0x80010000
	StatusBadInternalError                  StatusCode = 0x80020000
	StatusBadCommunicationError             StatusCode = 0x80050000
	StatusBadTimeout                        StatusCode = 0x800A0000
	StatusBadServiceUnsupported             StatusCode = 0x800B0000
	StatusBadShutdown                       StatusCode = 0x800C0000
	StatusBadServerNotConnected             StatusCode = 0x800D0000
	StatusBadTooManyOperations              StatusCode = 0x80100000
	StatusBadCertificateInvalid             StatusCode = 0x80120000
	StatusBadSecurityChecksFailed           StatusCode = 0x80130000
	StatusBadCertificateUntrusted           StatusCode = 0x801A0000
	StatusBadUserAccessDenied               StatusCode = 0x801F0000
	StatusBadIdentityTokenInvalid           StatusCode = 0x80200000
	StatusBadIdentityTokenRejected          StatusCode = 0x80210000
	StatusBadSessionIDInvalid               StatusCode = 0x80250000
	StatusBadSessionClosed                  StatusCode = 0x80260000
	StatusBadSessionNotActivated            StatusCode = 0x80270000
	StatusBadSubscriptionIDInvalid          StatusCode = 0x80280000
	StatusBadNoCommunication                StatusCode = 0x80310000
	StatusBadWaitingForInitialData          StatusCode = 0x80320000
	StatusBadNodeIDInvalid                  StatusCode = 0x80330000
	StatusBadNodeIDUnknown                  StatusCode = 0x80340000
	StatusBadAttributeIDInvalid             StatusCode = 0x80350000
	StatusBadNotReadable                    StatusCode = 0x803A0000
	StatusBadMonitoringModeInvalid          StatusCode = 0x80410000
	StatusBadMonitoredItemIDInvalid         StatusCode = 0x80420000
	StatusBadMonitoredItemFilterInvalid     StatusCode = 0x80430000
	StatusBadSecurityPolicyRejected         StatusCode = 0x80550000
	StatusBadTooManySubscriptions           StatusCode = 0x80770000
	StatusBadSecureChannelClosed            StatusCode = 0x80860000
	StatusBadNotConnected                   StatusCode = 0x808A0000
	StatusBadOutOfService                   StatusCode = 0x808D0000
	StatusBadNoData                         StatusCode = 0x809B0000
	StatusBadConnectionClosed               StatusCode = 0x80AE0000
	StatusBadTooManyMonitoredItems          StatusCode = 0x80DB0000

	// Value, monitoring and transport statuses reported per item or value.
	StatusGoodSubscriptionTransferred       StatusCode = 0x002D0000
	StatusGoodCompletesAsynchronously       StatusCode = 0x002E0000
	StatusGoodOverload                      StatusCode = 0x002F0000
	StatusGoodClamped                       StatusCode = 0x00300000
	StatusGoodLocalOverride                 StatusCode = 0x00960000
	StatusGoodNoData                        StatusCode = 0x00A50000
	StatusGoodMoreData                      StatusCode = 0x00A60000
	StatusUncertainSubstituteValue          StatusCode = 0x40910000
	StatusUncertainInitialValue             StatusCode = 0x40920000
	StatusUncertainSensorNotAccurate        StatusCode = 0x40930000
	StatusUncertainEngineeringUnitsExceeded StatusCode = 0x40940000
	StatusUncertainSubNormal                StatusCode = 0x40950000
	StatusUncertainDataSubNormal            StatusCode = 0x40A40000
	StatusBadOutOfMemory                    StatusCode = 0x80030000
	StatusBadResourceUnavailable            StatusCode = 0x80040000
	StatusBadEncodingError                  StatusCode = 0x80060000
	StatusBadDecodingError                  StatusCode = 0x80070000
	StatusBadEncodingLimitsExceeded         StatusCode = 0x80080000
	StatusBadUnknownResponse                StatusCode = 0x80090000
	StatusBadServerHalted                   StatusCode = 0x800E0000
	StatusBadNothingToDo                    StatusCode = 0x800F0000
	StatusBadDataTypeIDUnknown              StatusCode = 0x80110000
	StatusBadCertificateTimeInvalid         StatusCode = 0x80140000
	StatusBadCertificateHostNameInvalid     StatusCode = 0x80160000
	StatusBadCertificateURIInvalid          StatusCode = 0x80170000
	StatusBadCertificateRevoked             StatusCode = 0x801D0000
	StatusBadNonceInvalid                   StatusCode = 0x80240000
	StatusBadTimestampsToReturnInvalid      StatusCode = 0x802B0000
	StatusBadRequestCancelledByClient       StatusCode = 0x802C0000
	StatusBadIndexRangeInvalid              StatusCode = 0x80360000
	StatusBadIndexRangeNoData               StatusCode = 0x80370000
	StatusBadDataEncodingInvalid            StatusCode = 0x80380000
	StatusBadDataEncodingUnsupported        StatusCode = 0x80390000
	StatusBadNotWritable                    StatusCode = 0x803B0000
	StatusBadOutOfRange                     StatusCode = 0x803C0000
	StatusBadNotSupported                   StatusCode = 0x803D0000
	StatusBadNotFound                       StatusCode = 0x803E0000
	StatusBadObjectDeleted                  StatusCode = 0x803F0000
	StatusBadNotImplemented                 StatusCode = 0x80400000
	StatusBadMonitoredItemFilterUnsupported StatusCode = 0x80440000
	StatusBadFilterNotAllowed               StatusCode = 0x80450000
	StatusBadServerURIInvalid               StatusCode = 0x804F0000
	StatusBadDiscoveryURLMissing            StatusCode = 0x80510000
	StatusBadSecurityModeRejected           StatusCode = 0x80540000
	StatusBadTooManySessions                StatusCode = 0x80560000
	StatusBadUserSignatureInvalid           StatusCode = 0x80570000
	StatusBadApplicationSignatureInvalid    StatusCode = 0x80580000
	StatusBadNoValidCertificates            StatusCode = 0x80590000
	StatusBadTypeMismatch                   StatusCode = 0x80740000
	StatusBadTooManyPublishRequests         StatusCode = 0x80780000
	StatusBadNoSubscription                 StatusCode = 0x80790000
	StatusBadSequenceNumberUnknown          StatusCode = 0x807A0000
	StatusBadMessageNotAvailable            StatusCode = 0x807B0000
	StatusBadTCPServerTooBusy               StatusCode = 0x807D0000
	StatusBadTCPMessageTooLarge             StatusCode = 0x80800000
	StatusBadTCPEndpointURLInvalid          StatusCode = 0x80830000
	StatusBadRequestInterrupted             StatusCode = 0x80840000
	StatusBadRequestTimeout                 StatusCode = 0x80850000
	StatusBadSecureChannelTokenUnknown      StatusCode = 0x80870000
	StatusBadConfigurationError             StatusCode = 0x80890000
	StatusBadDeviceFailure                  StatusCode = 0x808B0000
	StatusBadSensorFailure                  StatusCode = 0x808C0000
	StatusBadDeadbandFilterInvalid          StatusCode = 0x808E0000
	StatusBadDataLost                       StatusCode = 0x809D0000
	StatusBadDataUnavailable                StatusCode = 0x809E0000
	StatusBadConnectionRejected             StatusCode = 0x80AC0000
	StatusBadDisconnect                     StatusCode = 0x80AD0000
	StatusBadInvalidState                   StatusCode = 0x80AF0000
	StatusBadMaxConnectionsReached          StatusCode = 0x80B70000
	StatusBadRequestTooLarge                StatusCode = 0x80B80000
	StatusBadResponseTooLarge               StatusCode = 0x80B90000
)

type statusCodeInfo struct {
	name        string
	description string
}

var statusCodeMap = map[StatusCode]statusCodeInfo{
	StatusGood:                              {"Good", "The operation completed successfully"},
	StatusUncertain:                         {"Uncertain", "The value is uncertain"},
	StatusUncertainNoCommunicationLastValue: {"UncertainNoCommunicationLastUsableValue", "Communication to the data source has failed, the value is the last known good value"},
	StatusUncertainLastUsableValue:          {"UncertainLastUsableValue", "Whatever was updating this value has stopped doing so"},
	StatusBad:                               {"Bad", "The operation failed"},
	StatusBadUnexpectedError:                {"BadUnexpectedError", "An unexpected error occurred"},
	StatusBadInternalError:                  {"BadInternalError", "An internal error occurred"},
	StatusBadCommunicationError:             {"BadCommunicationError", "A low level communication error occurred"},
	StatusBadTimeout:                        {"BadTimeout", "The operation timed out"},
	StatusBadServiceUnsupported:             {"BadServiceUnsupported", "The server does not support the requested service"},
	StatusBadShutdown:                       {"BadShutdown", "The operation was cancelled because the application is shutting down"},
	StatusBadServerNotConnected:             {"BadServerNotConnected", "The operation could not complete because the client is not connected to the server"},
	StatusBadTooManyOperations:              {"BadTooManyOperations", "The request specified too many operations"},
	StatusBadCertificateInvalid:             {"BadCertificateInvalid", "The certificate provided as a parameter is not valid"},
	StatusBadSecurityChecksFailed:           {"BadSecurityChecksFailed", "An error occurred verifying security"},
	StatusBadCertificateUntrusted:           {"BadCertificateUntrusted", "The certificate is not trusted"},
	StatusBadUserAccessDenied:               {"BadUserAccessDenied", "User does not have permission to perform the requested operation"},
	StatusBadIdentityTokenInvalid:           {"BadIdentityTokenInvalid", "The user identity token is not valid"},
	StatusBadIdentityTokenRejected:          {"BadIdentityTokenRejected", "The user identity token is valid but the server has rejected it"},
	StatusBadSessionIDInvalid:               {"BadSessionIdInvalid", "The session id is not valid"},
	StatusBadSessionClosed:                  {"BadSessionClosed", "The session was closed by the client"},
	StatusBadSessionNotActivated:            {"BadSessionNotActivated", "The session cannot be used because ActivateSession has not been called"},
	StatusBadSubscriptionIDInvalid:          {"BadSubscriptionIdInvalid", "The subscription id is not valid"},
	StatusBadNoCommunication:                {"BadNoCommunication", "Communication with the data source is defined, but not established"},
	StatusBadWaitingForInitialData:          {"BadWaitingForInitialData", "Waiting for the server to obtain values from the underlying data source"},
	StatusBadNodeIDInvalid:                  {"BadNodeIdInvalid", "The syntax of the node id is not valid"},
	StatusBadNodeIDUnknown:                  {"BadNodeIdUnknown", "The node id refers to a node that does not exist in the server address space"},
	StatusBadAttributeIDInvalid:             {"BadAttributeIdInvalid", "The attribute is not supported for the specified node"},
	StatusBadNotReadable:                    {"BadNotReadable", "The access level does not allow reading or subscribing to the node"},
	StatusBadMonitoringModeInvalid:          {"BadMonitoringModeInvalid", "The monitoring mode is invalid"},
	StatusBadMonitoredItemIDInvalid:         {"BadMonitoredItemIdInvalid", "The monitoring item id does not refer to a valid monitored item"},
	StatusBadMonitoredItemFilterInvalid:     {"BadMonitoredItemFilterInvalid", "The monitored item filter parameter is not valid"},
	StatusBadSecurityPolicyRejected:         {"BadSecurityPolicyRejected", "The security policy does not meet the requirements set by the server"},
	StatusBadTooManySubscriptions:           {"BadTooManySubscriptions", "The server has reached its maximum number of subscriptions"},
	StatusBadSecureChannelClosed:            {"BadSecureChannelClosed", "The secure channel has been closed"},
	StatusBadNotConnected:                   {"BadNotConnected", "The variable should receive its value from another variable, but has never been configured to do so"},
	StatusBadOutOfService:                   {"BadOutOfService", "The source of the data is not operational"},
	StatusBadNoData:                         {"BadNoData", "No data exists for the requested time range or event filter"},
	StatusBadConnectionClosed:               {"BadConnectionClosed", "The network connection has been closed"},
	StatusBadTooManyMonitoredItems:          {"BadTooManyMonitoredItems", "The request could not be processed because there are too many monitored items"},

	StatusGoodSubscriptionTransferred:       {"GoodSubscriptionTransferred", "The subscription was transferred to another session"},
	StatusGoodCompletesAsynchronously:       {"GoodCompletesAsynchronously", "The processing will complete asynchronously"},
	StatusGoodOverload:                      {"GoodOverload", "Sampling has slowed down due to resource limitations"},
	StatusGoodClamped:                       {"GoodClamped", "The value written was accepted but was clamped"},
	StatusGoodLocalOverride:                 {"GoodLocalOverride", "The value has been overridden"},
	StatusGoodNoData:                        {"GoodNoData", "No data exists for the requested time range or event filter"},
	StatusGoodMoreData:                      {"GoodMoreData", "More data is available in the time range beyond the number of values requested"},
	StatusUncertainSubstituteValue:          {"UncertainSubstituteValue", "The value is an operational value that was manually overwritten"},
	StatusUncertainInitialValue:             {"UncertainInitialValue", "The value is an initial value for a variable that normally receives its value from another variable"},
	StatusUncertainSensorNotAccurate:        {"UncertainSensorNotAccurate", "The value is at one of the sensor limits"},
	StatusUncertainEngineeringUnitsExceeded: {"UncertainEngineeringUnitsExceeded", "The value is outside of the range of values defined for this parameter"},
	StatusUncertainSubNormal:                {"UncertainSubNormal", "The value is derived from multiple sources and has less than the required number of Good sources"},
	StatusUncertainDataSubNormal:            {"UncertainDataSubNormal", "The value is derived from multiple values and has less than the required number of Good values"},
	StatusBadOutOfMemory:                    {"BadOutOfMemory", "Not enough memory to complete the operation"},
	StatusBadResourceUnavailable:            {"BadResourceUnavailable", "An operating system resource is not available"},
	StatusBadEncodingError:                  {"BadEncodingError", "Encoding halted because of invalid data in the objects being serialized"},
	StatusBadDecodingError:                  {"BadDecodingError", "Decoding halted because of invalid data in the stream"},
	StatusBadEncodingLimitsExceeded:         {"BadEncodingLimitsExceeded", "The message encoding/decoding limits imposed by the stack have been exceeded"},
	StatusBadUnknownResponse:                {"BadUnknownResponse", "An unrecognized response was received from the server"},
	StatusBadServerHalted:                   {"BadServerHalted", "The server has stopped and cannot process any requests"},
	StatusBadNothingToDo:                    {"BadNothingToDo", "There was nothing to do because the client passed a list of operations with no elements"},
	StatusBadDataTypeIDUnknown:              {"BadDataTypeIdUnknown", "The extension object cannot be (de)serialized because the data type id is not recognized"},
	StatusBadCertificateTimeInvalid:         {"BadCertificateTimeInvalid", "The certificate has expired or is not yet valid"},
	StatusBadCertificateHostNameInvalid:     {"BadCertificateHostNameInvalid", "The host name used to connect to a server does not match a host name in the certificate"},
	StatusBadCertificateURIInvalid:          {"BadCertificateUriInvalid", "The URI specified in the application description does not match the URI in the certificate"},
	StatusBadCertificateRevoked:             {"BadCertificateRevoked", "The certificate has been revoked"},
	StatusBadNonceInvalid:                   {"BadNonceInvalid", "The nonce does not appear to be a random value or it is not the correct length"},
	StatusBadTimestampsToReturnInvalid:      {"BadTimestampsToReturnInvalid", "The timestamps to return parameter is invalid"},
	StatusBadRequestCancelledByClient:       {"BadRequestCancelledByClient", "The request was cancelled by the client"},
	StatusBadIndexRangeInvalid:              {"BadIndexRangeInvalid", "The syntax of the index range parameter is invalid"},
	StatusBadIndexRangeNoData:               {"BadIndexRangeNoData", "No data exists within the range of indexes specified"},
	StatusBadDataEncodingInvalid:            {"BadDataEncodingInvalid", "The data encoding is invalid"},
	StatusBadDataEncodingUnsupported:        {"BadDataEncodingUnsupported", "The server does not support the requested data encoding for the node"},
	StatusBadNotWritable:                    {"BadNotWritable", "The access level does not allow writing to the node"},
	StatusBadOutOfRange:                     {"BadOutOfRange", "The value was out of range"},
	StatusBadNotSupported:                   {"BadNotSupported", "The requested operation is not supported"},
	StatusBadNotFound:                       {"BadNotFound", "A requested item was not found or a search operation ended without success"},
	StatusBadObjectDeleted:                  {"BadObjectDeleted", "The object cannot be used because it has been deleted"},
	StatusBadNotImplemented:                 {"BadNotImplemented", "Requested operation is not implemented"},
	StatusBadMonitoredItemFilterUnsupported: {"BadMonitoredItemFilterUnsupported", "The server does not support the requested monitored item filter"},
	StatusBadFilterNotAllowed:               {"BadFilterNotAllowed", "A monitoring filter cannot be used in combination with the attribute specified"},
	StatusBadServerURIInvalid:               {"BadServerUriInvalid", "The server URI is not valid"},
	StatusBadDiscoveryURLMissing:            {"BadDiscoveryUrlMissing", "No discovery URL was specified"},
	StatusBadSecurityModeRejected:           {"BadSecurityModeRejected", "The security mode does not meet the requirements set by the server"},
	StatusBadTooManySessions:                {"BadTooManySessions", "The server has reached its maximum number of sessions"},
	StatusBadUserSignatureInvalid:           {"BadUserSignatureInvalid", "The user token signature is missing or invalid"},
	StatusBadApplicationSignatureInvalid:    {"BadApplicationSignatureInvalid", "The signature generated with the client certificate is missing or invalid"},
	StatusBadNoValidCertificates:            {"BadNoValidCertificates", "The client did not provide a software certificate that meets the server requirements"},
	StatusBadTypeMismatch:                   {"BadTypeMismatch", "The value supplied for the attribute is not of the same type as the attribute's value"},
	StatusBadTooManyPublishRequests:         {"BadTooManyPublishRequests", "The server has reached the maximum number of queued publish requests"},
	StatusBadNoSubscription:                 {"BadNoSubscription", "There is no subscription available for this session"},
	StatusBadSequenceNumberUnknown:          {"BadSequenceNumberUnknown", "The sequence number is unknown to the server"},
	StatusBadMessageNotAvailable:            {"BadMessageNotAvailable", "The requested notification message is no longer available"},
	StatusBadTCPServerTooBusy:               {"BadTcpServerTooBusy", "The server cannot process the request because it is too busy"},
	StatusBadTCPMessageTooLarge:             {"BadTcpMessageTooLarge", "The message size exceeds the limits specified for the secure channel"},
	StatusBadTCPEndpointURLInvalid:          {"BadTcpEndpointUrlInvalid", "The server does not recognize the query string in the endpoint URL"},
	StatusBadRequestInterrupted:             {"BadRequestInterrupted", "The request could not be sent because of a network interruption"},
	StatusBadRequestTimeout:                 {"BadRequestTimeout", "Timeout occurred while processing the request"},
	StatusBadSecureChannelTokenUnknown:      {"BadSecureChannelTokenUnknown", "The token has expired or is not recognized"},
	StatusBadConfigurationError:             {"BadConfigurationError", "There is a problem with the configuration that affects the usefulness of the value"},
	StatusBadDeviceFailure:                  {"BadDeviceFailure", "There has been a failure in the device or data source that generates the value"},
	StatusBadSensorFailure:                  {"BadSensorFailure", "There has been a failure in the sensor from which the value is derived"},
	StatusBadDeadbandFilterInvalid:          {"BadDeadbandFilterInvalid", "The deadband filter is not valid"},
	StatusBadDataLost:                       {"BadDataLost", "Data is missing due to collection started, stopped or lost"},
	StatusBadDataUnavailable:                {"BadDataUnavailable", "Expected data is temporarily unavailable for the requested time range"},
	StatusBadConnectionRejected:             {"BadConnectionRejected", "Could not establish a network connection to the remote server"},
	StatusBadDisconnect:                     {"BadDisconnect", "The server has disconnected from the client"},
	StatusBadInvalidState:                   {"BadInvalidState", "The operation cannot be completed because the object is closed, uninitialized or in some other invalid state"},
	StatusBadMaxConnectionsReached:          {"BadMaxConnectionsReached", "The operation could not be finished because all available connections are in use"},
	StatusBadRequestTooLarge:                {"BadRequestTooLarge", "The request message size exceeds limits set by the server"},
	StatusBadResponseTooLarge:               {"BadResponseTooLarge", "The response message size exceeds limits set by the client"},
}

// String returns the symbolic name of the status code.
func (s StatusCode) String() string {
	if info, ok := statusCodeMap[s]; ok {
		return info.name
	}
	return fmt.Sprintf("StatusCode(0x%08X)", uint32(s))
}

// Description returns a human-readable description of the status code.
func (s StatusCode) Description() string {
	if info, ok := statusCodeMap[s]; ok {
		return info.description
	}
	switch {
	case s.IsGood():
		return "The operation completed successfully"
	case s.IsUncertain():
		return "The operation completed with uncertain result"
	default:
		return "The operation failed"
	}
}

// Error lets a bad status travel as an error value.
func (s StatusCode) Error() string {
	if info, ok := statusCodeMap[s]; ok {
		return fmt.Sprintf("%s (0x%08X): %s", info.name, uint32(s), info.description)
	}
	return fmt.Sprintf("StatusCode 0x%08X", uint32(s))
}

// IsGood returns true if the status code indicates success.
func (s StatusCode) IsGood() bool {
	return (uint32(s) & StatusSeverityMask) == StatusSeverityGood
}

// IsUncertain returns true if the status code indicates uncertainty.
func (s StatusCode) IsUncertain() bool {
	return (uint32(s) & StatusSeverityMask) == StatusSeverityUncertain
}

// IsBad returns true if the status code indicates failure.
func (s StatusCode) IsBad() bool {
	return (uint32(s) & StatusSeverityMask) == StatusSeverityBad
}

// Severity returns "good", "uncertain" or "bad".
func (s StatusCode) Severity() string {
	switch {
	case s.IsGood():
		return "good"
	case s.IsUncertain():
		return "uncertain"
	default:
		return "bad"
	}
}

// Common errors.
var (
	// ErrInvalidConfig indicates a configuration that cannot be used to connect.
	ErrInvalidConfig = errors.New("uawatch: invalid configuration")

	// ErrInvalidNodeID indicates a node id string that could not be parsed.
	ErrInvalidNodeID = errors.New("uawatch: invalid node ID")

	// ErrNotConnected indicates the session is not connected.
	ErrNotConnected = errors.New("uawatch: not connected")

	// ErrSessionClosed indicates the session was closed by either side.
	ErrSessionClosed = errors.New("uawatch: session closed")

	// ErrSubscriptionNotFound indicates an unknown subscription id.
	ErrSubscriptionNotFound = errors.New("uawatch: subscription not found")

	// ErrPublishingDisabled indicates a stack that cannot create a subscription
	// with publishing disabled.
	ErrPublishingDisabled = errors.New("uawatch: publishing disabled subscriptions are not supported")

	// ErrDriverStarted indicates Run was called more than once on a Driver.
	ErrDriverStarted = errors.New("uawatch: driver already started")
)

// DiscoveryError reports a failed find-servers query.
type DiscoveryError struct {
	URL string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("uawatch: discovery at %s failed: %v", e.URL, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// ConnectError reports a failed session negotiation.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("uawatch: connect to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SubscriptionError reports a subscription the server refused to create.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("uawatch: create subscription failed: %v", e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }

// MonitorError reports a monitored item batch rejected as a whole. Failures of
// single items are reported in MonitoredItemResult instead.
type MonitorError struct {
	SubscriptionID uint32
	Err            error
}

func (e *MonitorError) Error() string {
	return fmt.Sprintf("uawatch: create monitored items on subscription %d failed: %v", e.SubscriptionID, e.Err)
}

func (e *MonitorError) Unwrap() error { return e.Err }

// IsDiscoveryError checks if the error came from the discovery phase.
func IsDiscoveryError(err error) bool {
	var e *DiscoveryError
	return errors.As(err, &e)
}

// IsConnectError checks if the error came from session negotiation.
func IsConnectError(err error) bool {
	var e *ConnectError
	return errors.As(err, &e)
}

// IsSubscriptionError checks if the error came from subscription creation.
func IsSubscriptionError(err error) bool {
	var e *SubscriptionError
	return errors.As(err, &e)
}

// IsMonitorError checks if the error came from monitored item registration.
func IsMonitorError(err error) bool {
	var e *MonitorError
	return errors.As(err, &e)
}

// IsStatusCode checks if an error carries a specific status code.
func IsStatusCode(err error, code StatusCode) bool {
	var sc StatusCode
	if errors.As(err, &sc) {
		return sc == code
	}
	return false
}

// IsSessionClosed checks if the error indicates a closed session.
func IsSessionClosed(err error) bool {
	return errors.Is(err, ErrSessionClosed) ||
		IsStatusCode(err, StatusBadSessionClosed) ||
		IsStatusCode(err, StatusBadConnectionClosed)
}
