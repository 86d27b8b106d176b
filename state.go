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

// State is a Driver lifecycle state.
type State uint8

const (
	// StateIdle is the state before Run.
	StateIdle State = iota

	// StateDiscovering waits for the find-servers response.
	StateDiscovering

	// StateConnecting waits for session negotiation.
	StateConnecting

	// StateWaitingForConnection waits for the session to report connected.
	StateWaitingForConnection

	// StateSubscribing creates the subscription and its monitored items.
	StateSubscribing

	// StateActive keeps the background task running until it ends.
	StateActive

	// StateDisconnecting closes the session.
	StateDisconnecting

	// StateTerminated is the graceful terminal state.
	StateTerminated

	// StateFailed is the terminal state after a discovery or connect error.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDiscovering:
		return "DISCOVERING"
	case StateConnecting:
		return "CONNECTING"
	case StateWaitingForConnection:
		return "WAITING_FOR_CONNECTION"
	case StateSubscribing:
		return "SUBSCRIBING"
	case StateActive:
		return "ACTIVE"
	case StateDisconnecting:
		return "DISCONNECTING"
	case StateTerminated:
		return "TERMINATED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == StateTerminated || s == StateFailed
}

// StateObserver is called after each state transition.
type StateObserver func(from, to State)
