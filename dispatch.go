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
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Notification is a dispatched data change. When HasValue is false the
// value is absent and Status explains why.
type Notification struct {
	SubscriptionID  uint32
	ClientHandle    uint32
	NodeID          NodeID
	HasValue        bool
	Value           any
	Type            string
	Status          StatusCode
	SourceTimestamp time.Time
	ServerTimestamp time.Time
}

// Handler receives dispatched notifications. HandleNotification runs on the
// session's background task; slow handlers should be wrapped in an
// AsyncHandler.
type Handler interface {
	HandleNotification(Notification)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(Notification)

// HandleNotification calls f(n).
func (f HandlerFunc) HandleNotification(n Notification) { f(n) }

// MultiHandler forwards every notification to each handler in order.
type MultiHandler []Handler

// HandleNotification implements Handler.
func (m MultiHandler) HandleNotification(n Notification) {
	for _, h := range m {
		h.HandleNotification(n)
	}
}

// Dispatcher turns data changes into notifications for a Handler.
type Dispatcher struct {
	handler Handler
	logger  *slog.Logger
	metrics *Metrics
}

// NewDispatcher creates a Dispatcher forwarding to h. A nil h logs every
// notification instead.
func NewDispatcher(h Handler, opts ...Option) *Dispatcher {
	o := applyOptions(opts)
	if h == nil {
		h = NewLogHandler(o.logger)
	}
	return &Dispatcher{
		handler: h,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// OnChange is a ChangeCallback.
func (d *Dispatcher) OnChange(dv DataValue, item MonitoredItem) {
	n := Notification{
		SubscriptionID:  item.SubscriptionID,
		ClientHandle:    item.ClientHandle,
		NodeID:          item.NodeID,
		Status:          dv.Status,
		SourceTimestamp: dv.SourceTimestamp,
		ServerTimestamp: dv.ServerTimestamp,
	}
	if dv.Value != nil {
		n.HasValue = true
		n.Value = dv.Value.Value
		n.Type = dv.Value.Type
	}
	d.metrics.notificationDispatched(n)
	d.handler.HandleNotification(n)
}

// NewLogHandler returns a Handler that logs each notification.
func NewLogHandler(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return HandlerFunc(func(n Notification) {
		if !n.HasValue {
			logger.Warn("Value not found",
				slog.String("node_id", n.NodeID.String()),
				slog.String("status", n.Status.String()))
			return
		}
		logger.Info("Item changed",
			slog.String("node_id", n.NodeID.String()),
			slog.Any("value", n.Value),
			slog.String("status", n.Status.String()),
			slog.Time("source_timestamp", n.SourceTimestamp),
			slog.Time("server_timestamp", n.ServerTimestamp))
	})
}

// WriterHandler renders notifications onto an io.Writer, one per line.
type WriterHandler struct {
	mu     sync.Mutex
	w      io.Writer
	format string
	encode Encoder
	logger *slog.Logger
}

// NewWriterHandler creates a WriterHandler for format "text", "json" or
// "yaml".
func NewWriterHandler(w io.Writer, format string, opts ...Option) (*WriterHandler, error) {
	o := applyOptions(opts)
	h := &WriterHandler{w: w, format: format, logger: o.logger}
	if format != "text" {
		enc, err := EncoderFor(format)
		if err != nil {
			return nil, err
		}
		h.encode = enc
	}
	return h, nil
}

// HandleNotification implements Handler.
func (h *WriterHandler) HandleNotification(n Notification) {
	var out []byte
	if h.encode == nil {
		out = []byte(FormatNotification(n) + "\n")
	} else {
		b, err := h.encode(n)
		if err != nil {
			h.logger.Warn("Failed to encode notification",
				slog.String("node_id", n.NodeID.String()),
				slog.String("error", err.Error()))
			return
		}
		out = b
		if h.format == "json" {
			out = append(out, '\n')
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.w.Write(out); err != nil {
		h.logger.Warn("Failed to write notification", slog.String("error", err.Error()))
	}
}

// FormatNotification renders n as a single human-readable line.
func FormatNotification(n Notification) string {
	if !n.HasValue {
		return fmt.Sprintf("Item %q, Value not found, error: %s", n.NodeID.String(), n.Status.String())
	}
	return fmt.Sprintf("Item %q, Value = %v (%s)", n.NodeID.String(), n.Value, n.Status.String())
}
