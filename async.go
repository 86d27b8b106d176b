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
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultQueueSize is the AsyncHandler queue size used when none is given.
const DefaultQueueSize = 256

// AsyncHandler decouples a slow Handler from the delivery path. Notifications
// are queued and handled on a separate goroutine; when the queue is full they
// are dropped and counted.
type AsyncHandler struct {
	next    Handler
	queue   chan Notification
	logger  *slog.Logger
	metrics *Metrics

	mu      sync.RWMutex
	closed  bool
	closeCh chan struct{}
	done    chan struct{}

	dropped atomic.Uint64
	dropLog rate.Sometimes
}

// NewAsyncHandler starts a worker forwarding to next. Close stops it.
func NewAsyncHandler(next Handler, size int, opts ...Option) *AsyncHandler {
	o := applyOptions(opts)
	if size <= 0 {
		size = DefaultQueueSize
	}
	h := &AsyncHandler{
		next:    next,
		queue:   make(chan Notification, size),
		logger:  o.logger,
		metrics: o.metrics,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		dropLog: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
	go h.run()
	return h
}

// HandleNotification queues n without blocking.
func (h *AsyncHandler) HandleNotification(n Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	select {
	case h.queue <- n:
	default:
		total := h.dropped.Add(1)
		h.metrics.notificationDropped()
		h.dropLog.Do(func() {
			h.logger.Warn("Notification queue full, dropping notification",
				slog.String("node_id", n.NodeID.String()),
				slog.Uint64("dropped_total", total))
		})
	}
}

// Dropped returns the number of notifications dropped so far.
func (h *AsyncHandler) Dropped() uint64 {
	return h.dropped.Load()
}

// Close stops accepting notifications, handles what is still queued and
// waits for the worker to exit. It is safe to call more than once.
func (h *AsyncHandler) Close() error {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.closeCh)
	}
	h.mu.Unlock()

	<-h.done
	return nil
}

func (h *AsyncHandler) run() {
	defer close(h.done)
	for {
		select {
		case n := <-h.queue:
			h.next.HandleNotification(n)
		case <-h.closeCh:
			for {
				select {
				case n := <-h.queue:
					h.next.HandleNotification(n)
				default:
					return
				}
			}
		}
	}
}
