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

// Package natssink publishes item notifications to NATS subjects.
package natssink

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/edgeo-scada/uawatch"
)

// Header names set on every published message.
const (
	HeaderRunID       = "Uawatch-Run-Id"
	HeaderContentType = "Content-Type"
)

// DefaultSubjectPrefix is used when Config.SubjectPrefix is empty.
const DefaultSubjectPrefix = "uawatch.items"

// Publisher is the part of *nats.Conn a Handler publishes through.
type Publisher interface {
	PublishMsg(m *nats.Msg) error
}

// Config configures a connection and its Handler.
type Config struct {
	URL           string
	Name          string
	SubjectPrefix string
	Format        string
	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultConfig returns the sink defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Name:          "uawatch",
		SubjectPrefix: DefaultSubjectPrefix,
		Format:        "cbor",
		MaxReconnects: 10,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// Connect dials the NATS server with reconnect handling logged at the
// matching level.
func Connect(cfg Config, logger *slog.Logger) (*nats.Conn, error) {
	logger = logger.With(slog.String("component", "nats"))
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.Debug("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", cfg.URL, err)
	}
	return nc, nil
}

// Handler publishes each notification to <prefix>.<node id>.
type Handler struct {
	pub         Publisher
	prefix      string
	encode      uawatch.Encoder
	contentType string
	runID       string
	logger      *slog.Logger
}

var _ uawatch.Handler = (*Handler)(nil)

// NewHandler creates a Handler. format is one of json, yaml or cbor.
func NewHandler(pub Publisher, cfg Config, runID string, logger *slog.Logger) (*Handler, error) {
	enc, err := uawatch.EncoderFor(cfg.Format)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(cfg.SubjectPrefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pub:         pub,
		prefix:      prefix,
		encode:      enc,
		contentType: contentType(cfg.Format),
		runID:       runID,
		logger:      logger,
	}, nil
}

// HandleNotification encodes and publishes n. Failures are logged; the
// subscription keeps running.
func (h *Handler) HandleNotification(n uawatch.Notification) {
	data, err := h.encode(n)
	if err != nil {
		h.logger.Warn("Encoding notification failed",
			slog.String("node_id", n.NodeID.String()),
			slog.String("error", err.Error()))
		return
	}

	msg := nats.NewMsg(h.Subject(n.NodeID))
	msg.Data = data
	msg.Header.Set(HeaderContentType, h.contentType)
	if h.runID != "" {
		msg.Header.Set(HeaderRunID, h.runID)
	}

	if err := h.pub.PublishMsg(msg); err != nil {
		h.logger.Warn("Publishing notification failed",
			slog.String("subject", msg.Subject),
			slog.String("error", err.Error()))
	}
}

// Subject returns the subject a node's notifications are published on.
func (h *Handler) Subject(id uawatch.NodeID) string {
	return h.prefix + "." + sanitize(id.String())
}

var subjectReplacer = strings.NewReplacer(
	".", "_",
	" ", "_",
	"*", "_",
	">", "_",
	"\t", "_",
)

func sanitize(token string) string {
	return subjectReplacer.Replace(token)
}

func contentType(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "application/json"
	case "yaml":
		return "application/yaml"
	default:
		return "application/cbor"
	}
}
