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

// Package uastack adapts the gopcua client to the uawatch stack interfaces.
package uastack

import (
	"bytes"
	"context"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/internal/certs"
)

// Option configures a Stack.
type Option func(*Stack)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stack) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDiscoveryConfig sets the application identity used for find-servers
// queries.
func WithDiscoveryConfig(cfg uawatch.ClientConfig) Option {
	return func(s *Stack) {
		s.discovery = cfg
	}
}

// Stack implements uawatch.Stack on top of gopcua.
type Stack struct {
	logger    *slog.Logger
	discovery uawatch.ClientConfig
}

var _ uawatch.Stack = (*Stack)(nil)

// New creates a Stack.
func New(opts ...Option) *Stack {
	s := &Stack{
		logger:    slog.Default(),
		discovery: uawatch.DiscoveryClientConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindServers sends a FindServers request to discoveryURL.
func (s *Stack) FindServers(ctx context.Context, discoveryURL string) ([]uawatch.DiscoveredServer, error) {
	opts := []opcua.Option{
		opcua.ApplicationName(s.discovery.ApplicationName),
		opcua.ApplicationURI(s.discovery.ApplicationURI),
		opcua.ProductURI(s.discovery.ProductURI),
	}
	if s.discovery.RequestTimeout > 0 {
		opts = append(opts, opcua.RequestTimeout(s.discovery.RequestTimeout))
	}
	apps, err := opcua.FindServers(ctx, discoveryURL, opts...)
	if err != nil {
		return nil, err
	}
	return toServers(apps), nil
}

// NewClient validates cfg and loads the pinned server certificate.
func (s *Stack) NewClient(cfg uawatch.ClientConfig) (uawatch.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &client{cfg: cfg, logger: s.logger}
	if cfg.TrustPolicy == uawatch.TrustVerify {
		pinned, err := certs.LoadCertificate(cfg.ServerCertFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", uawatch.ErrInvalidConfig, err)
		}
		c.pinned = pinned
	}
	return c, nil
}

type client struct {
	cfg    uawatch.ClientConfig
	logger *slog.Logger
	pinned []byte

	keyOnce sync.Once
	certDER []byte
	key     *rsa.PrivateKey
	keyErr  error
}

// OpenSession selects the server endpoint matching the requested policy and
// mode, then connects. The establishment is bounded by ctx while the session
// itself lives until Disconnect.
func (c *client) OpenSession(ctx context.Context, ep uawatch.EndpointDescriptor, id uawatch.Identity) (uawatch.Session, uawatch.BackgroundTask, error) {
	endpoints, err := opcua.GetEndpoints(ctx, ep.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("get endpoints: %w", err)
	}
	desc := selectEndpoint(endpoints, ep.SecurityPolicy, ep.SecurityMode)
	if desc == nil {
		return nil, nil, fmt.Errorf("no endpoint for policy %s and mode %s: %w",
			ep.SecurityPolicy.Short(), ep.SecurityMode, uawatch.StatusBadSecurityPolicyRejected)
	}
	if c.pinned != nil && !bytes.Equal(desc.ServerCertificate, c.pinned) {
		return nil, nil, fmt.Errorf("server certificate does not match %s: %w",
			c.cfg.ServerCertFile, uawatch.StatusBadCertificateUntrusted)
	}

	opts, err := c.options(desc, ep, id)
	if err != nil {
		return nil, nil, err
	}
	uc, err := opcua.NewClient(ep.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create client: %w", err)
	}

	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, cancel)
	err = uc.Connect(sessCtx)
	if !stop() {
		// ctx ended while connecting.
		cancel()
		_ = uc.Close(context.Background())
		if err == nil {
			err = ctx.Err()
		}
		return nil, nil, err
	}
	if err != nil {
		cancel()
		return nil, nil, err
	}

	c.logger.Debug("Session established",
		slog.String("endpoint", ep.URL),
		slog.String("security_policy", desc.SecurityPolicyURI),
		slog.String("security_mode", ep.SecurityMode.String()))

	s := newSession(uc, cancel, c.logger.With(slog.String("endpoint", ep.URL)))
	return s, &backgroundTask{s: s}, nil
}

func (c *client) options(desc *ua.EndpointDescription, ep uawatch.EndpointDescriptor, id uawatch.Identity) ([]opcua.Option, error) {
	opts := []opcua.Option{
		opcua.ApplicationName(c.cfg.ApplicationName),
		opcua.ApplicationURI(c.cfg.ApplicationURI),
		opcua.ProductURI(c.cfg.ProductURI),
		opcua.SessionTimeout(c.cfg.SessionTimeout),
		opcua.AutoReconnect(false),
		opcua.SecurityFromEndpoint(desc, ua.UserTokenType(id.Type)),
	}
	if c.cfg.RequestTimeout > 0 {
		opts = append(opts, opcua.RequestTimeout(c.cfg.RequestTimeout))
	}

	switch id.Type {
	case uawatch.UserTokenTypeAnonymous:
		opts = append(opts, opcua.AuthAnonymous())
	case uawatch.UserTokenTypeUserName:
		opts = append(opts, opcua.AuthUsername(id.Username, id.Password))
	default:
		return nil, fmt.Errorf("%w: identity %s is not supported", uawatch.ErrInvalidConfig, id.Type)
	}
	if ep.UserTokenPolicy.PolicyID != "" {
		opts = append(opts, opcua.AuthPolicyID(ep.UserTokenPolicy.PolicyID))
	}

	if desc.SecurityMode == ua.MessageSecurityModeNone {
		return opts, nil
	}
	switch {
	case c.cfg.CertFile != "":
		opts = append(opts,
			opcua.CertificateFile(c.cfg.CertFile),
			opcua.PrivateKeyFile(c.cfg.KeyFile))
	case c.cfg.AutoGenerateKeyPair:
		der, key, err := c.keyPair()
		if err != nil {
			return nil, err
		}
		opts = append(opts, opcua.Certificate(der), opcua.PrivateKey(key))
	default:
		return nil, fmt.Errorf("%w: security mode %s requires a client certificate", uawatch.ErrInvalidConfig, ep.SecurityMode)
	}
	return opts, nil
}

// keyPair generates the in-memory application instance certificate once.
func (c *client) keyPair() ([]byte, *rsa.PrivateKey, error) {
	c.keyOnce.Do(func() {
		c.logger.Info("Generating application instance certificate",
			slog.String("application_uri", c.cfg.ApplicationURI))
		c.certDER, c.key, c.keyErr = certs.Generate(certs.DefaultOptions(c.cfg.ApplicationURI))
	})
	return c.certDER, c.key, c.keyErr
}

func selectEndpoint(endpoints []*ua.EndpointDescription, policy uawatch.SecurityPolicy, mode uawatch.MessageSecurityMode) *ua.EndpointDescription {
	for _, ep := range endpoints {
		if ep == nil {
			continue
		}
		if ep.SecurityPolicyURI == string(policy) && ep.SecurityMode == ua.MessageSecurityMode(mode) {
			return ep
		}
	}
	return nil
}
