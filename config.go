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
	"time"
)

// TrustPolicy decides how server certificates are checked.
type TrustPolicy string

// Trust policies.
const (
	// TrustAll accepts any server certificate.
	TrustAll TrustPolicy = "trust-all"

	// TrustVerify only accepts the server certificate pinned in ServerCertFile.
	TrustVerify TrustPolicy = "verify"
)

// Default values used by DefaultClientConfig and DefaultDriverConfig.
const (
	DefaultApplicationName = "Simple Client"
	DefaultApplicationURI  = "urn:SimpleClient"
	DefaultSessionTimeout  = 5 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultDiscoveryURL    = "opc.tcp://localhost:4840"
	DefaultPort            = 4840
)

// ClientConfig describes the local application to the protocol stack.
type ClientConfig struct {
	ApplicationName string
	ApplicationURI  string
	ProductURI      string

	TrustPolicy    TrustPolicy
	ServerCertFile string // PEM or DER, required by TrustVerify

	// AutoGenerateKeyPair creates an in-memory self-signed certificate when
	// a secured endpoint is used and CertFile/KeyFile are empty.
	AutoGenerateKeyPair bool
	CertFile            string
	KeyFile             string

	// SessionTimeout bounds session establishment and is requested as the
	// server side session timeout.
	SessionTimeout time.Duration
	RequestTimeout time.Duration
}

// DefaultClientConfig returns the configuration of the subscriber application:
// trust all server certificates, generate a key pair when needed and a five
// second session timeout.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ApplicationName:     DefaultApplicationName,
		ApplicationURI:      DefaultApplicationURI,
		ProductURI:          DefaultApplicationURI,
		TrustPolicy:         TrustAll,
		AutoGenerateKeyPair: true,
		SessionTimeout:      DefaultSessionTimeout,
		RequestTimeout:      DefaultRequestTimeout,
	}
}

// DiscoveryClientConfig returns the identity used for find-servers queries.
func DiscoveryClientConfig() ClientConfig {
	cfg := DefaultClientConfig()
	cfg.ApplicationName = "DiscoveryClient"
	cfg.ApplicationURI = "urn:DiscoveryClient"
	cfg.ProductURI = "urn:DiscoveryClient"
	return cfg
}

// Validate checks the configuration for combinations that cannot connect.
func (c ClientConfig) Validate() error {
	if c.ApplicationURI == "" {
		return fmt.Errorf("%w: application URI is required", ErrInvalidConfig)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("%w: session timeout must be positive", ErrInvalidConfig)
	}
	switch c.TrustPolicy {
	case TrustAll, "":
	case TrustVerify:
		if c.ServerCertFile == "" {
			return fmt.Errorf("%w: trust policy %q requires a server certificate", ErrInvalidConfig, c.TrustPolicy)
		}
	default:
		return fmt.Errorf("%w: unknown trust policy %q", ErrInvalidConfig, c.TrustPolicy)
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("%w: certificate and key must be specified together", ErrInvalidConfig)
	}
	return nil
}

// DriverConfig is everything one run of the Driver needs.
type DriverConfig struct {
	// DiscoveryURL is queried first; the first advertised URL is connected.
	DiscoveryURL string

	SecurityPolicy  SecurityPolicy
	SecurityMode    MessageSecurityMode
	UserTokenPolicy UserTokenPolicy
	Identity        Identity

	Client       ClientConfig
	Subscription SubscriptionParams
	Monitoring   MonitoringParameters
	Timestamps   TimestampsToReturn

	// NodeIDs are monitored in order. Duplicates are sent as given.
	NodeIDs []NodeID
}

// DefaultDriverConfig returns an unsecured anonymous run that monitors the
// variables v1 to v4 of namespace 2.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		DiscoveryURL:    DefaultDiscoveryURL,
		SecurityPolicy:  SecurityPolicyNone,
		SecurityMode:    MessageSecurityModeNone,
		UserTokenPolicy: UserTokenPolicy{TokenType: UserTokenTypeAnonymous},
		Identity:        AnonymousIdentity(),
		Client:          DefaultClientConfig(),
		Subscription:    DefaultSubscriptionParams(),
		Monitoring:      DefaultMonitoringParameters(),
		Timestamps:      TimestampsToReturnBoth,
		NodeIDs: []NodeID{
			NewStringNodeID(2, "v1"),
			NewStringNodeID(2, "v2"),
			NewStringNodeID(2, "v3"),
			NewStringNodeID(2, "v4"),
		},
	}
}

// Validate checks the run configuration.
func (c DriverConfig) Validate() error {
	if c.DiscoveryURL == "" {
		return fmt.Errorf("%w: discovery URL is required", ErrInvalidConfig)
	}
	if c.SecurityMode == MessageSecurityModeInvalid {
		return fmt.Errorf("%w: security mode is required", ErrInvalidConfig)
	}
	if c.SecurityMode != MessageSecurityModeNone && c.SecurityPolicy == SecurityPolicyNone {
		return fmt.Errorf("%w: security mode %s requires a security policy other than None", ErrInvalidConfig, c.SecurityMode)
	}
	if c.SecurityMode != MessageSecurityModeNone && c.Client.CertFile == "" && !c.Client.AutoGenerateKeyPair {
		return fmt.Errorf("%w: security mode %s requires a client certificate", ErrInvalidConfig, c.SecurityMode)
	}
	if c.Identity.Type != c.UserTokenPolicy.TokenType {
		return fmt.Errorf("%w: identity %s does not match user token policy %s", ErrInvalidConfig, c.Identity.Type, c.UserTokenPolicy.TokenType)
	}
	if c.Subscription.PublishingInterval <= 0 {
		return fmt.Errorf("%w: publishing interval must be positive", ErrInvalidConfig)
	}
	return c.Client.Validate()
}

// endpoint builds the descriptor for the selected server URL.
func (c DriverConfig) endpoint(url string) EndpointDescriptor {
	return EndpointDescriptor{
		URL:             url,
		SecurityPolicy:  c.SecurityPolicy,
		SecurityMode:    c.SecurityMode,
		UserTokenPolicy: c.UserTokenPolicy,
	}
}
