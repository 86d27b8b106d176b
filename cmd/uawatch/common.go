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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/internal/mdns"
	"github.com/edgeo-scada/uawatch/internal/uastack"
)

// addSessionFlags registers the security, identity and subscription flags of
// the run command.
func addSessionFlags(fs *pflag.FlagSet) {
	def := uawatch.DefaultDriverConfig()

	fs.StringP("security-policy", "s", "None", "Security policy (None, Basic128Rsa15, Basic256, Basic256Sha256, Aes128Sha256RsaOaep, Aes256Sha256RsaPss)")
	fs.StringP("security-mode", "m", "None", "Security mode (None, Sign, SignAndEncrypt)")
	fs.StringP("user", "u", "", "User name; anonymous when empty")
	fs.String("password", "", "Password for --user")
	fs.String("token-policy-id", "", "User token policy id; the first matching policy when empty")
	fs.String("cert", "", "Client certificate file (PEM or DER)")
	fs.String("key", "", "Client private key file (PEM)")
	fs.Bool("auto-keypair", true, "Generate a self-signed key pair when secure modes need one")
	fs.String("trust", string(uawatch.TrustAll), "Server certificate trust policy (trust-all, verify)")
	fs.String("server-cert", "", "Pinned server certificate for --trust verify")

	fs.Duration("publishing-interval", def.Subscription.PublishingInterval, "Requested publishing interval")
	fs.Uint32("lifetime-count", def.Subscription.LifetimeCount, "Requested lifetime count")
	fs.Uint32("keep-alive-count", def.Subscription.MaxKeepAliveCount, "Requested max keep-alive count")
	fs.Uint32("max-notifications", 0, "Max notifications per publish; 0 is unlimited")
	fs.Uint8("priority", 0, "Subscription priority")
	fs.Duration("sampling-interval", def.Monitoring.SamplingInterval, "Requested sampling interval; 0 is the fastest practical rate")
	fs.Uint32("queue-size", def.Monitoring.QueueSize, "Monitored item queue size")
	fs.Bool("discard-oldest", def.Monitoring.DiscardOldest, "Discard the oldest queued value on overflow")
	fs.String("timestamps", "both", "Timestamps to return (source, server, both, neither)")

	defaultNodes := make([]string, len(def.NodeIDs))
	for i, id := range def.NodeIDs {
		defaultNodes[i] = id.String()
	}
	fs.StringSliceP("node", "n", defaultNodes, "Node ids to monitor, in order")
}

func clientConfig(v *viper.Viper) uawatch.ClientConfig {
	cfg := uawatch.DefaultClientConfig()
	cfg.ApplicationName = v.GetString("app-name")
	cfg.ApplicationURI = v.GetString("app-uri")
	cfg.ProductURI = cfg.ApplicationURI
	cfg.SessionTimeout = v.GetDuration("session-timeout")
	cfg.RequestTimeout = v.GetDuration("request-timeout")
	cfg.TrustPolicy = uawatch.TrustPolicy(v.GetString("trust"))
	if cfg.TrustPolicy == "" {
		cfg.TrustPolicy = uawatch.TrustAll
	}
	cfg.ServerCertFile = v.GetString("server-cert")
	cfg.CertFile = v.GetString("cert")
	cfg.KeyFile = v.GetString("key")
	if v.IsSet("auto-keypair") {
		cfg.AutoGenerateKeyPair = v.GetBool("auto-keypair")
	}
	return cfg
}

func discoveryClientConfig(v *viper.Viper) uawatch.ClientConfig {
	cfg := uawatch.DiscoveryClientConfig()
	cfg.RequestTimeout = v.GetDuration("request-timeout")
	return cfg
}

// driverConfig assembles and validates the run configuration.
func driverConfig(v *viper.Viper) (uawatch.DriverConfig, error) {
	cfg := uawatch.DefaultDriverConfig()
	cfg.DiscoveryURL = v.GetString("discovery-url")
	cfg.Client = clientConfig(v)

	var err error
	if cfg.SecurityPolicy, err = uawatch.ParseSecurityPolicy(v.GetString("security-policy")); err != nil {
		return cfg, fmt.Errorf("%w: %v", uawatch.ErrInvalidConfig, err)
	}
	if cfg.SecurityMode, err = uawatch.ParseSecurityMode(v.GetString("security-mode")); err != nil {
		return cfg, fmt.Errorf("%w: %v", uawatch.ErrInvalidConfig, err)
	}
	if cfg.Timestamps, err = uawatch.ParseTimestampsToReturn(v.GetString("timestamps")); err != nil {
		return cfg, fmt.Errorf("%w: %v", uawatch.ErrInvalidConfig, err)
	}

	if user := v.GetString("user"); user != "" {
		cfg.Identity = uawatch.UserNameIdentity(user, v.GetString("password"))
	} else {
		cfg.Identity = uawatch.AnonymousIdentity()
	}
	cfg.UserTokenPolicy = uawatch.UserTokenPolicy{
		PolicyID:  v.GetString("token-policy-id"),
		TokenType: cfg.Identity.Type,
	}

	if v.IsSet("publishing-interval") {
		cfg.Subscription.PublishingInterval = v.GetDuration("publishing-interval")
	}
	if v.IsSet("lifetime-count") {
		cfg.Subscription.LifetimeCount = v.GetUint32("lifetime-count")
	}
	if v.IsSet("keep-alive-count") {
		cfg.Subscription.MaxKeepAliveCount = v.GetUint32("keep-alive-count")
	}
	cfg.Subscription.MaxNotificationsPerPublish = v.GetUint32("max-notifications")
	cfg.Subscription.Priority = uint8(v.GetUint("priority"))

	if v.IsSet("sampling-interval") {
		cfg.Monitoring.SamplingInterval = v.GetDuration("sampling-interval")
	}
	if v.IsSet("queue-size") {
		cfg.Monitoring.QueueSize = v.GetUint32("queue-size")
	}
	if v.IsSet("discard-oldest") {
		cfg.Monitoring.DiscardOldest = v.GetBool("discard-oldest")
	}

	if nodes := v.GetStringSlice("node"); len(nodes) > 0 {
		if cfg.NodeIDs, err = uawatch.ParseNodeIDs(nodes); err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}

func newLogger(v *viper.Viper, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("%w: log level %q", uawatch.ErrInvalidConfig, v.GetString("log-level"))
	}
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", uawatch.ErrInvalidConfig, v.GetString("log-format"))
	}
}

// serverFinder returns the mDNS finder when --mdns is set and the stack
// otherwise.
func serverFinder(v *viper.Viper, stack *uastack.Stack, logger *slog.Logger) (uawatch.ServerFinder, error) {
	if !v.GetBool("mdns") {
		return stack, nil
	}
	return mdns.NewFinder(
		mdns.WithLogger(logger),
		mdns.WithBrowseTimeout(v.GetDuration("mdns-timeout")))
}
