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

// Package mdns finds OPC UA servers that announce themselves over multicast
// DNS-SD instead of through a discovery server.
package mdns

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/edgeo-scada/uawatch"
)

const (
	// ServiceType is the DNS-SD service type of OPC UA TCP servers.
	ServiceType = "_opcua-tcp._tcp"
	// Domain is the mDNS browse domain.
	Domain = "local."
	// DefaultBrowseTimeout bounds a browse when the context has no deadline.
	DefaultBrowseTimeout = 3 * time.Second
)

// Resolver browses DNS-SD services. It matches *zeroconf.Resolver so tests
// can substitute a fake.
type Resolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// Option configures a Finder.
type Option func(*Finder)

// WithResolver replaces the zeroconf resolver.
func WithResolver(r Resolver) Option {
	return func(f *Finder) {
		f.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// WithBrowseTimeout sets the browse window.
func WithBrowseTimeout(d time.Duration) Option {
	return func(f *Finder) {
		f.timeout = d
	}
}

// Finder implements uawatch.ServerFinder over mDNS.
type Finder struct {
	resolver Resolver
	logger   *slog.Logger
	timeout  time.Duration
}

var _ uawatch.ServerFinder = (*Finder)(nil)

// NewFinder creates a Finder. Without WithResolver it opens a zeroconf
// resolver on all multicast interfaces.
func NewFinder(opts ...Option) (*Finder, error) {
	f := &Finder{
		logger:  slog.Default(),
		timeout: DefaultBrowseTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.resolver == nil {
		r, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("mdns: create resolver: %w", err)
		}
		f.resolver = r
	}
	return f, nil
}

// FindServers browses for OPC UA servers until the browse window closes.
// The discovery URL is only used for logging; mDNS has no server to ask.
func (f *Finder) FindServers(ctx context.Context, discoveryURL string) ([]uawatch.DiscoveredServer, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	f.logger.Debug("Browsing mDNS",
		slog.String("service", ServiceType),
		slog.String("discovery_url", discoveryURL))

	// zeroconf closes the channel when ctx is done.
	entries := make(chan *zeroconf.ServiceEntry)
	if err := f.resolver.Browse(ctx, ServiceType, Domain, entries); err != nil {
		return nil, fmt.Errorf("mdns: browse: %w", err)
	}

	var servers []uawatch.DiscoveredServer
	seen := make(map[string]bool)
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return servers, nil
			}
			if entry == nil || seen[entry.Instance] {
				continue
			}
			seen[entry.Instance] = true
			servers = append(servers, toServer(entry))
		case <-ctx.Done():
			return servers, nil
		}
	}
}

func toServer(entry *zeroconf.ServiceEntry) uawatch.DiscoveredServer {
	txt := parseTXT(entry.Text)
	return uawatch.DiscoveredServer{
		ApplicationName: entry.Instance,
		ApplicationURI:  txt["uri"],
		DiscoveryURLs:   discoveryURLs(entry, txt["path"]),
	}
}

// discoveryURLs lists the host name first and then each IPv4 address.
func discoveryURLs(entry *zeroconf.ServiceEntry, path string) []string {
	if entry.Port <= 0 {
		return nil
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var hosts []string
	if h := strings.TrimSuffix(entry.HostName, "."); h != "" {
		hosts = append(hosts, h)
	}
	for _, ip := range entry.AddrIPv4 {
		if ip != nil {
			hosts = append(hosts, ip.String())
		}
	}

	urls := make([]string, 0, len(hosts))
	port := strconv.Itoa(entry.Port)
	for _, h := range hosts {
		urls = append(urls, "opc.tcp://"+net.JoinHostPort(h, port)+path)
	}
	return urls
}

func parseTXT(records []string) map[string]string {
	m := make(map[string]string, len(records))
	for _, r := range records {
		k, v, _ := strings.Cut(r, "=")
		m[strings.ToLower(k)] = v
	}
	return m
}
