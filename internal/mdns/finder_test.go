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

package mdns

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver sends its entries and closes the channel, as zeroconf does
// once the browse ends.
type fakeResolver struct {
	entries []*zeroconf.ServiceEntry
	err     error
	service string
}

func (r *fakeResolver) Browse(ctx context.Context, service, _ string, entries chan<- *zeroconf.ServiceEntry) error {
	r.service = service
	if r.err != nil {
		return r.err
	}
	go func() {
		defer close(entries)
		for _, e := range r.entries {
			select {
			case entries <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func entry(instance, host string, port int, ip string, txt ...string) *zeroconf.ServiceEntry {
	e := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: instance, Service: ServiceType, Domain: Domain},
		HostName:      host,
		Port:          port,
		Text:          txt,
	}
	if ip != "" {
		e.AddrIPv4 = []net.IP{net.ParseIP(ip)}
	}
	return e
}

func TestFindServers(t *testing.T) {
	r := &fakeResolver{entries: []*zeroconf.ServiceEntry{
		entry("plc1", "plc1.local.", 4840, "192.168.1.10", "path=/UA/Server", "uri=urn:plc1"),
		entry("plc1", "plc1.local.", 4840, "192.168.1.10"),
		entry("gw", "", 48400, "10.0.0.2"),
		entry("broken", "broken.local.", 0, ""),
	}}
	f, err := NewFinder(WithResolver(r))
	require.NoError(t, err)

	servers, err := f.FindServers(context.Background(), "opc.tcp://localhost:4840")
	require.NoError(t, err)
	assert.Equal(t, ServiceType, r.service)
	require.Len(t, servers, 3)

	assert.Equal(t, "plc1", servers[0].ApplicationName)
	assert.Equal(t, "urn:plc1", servers[0].ApplicationURI)
	assert.Equal(t, []string{
		"opc.tcp://plc1.local:4840/UA/Server",
		"opc.tcp://192.168.1.10:4840/UA/Server",
	}, servers[0].DiscoveryURLs)

	assert.Equal(t, []string{"opc.tcp://10.0.0.2:48400"}, servers[1].DiscoveryURLs)
	assert.Empty(t, servers[2].DiscoveryURLs)
}

func TestFindServersBrowseError(t *testing.T) {
	f, err := NewFinder(WithResolver(&fakeResolver{err: errors.New("no multicast")}))
	require.NoError(t, err)

	_, err = f.FindServers(context.Background(), "")
	assert.ErrorContains(t, err, "no multicast")
}

// blockingResolver never closes the channel.
type blockingResolver struct{}

func (blockingResolver) Browse(context.Context, string, string, chan<- *zeroconf.ServiceEntry) error {
	return nil
}

func TestFindServersTimeout(t *testing.T) {
	f, err := NewFinder(WithResolver(blockingResolver{}), WithBrowseTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	servers, err := f.FindServers(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, servers)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDiscoveryURLsPathWithoutSlash(t *testing.T) {
	e := entry("x", "x.local.", 4840, "")
	assert.Equal(t, []string{"opc.tcp://x.local:4840/ua"}, discoveryURLs(e, "ua"))
}
