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
	"context"
	"log/slog"
	"time"
)

// Discoverer resolves a discovery endpoint to connectable server URLs.
type Discoverer struct {
	finder  ServerFinder
	logger  *slog.Logger
	metrics *Metrics
}

// NewDiscoverer creates a Discoverer querying finder.
func NewDiscoverer(finder ServerFinder, opts ...Option) *Discoverer {
	o := applyOptions(opts)
	return &Discoverer{
		finder:  finder,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Discover returns the discovery URLs of every server, flattened in server
// order and URL order. Servers without URLs are logged and skipped. An empty
// result is not an error. Transport errors are wrapped in a DiscoveryError
// and never retried.
func (d *Discoverer) Discover(ctx context.Context, discoveryURL string) ([]string, error) {
	start := time.Now()
	servers, err := d.finder.FindServers(ctx, discoveryURL)
	d.metrics.observePhase(phaseDiscovery, time.Since(start))
	if err != nil {
		return nil, &DiscoveryError{URL: discoveryURL, Err: err}
	}

	var urls []string
	for _, srv := range servers {
		if len(srv.DiscoveryURLs) == 0 {
			d.logger.Warn("Server has no discovery URLs, skipping",
				slog.String("application_name", srv.ApplicationName),
				slog.String("application_uri", srv.ApplicationURI))
			d.metrics.serverSkipped()
			continue
		}
		d.logger.Debug("Discovered server",
			slog.String("application_name", srv.ApplicationName),
			slog.Any("discovery_urls", srv.DiscoveryURLs))
		urls = append(urls, srv.DiscoveryURLs...)
	}
	d.metrics.urlsDiscovered(len(urls))

	return urls, nil
}
