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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/internal/uastack"
)

var discoverFormat string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the server URLs advertised by a discovery endpoint",
	Long: `Send a FindServers request to the discovery endpoint, or browse mDNS with
--mdns, and print every advertised discovery URL in server order.

Examples:
  uawatch discover -d opc.tcp://localhost:4840
  uawatch discover --mdns -f json`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverFormat, "format", "f", "text", "Output format (text, json, yaml)")
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	stack := uastack.New(
		uastack.WithLogger(logger),
		uastack.WithDiscoveryConfig(discoveryClientConfig(v)))
	finder, err := serverFinder(v, stack, logger)
	if err != nil {
		return err
	}

	url := v.GetString("discovery-url")
	urls, err := uawatch.NewDiscoverer(finder, uawatch.WithLogger(logger)).Discover(cmd.Context(), url)
	if err != nil {
		return err
	}
	return printURLs(cmd.OutOrStdout(), discoverFormat, urls)
}

func printURLs(w io.Writer, format string, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(urls)
	case "yaml":
		return yaml.NewEncoder(w).Encode(urls)
	case "text":
		if len(urls) == 0 {
			_, err := fmt.Fprintln(w, "No servers found.")
			return err
		}
		for _, u := range urls {
			if _, err := fmt.Fprintln(w, u); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q", uawatch.ErrInvalidConfig, format)
	}
}
