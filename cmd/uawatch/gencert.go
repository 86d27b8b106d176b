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
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/internal/certs"
)

var (
	certOutput      string
	keyOutput       string
	certOrg         string
	certCountry     string
	certLocality    string
	certDNSNames    string
	certIPAddresses string
	certValidDays   int
	certKeySize     int
)

var gencertCmd = &cobra.Command{
	Use:   "gencert",
	Short: "Generate a self-signed application instance certificate",
	Long: `Generate a self-signed X.509 certificate and RSA private key for use with
--cert and --key.

The certificate carries the application URI in its Subject Alternative Name
and the key usages OPC UA servers expect from a client. Use the same
--app-uri when running.

Examples:
  uawatch gencert
  uawatch gencert --app-uri "urn:mycompany:uawatch" --dns "localhost,plant-gw" --ip 192.168.1.20`,
	Args: cobra.NoArgs,
	RunE: runGencert,
}

func init() {
	gencertCmd.Flags().StringVar(&certOutput, "cert-out", "client-cert.pem", "Output path for certificate")
	gencertCmd.Flags().StringVar(&keyOutput, "key-out", "client-key.pem", "Output path for private key")
	gencertCmd.Flags().StringVar(&certOrg, "org", "uawatch", "Organization name")
	gencertCmd.Flags().StringVar(&certCountry, "country", "US", "Country code (2 letters)")
	gencertCmd.Flags().StringVar(&certLocality, "locality", "", "Locality/City name")
	gencertCmd.Flags().StringVar(&certDNSNames, "dns", "", "Comma-separated DNS names; localhost and the host name when empty")
	gencertCmd.Flags().StringVar(&certIPAddresses, "ip", "", "Comma-separated IP addresses; 127.0.0.1 when empty")
	gencertCmd.Flags().IntVar(&certValidDays, "days", 365, "Certificate validity in days")
	gencertCmd.Flags().IntVar(&certKeySize, "key-size", 2048, "RSA key size in bits (2048 or 4096)")
}

func runGencert(cmd *cobra.Command, _ []string) error {
	if certKeySize != 2048 && certKeySize != 4096 {
		return fmt.Errorf("%w: key size must be 2048 or 4096, got %d", uawatch.ErrInvalidConfig, certKeySize)
	}

	appURI := viper.GetString("app-uri")
	opts := certs.DefaultOptions(appURI)
	opts.Organization = certOrg
	opts.Country = certCountry
	opts.Locality = certLocality
	opts.KeySize = certKeySize
	opts.ValidFor = time.Duration(certValidDays) * 24 * time.Hour
	if names := splitList(certDNSNames); len(names) > 0 {
		opts.DNSNames = names
	}
	for _, s := range splitList(certIPAddresses) {
		ip := net.ParseIP(s)
		if ip == nil {
			return fmt.Errorf("%w: invalid IP address %q", uawatch.ErrInvalidConfig, s)
		}
		opts.IPAddresses = append(opts.IPAddresses, ip)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generating %d-bit RSA key pair...\n", certKeySize)
	der, key, err := certs.Generate(opts)
	if err != nil {
		return err
	}
	if err := certs.WritePEM(certOutput, keyOutput, der, key); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Certificate: %s\nPrivate key: %s\nApplication URI: %s\n", certOutput, keyOutput, appURI)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
