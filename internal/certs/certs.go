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

// Package certs creates and loads application instance certificates.
package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Options describe a self-signed application instance certificate.
type Options struct {
	ApplicationURI string
	CommonName     string
	Organization   string
	Country        string
	Locality       string
	DNSNames       []string
	IPAddresses    []net.IP
	ValidFor       time.Duration
	KeySize        int
}

// DefaultOptions returns a one year, 2048 bit certificate for applicationURI
// valid for localhost.
func DefaultOptions(applicationURI string) Options {
	return Options{
		ApplicationURI: applicationURI,
		CommonName:     "OPC UA Client",
		Organization:   "OPC UA Client",
		Country:        "US",
		ValidFor:       365 * 24 * time.Hour,
		KeySize:        2048,
	}
}

// Generate creates a key pair and a self-signed certificate carrying the
// application URI in its subject alternative names. The certificate is
// returned DER encoded.
func Generate(opts Options) ([]byte, *rsa.PrivateKey, error) {
	if opts.KeySize != 2048 && opts.KeySize != 4096 {
		return nil, nil, fmt.Errorf("key size must be 2048 or 4096, got %d", opts.KeySize)
	}
	appURI, err := url.Parse(opts.ApplicationURI)
	if err != nil || opts.ApplicationURI == "" {
		return nil, nil, fmt.Errorf("invalid application URI %q", opts.ApplicationURI)
	}

	key, err := rsa.GenerateKey(rand.Reader, opts.KeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	subject := pkix.Name{
		CommonName:   opts.CommonName,
		Organization: []string{opts.Organization},
		Country:      []string{opts.Country},
	}
	if opts.Locality != "" {
		subject.Locality = []string{opts.Locality}
	}

	dnsNames := opts.DNSNames
	if len(dnsNames) == 0 {
		dnsNames = []string{"localhost"}
	}
	if host, err := os.Hostname(); err == nil && host != "" && host != "localhost" {
		dnsNames = append(dnsNames, host)
	}
	ips := opts.IPAddresses
	if len(ips) == 0 {
		ips = []net.IP{net.ParseIP("127.0.0.1")}
	}

	notBefore := time.Now().Add(-time.Minute)
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject:      subject,
		NotBefore:    notBefore,
		NotAfter:     notBefore.Add(opts.ValidFor),

		KeyUsage: x509.KeyUsageDigitalSignature |
			x509.KeyUsageContentCommitment |
			x509.KeyUsageKeyEncipherment |
			x509.KeyUsageDataEncipherment |
			x509.KeyUsageCertSign,
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageClientAuth,
			x509.ExtKeyUsageServerAuth,
		},

		DNSNames:    dnsNames,
		IPAddresses: ips,
		URIs:        []*url.URL{appURI},

		BasicConstraintsValid: true,
		IsCA:                  false,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return der, key, nil
}

// WritePEM writes the certificate and the PKCS#1 private key as PEM files,
// creating parent directories as needed. The key file is only readable by
// its owner.
func WritePEM(certPath, keyPath string, certDER []byte, key *rsa.PrivateKey) error {
	for _, p := range []string{certPath, keyPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("failed to write certificate: %w", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	return nil
}

// LoadCertificate reads a PEM or DER certificate file and returns its DER
// bytes.
func LoadCertificate(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	if block, _ := pem.Decode(b); block != nil {
		if block.Type != "CERTIFICATE" {
			return nil, fmt.Errorf("%s: unexpected PEM block %q", path, block.Type)
		}
		b = block.Bytes
	}
	if _, err := x509.ParseCertificate(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadPrivateKey reads a PEM encoded PKCS#1 or PKCS#8 RSA private key.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM data", path)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New(path + ": not an RSA private key")
	}
	return key, nil
}
