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

package certs

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoad(t *testing.T) {
	opts := DefaultOptions("urn:SimpleClient")
	opts.ValidFor = time.Hour
	der, key, err := Generate(opts)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	require.Len(t, cert.URIs, 1)
	assert.Equal(t, "urn:SimpleClient", cert.URIs[0].String())
	assert.Contains(t, cert.DNSNames, "localhost")
	assert.Contains(t, cert.ExtKeyUsage, x509.ExtKeyUsageClientAuth)
	assert.Equal(t, 2048, key.N.BitLen())

	dir := t.TempDir()
	certPath := filepath.Join(dir, "pki", "cert.pem")
	keyPath := filepath.Join(dir, "pki", "key.pem")
	require.NoError(t, WritePEM(certPath, keyPath, der, key))

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadCertificate(certPath)
	require.NoError(t, err)
	assert.Equal(t, der, loaded)

	loadedKey, err := LoadPrivateKey(keyPath)
	require.NoError(t, err)
	assert.True(t, key.Equal(loadedKey))
}

func TestLoadCertificateDER(t *testing.T) {
	der, _, err := Generate(DefaultOptions("urn:test"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cert.der")
	require.NoError(t, os.WriteFile(path, der, 0o644))

	loaded, err := LoadCertificate(path)
	require.NoError(t, err)
	assert.Equal(t, der, loaded)
}

func TestGenerateRejectsBadOptions(t *testing.T) {
	opts := DefaultOptions("urn:test")
	opts.KeySize = 1024
	_, _, err := Generate(opts)
	assert.Error(t, err)

	_, _, err = Generate(DefaultOptions(""))
	assert.Error(t, err)
}

func TestLoadPrivateKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, []byte("not pem"), 0o600))
	_, err := LoadPrivateKey(path)
	assert.Error(t, err)

	_, err = LoadPrivateKey(filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)
}

func TestLoadPrivateKeyPKCS8(t *testing.T) {
	_, key, err := Generate(DefaultOptions("urn:test"))
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0o600))

	loaded, err := LoadPrivateKey(path)
	require.NoError(t, err)
	assert.True(t, key.Equal(loaded))
}
