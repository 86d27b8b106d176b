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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/uawatch"
)

// testViper binds a fresh flag set to a fresh viper instance and parses args.
func testViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addGlobalFlags(fs)
	addSessionFlags(fs)
	addOutputFlags(fs)
	require.NoError(t, fs.Parse(args))

	v := viper.New()
	require.NoError(t, v.BindPFlags(fs))
	return v
}

func TestDriverConfigDefaults(t *testing.T) {
	cfg, err := driverConfig(testViper(t))
	require.NoError(t, err)

	def := uawatch.DefaultDriverConfig()
	assert.Equal(t, def.DiscoveryURL, cfg.DiscoveryURL)
	assert.Equal(t, def.NodeIDs, cfg.NodeIDs)
	assert.Equal(t, def.Subscription, cfg.Subscription)
	assert.Equal(t, def.Monitoring, cfg.Monitoring)
	assert.Equal(t, uawatch.AnonymousIdentity(), cfg.Identity)
	assert.Equal(t, uawatch.TimestampsToReturnBoth, cfg.Timestamps)
}

func TestDriverConfigFromFlags(t *testing.T) {
	v := testViper(t,
		"-d", "opc.tcp://lds:4840",
		"-s", "Basic256Sha256",
		"-m", "SignAndEncrypt",
		"-u", "operator", "--password", "secret",
		"--publishing-interval", "500ms",
		"--lifetime-count", "60",
		"--sampling-interval", "100ms",
		"--timestamps", "source",
		"-n", "ns=3;i=1001", "-n", "ns=3;s=Counter", "-n", "ns=3;i=1001",
	)
	cfg, err := driverConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "opc.tcp://lds:4840", cfg.DiscoveryURL)
	assert.Equal(t, uawatch.SecurityPolicyBasic256Sha256, cfg.SecurityPolicy)
	assert.Equal(t, uawatch.MessageSecurityModeSignAndEncrypt, cfg.SecurityMode)
	assert.Equal(t, uawatch.UserNameIdentity("operator", "secret"), cfg.Identity)
	assert.Equal(t, uawatch.UserTokenTypeUserName, cfg.UserTokenPolicy.TokenType)
	assert.Equal(t, 500*time.Millisecond, cfg.Subscription.PublishingInterval)
	assert.Equal(t, uint32(60), cfg.Subscription.LifetimeCount)
	assert.Equal(t, uint32(30), cfg.Subscription.MaxKeepAliveCount)
	assert.Equal(t, 100*time.Millisecond, cfg.Monitoring.SamplingInterval)
	assert.Equal(t, uawatch.TimestampsToReturnSource, cfg.Timestamps)
	assert.Equal(t, []uawatch.NodeID{
		uawatch.NewNumericNodeID(3, 1001),
		uawatch.NewStringNodeID(3, "Counter"),
		uawatch.NewNumericNodeID(3, 1001),
	}, cfg.NodeIDs)
}

func TestDriverConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uawatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
discovery-url: opc.tcp://plant:4840
publishing-interval: 2s
node:
  - ns=2;s=v1
  - i=2258
`), 0o644))

	v := testViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := driverConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "opc.tcp://plant:4840", cfg.DiscoveryURL)
	assert.Equal(t, 2*time.Second, cfg.Subscription.PublishingInterval)
	assert.Equal(t, []uawatch.NodeID{uawatch.NewStringNodeID(2, "v1"), uawatch.NewNumericNodeID(0, 2258)}, cfg.NodeIDs)
}

func TestDriverConfigErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-s", "rot13"},
		{"-m", "Sometimes"},
		{"--timestamps", "later"},
		{"-m", "Sign"},
		{"-n", "ns=1;g=09087e75-8e5e-499b-954f-f2a9603db28a"},
		{"--trust", "verify"},
	} {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			_, err := driverConfig(testViper(t, args...))
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(&uawatch.DiscoveryError{URL: "opc.tcp://x", Err: uawatch.StatusBadTimeout}))
	assert.Equal(t, 1, exitCode(errors.New("run failed")))
	assert.Equal(t, 1, exitCode(&uawatch.SubscriptionError{Err: uawatch.StatusBadTooManySubscriptions}))
	assert.Equal(t, 1, exitCode(fmt.Errorf("%w: connection lost", uawatch.ErrSessionClosed)))
	assert.Equal(t, 2, exitCode(fmt.Errorf("%w: unknown flag", errUsage)))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(testViper(t, "--log-format", "json", "-v"), &buf)
	require.NoError(t, err)
	logger.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = newLogger(testViper(t, "--log-format", "xml"), &buf)
	assert.ErrorIs(t, err, uawatch.ErrInvalidConfig)
	_, err = newLogger(testViper(t, "--log-level", "loud"), &buf)
	assert.ErrorIs(t, err, uawatch.ErrInvalidConfig)
}

func TestPrintURLs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printURLs(&buf, "text", []string{"opc.tcp://a:4840", "opc.tcp://b:4840"}))
	assert.Equal(t, "opc.tcp://a:4840\nopc.tcp://b:4840\n", buf.String())

	buf.Reset()
	require.NoError(t, printURLs(&buf, "json", nil))
	assert.JSONEq(t, `[]`, buf.String())

	assert.ErrorIs(t, printURLs(&buf, "csv", nil), uawatch.ErrInvalidConfig)
}

func TestBuildHandler(t *testing.T) {
	var buf bytes.Buffer
	h, closeFn, err := buildHandler(testViper(t), &buf, "run", discardLogger(), nil)
	require.NoError(t, err)
	defer closeFn()
	assert.Nil(t, h)

	h, closeFn2, err := buildHandler(testViper(t, "-o", "text"), &buf, "run", discardLogger(), nil)
	require.NoError(t, err)
	defer closeFn2()
	require.NotNil(t, h)
	h.HandleNotification(uawatch.Notification{NodeID: uawatch.NewStringNodeID(2, "v2"), HasValue: true, Value: 42})
	assert.Equal(t, "Item \"ns=2;s=v2\", Value = 42 (Good)\n", buf.String())

	_, _, err = buildHandler(testViper(t, "-o", "xml"), &buf, "run", discardLogger(), nil)
	assert.ErrorIs(t, err, uawatch.ErrInvalidConfig)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
