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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/internal/mdns"
)

var errUsage = errors.New("usage error")

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "uawatch",
	Short: "OPC UA discovery and subscription client",
	Long: `Discover an OPC UA server through a discovery endpoint, connect to the
first advertised URL and print data changes of the monitored variables.

Configuration is read from flags, UAWATCH_* environment variables and
uawatch.yaml in the working directory or $HOME/.config/uawatch.

Examples:
  uawatch run -d opc.tcp://localhost:4840
  uawatch run -d opc.tcp://lds:4840 -n "ns=2;s=v1" -n "ns=2;s=v2" -o json
  uawatch discover --mdns`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./uawatch.yaml or $HOME/.config/uawatch/uawatch.yaml)")
	addGlobalFlags(pf)

	_ = viper.BindPFlags(pf)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(gencertCmd)
	rootCmd.AddCommand(versionCmd)
}

// addGlobalFlags registers the flags shared by every subcommand.
func addGlobalFlags(pf *pflag.FlagSet) {
	pf.StringP("discovery-url", "d", uawatch.DefaultDiscoveryURL, "Discovery endpoint queried for servers")
	pf.String("app-name", uawatch.DefaultApplicationName, "Application name presented to the server")
	pf.String("app-uri", uawatch.DefaultApplicationURI, "Application URI presented to the server")
	pf.Duration("session-timeout", uawatch.DefaultSessionTimeout, "Session establishment and close timeout")
	pf.Duration("request-timeout", uawatch.DefaultRequestTimeout, "Service request timeout")
	pf.Bool("mdns", false, "Discover servers over multicast DNS instead of the discovery endpoint")
	pf.Duration("mdns-timeout", mdns.DefaultBrowseTimeout, "How long to browse for mDNS announcements")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.BoolP("verbose", "v", false, "Shortcut for --log-level debug")
}

func initConfig() error {
	viper.SetEnvPrefix("UAWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("uawatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "uawatch"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("%w: read config: %v", uawatch.ErrInvalidConfig, err)
	}
	return nil
}
