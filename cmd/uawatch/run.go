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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/edgeo-scada/uawatch"
	"github.com/edgeo-scada/uawatch/internal/natssink"
	"github.com/edgeo-scada/uawatch/internal/uastack"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover a server and print data changes until interrupted",
	Long: `Query the discovery endpoint, connect to the first advertised URL,
create one subscription and report every data change of the monitored
nodes. Ctrl+C disconnects and exits.

Examples:
  uawatch run -d opc.tcp://localhost:4840
  uawatch run -d opc.tcp://lds:4840 -s Basic256Sha256 -m SignAndEncrypt -u operator --password secret
  uawatch run -n "ns=2;s=v1" -o json --nats-url nats://localhost:4222 --metrics-addr :9464`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	fs := runCmd.Flags()
	addSessionFlags(fs)
	addOutputFlags(fs)
	_ = viper.BindPFlags(fs)
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "log", "Notification output (log, text, json, yaml)")
	fs.String("nats-url", "", "Also publish notifications to this NATS server")
	fs.String("nats-subject", natssink.DefaultSubjectPrefix, "NATS subject prefix")
	fs.String("nats-format", "cbor", "NATS payload encoding (cbor, json, yaml)")
	fs.Int("nats-queue", uawatch.DefaultQueueSize, "Notifications buffered for NATS before dropping")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")
}

func runRun(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()

	cfg, err := driverConfig(v)
	if err != nil {
		return err
	}
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := uawatch.NewMetrics(reg)

	handler, closeHandler, err := buildHandler(v, cmd.OutOrStdout(), runID, logger, metrics)
	if err != nil {
		return err
	}
	defer closeHandler()

	stack := uastack.New(
		uastack.WithLogger(logger),
		uastack.WithDiscoveryConfig(discoveryClientConfig(v)))
	finder, err := serverFinder(v, stack, logger)
	if err != nil {
		return err
	}

	driver, err := uawatch.NewDriver(cfg, stack,
		uawatch.WithLogger(logger),
		uawatch.WithMetrics(metrics),
		uawatch.WithHandler(handler),
		uawatch.WithServerFinder(finder),
		uawatch.WithRunID(runID))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if addr := v.GetString("metrics-addr"); addr != "" {
		serveMetrics(gctx, g, addr, reg, logger)
	}

	var (
		final  uawatch.State
		runErr error
	)
	g.Go(func() error {
		defer cancel()
		final, runErr = driver.Run(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Run finished", slog.String("state", final.String()))
	if runErr != nil {
		return runErr
	}
	if final == uawatch.StateFailed {
		return errors.New("run failed")
	}
	return nil
}

// buildHandler returns the notification handler for the configured outputs.
// A nil handler makes the driver log notifications.
func buildHandler(v *viper.Viper, stdout io.Writer, runID string, logger *slog.Logger, metrics *uawatch.Metrics) (uawatch.Handler, func(), error) {
	var (
		handlers uawatch.MultiHandler
		closers  []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch out := v.GetString("output"); out {
	case "log", "":
	default:
		w, err := uawatch.NewWriterHandler(stdout, out, uawatch.WithLogger(logger))
		if err != nil {
			return nil, closeAll, err
		}
		handlers = append(handlers, w)
	}

	if url := v.GetString("nats-url"); url != "" {
		ncfg := natssink.DefaultConfig()
		ncfg.URL = url
		ncfg.SubjectPrefix = v.GetString("nats-subject")
		ncfg.Format = v.GetString("nats-format")

		nc, err := natssink.Connect(ncfg, logger)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("Draining NATS connection failed", slog.String("error", err.Error()))
			}
		})

		sink, err := natssink.NewHandler(nc, ncfg, runID, logger)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		async := uawatch.NewAsyncHandler(sink, v.GetInt("nats-queue"),
			uawatch.WithLogger(logger), uawatch.WithMetrics(metrics))
		closers = append(closers, func() { _ = async.Close() })
		handlers = append(handlers, async)
	}

	switch len(handlers) {
	case 0:
		return nil, closeAll, nil
	case 1:
		return handlers[0], closeAll, nil
	default:
		return handlers, closeAll, nil
	}
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
