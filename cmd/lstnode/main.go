// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/liquid/api"
	"github.com/vechain/liquid/cmd/lstnode/httpserver"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "lstnode")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "lstnode",
		Usage:     "Liquid staking ledger node",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			persistFlag,
			cacheFlag,
			syncWritesFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			skipLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	metricsEnabled := ctx.Bool(enableMetricsFlag.Name)
	if metricsEnabled {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	stores, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer stores.Close()

	ledger, err := initLedger(gene, stores)
	if err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs := api.New(ledger, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        metricsEnabled,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		Faucet:               gene.Faucet,
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	apiSrv, err := httpserver.NewAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	servers := []*httpserver.Server{apiSrv}

	var metricsURL, adminURL string
	if metricsEnabled {
		srv, err := httpserver.NewMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		metricsURL = srv.URL()
		servers = append(servers, srv)
	}
	if ctx.Bool(enableAdminFlag.Name) {
		srv, err := httpserver.NewAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, ledger)
		if err != nil {
			return err
		}
		adminURL = srv.URL()
		servers = append(servers, srv)
	}

	if err := printStartupMessage(gene, ledger, stores.dir, apiSrv.URL(), metricsURL, adminURL); err != nil {
		return err
	}
	return runServers(exitSignal, servers)
}

// runServers serves until the context is done or one of the servers fails,
// then shuts every server down.
func runServers(ctx context.Context, servers []*httpserver.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(srv.Serve)
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping http servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to shutdown server", "url", srv.URL(), "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))
	log.SetDefault(log.NewLogger(log.NewHandler(os.Stderr, logLevel, ctx.Bool(jsonLogsFlag.Name), useColor(os.Stderr))))
	return logLevel
}
