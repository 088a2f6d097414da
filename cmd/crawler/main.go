/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brotheri/core/pkg/bandwidth"
	"github.com/brotheri/core/pkg/config"
	"github.com/brotheri/core/pkg/db"
	"github.com/brotheri/core/pkg/hostmon"
	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/mapper"
	"github.com/brotheri/core/pkg/metrics"
	"github.com/brotheri/core/pkg/metricstore"
	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/monitor"
	"github.com/brotheri/core/pkg/natsutil"
	"github.com/brotheri/core/pkg/snmp"
	"github.com/brotheri/core/pkg/version"
)

const stopTimeout = 30 * time.Second

var (
	errFailedToLoadConfig = errors.New("failed to load crawler configuration")
	errFailedToInitLogger = errors.New("failed to initialize logger")
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configFile := flag.String("config", "/etc/brotheri/crawler.json", "Path to crawler config file")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg models.CrawlerConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configFile, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	mainLogger, err := logger.NewComponent("crawler", cfg.Logging)
	if err != nil {
		return fmt.Errorf("%w: %w", errFailedToInitLogger, err)
	}

	mainLogger.Info().Str("version", version.GetFullVersion()).Str("entry_ip", cfg.Discovery.EntryIP).Msg("Starting crawler")

	database, err := db.Open(ctx, cfg.Database, mainLogger)
	if err != nil {
		return err
	}
	defer database.Close()

	series, err := metricstore.New(cfg.Influx, mainLogger)
	if err != nil {
		return err
	}
	defer series.Close()

	if err := series.Ping(ctx); err != nil {
		mainLogger.Warn().Err(err).Msg("InfluxDB is not healthy yet, samples will be retried on the next tick")
	}

	collectors := metrics.New(version.GetVersion())
	factory := snmp.NewSessionFactory(&cfg.SNMP)

	opts := []mapper.Option{
		mapper.WithRecorder(collectors),
		mapper.WithResolver(net.DefaultResolver),
		mapper.WithVendorLookup(mapper.NewVendorLookup()),
	}

	if cfg.NATS != nil && cfg.NATS.URL != "" {
		publisher, nc, err := natsutil.Connect(ctx, cfg.NATS, mainLogger)
		if err != nil {
			return err
		}
		defer nc.Close()

		opts = append(opts, mapper.WithPublisher(publisher))
	}

	discoverer, err := mapper.NewDiscoverer(&cfg.Discovery, factory, database.Devices, database.Communities, mainLogger, opts...)
	if err != nil {
		return err
	}

	supervisor, err := newSupervisor(&cfg.Monitor, factory, database, series, collectors, mainLogger)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return metrics.Serve(gCtx, cfg.MetricsAddr, collectors, mainLogger)
	})

	if err := discoverer.Start(gCtx); err != nil {
		return err
	}

	if err := supervisor.Start(gCtx); err != nil {
		return err
	}

	<-gCtx.Done()

	mainLogger.Info().Msg("Shutting down crawler")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	stopErr := errors.Join(
		supervisor.Stop(shutdownCtx),
		discoverer.Stop(shutdownCtx),
	)

	if err := g.Wait(); err != nil {
		return errors.Join(err, stopErr)
	}

	return stopErr
}

func newSupervisor(
	cfg *models.MonitorConfig,
	factory snmp.SessionFactory,
	database *db.DB,
	series *metricstore.Store,
	collectors *metrics.Crawler,
	log logger.Logger,
) (*monitor.Supervisor, error) {
	sampler, err := bandwidth.NewSampler(cfg, factory, database.Devices, series, log, bandwidth.WithRecorder(collectors))
	if err != nil {
		return nil, err
	}

	quota, err := bandwidth.NewQuotaChecker(cfg, database.Devices, series, log, bandwidth.WithRecorder(collectors))
	if err != nil {
		return nil, err
	}

	hosts, err := hostmon.NewMonitor(cfg, factory, database.Devices, database.Blocklist, log)
	if err != nil {
		return nil, err
	}

	workers, err := monitor.NewWorkerFactory(monitor.Tasks(cfg, sampler, quota, hosts), log)
	if err != nil {
		return nil, err
	}

	return monitor.NewSupervisor(workers, log, monitor.WithRestartRecorder(collectors)), nil
}
