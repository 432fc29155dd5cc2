package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stakeScope/internal/badge"
	"stakeScope/internal/config"
	"stakeScope/internal/ledger"
	"stakeScope/internal/process"
	"stakeScope/internal/storage"
)

func runProcess(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadProcess(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics := process.DefaultMetrics()
	if cfg.MetricsAddr != "" {
		server := serveMetrics(cfg.MetricsAddr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	consts := protocolConstants(cfg.Protocol)
	entities := process.WithWriteMetrics(store, metrics)
	repo := ledger.NewRepository(entities, consts, logger)
	observer := badge.NewObserver(entities, logger, metrics.ObserveBadge)
	dispatcher := process.NewDispatcher(repo, observer, logger)

	processor := process.NewProcessor(process.Config{
		StateStore:      processState(cfg, store, logger),
		CheckpointEvery: cfg.CheckpointEvery,
	}, dispatcher, metrics, logger)

	logger.Info("process start",
		zap.String("in", cfg.In),
		zap.String("store", cfg.Store.Backend),
		zap.Uint64("genesis", consts.Genesis),
		zap.String("delegation_ratio", consts.DelegationRatio.String()),
		zap.Int("checkpoint_every", cfg.CheckpointEvery),
	)

	_, err = processor.Run(ctx, cfg.In)
	return err
}

// processState picks where progress is kept. An in-memory ledger starts empty on every
// run, so it never resumes.
func processState(cfg config.ProcessConfig, store *entityStore, logger *zap.Logger) storage.StateStore {
	if cfg.Store.Backend == config.StoreMemory {
		if cfg.StateFile != "" {
			logger.Warn("ignoring state file for memory store", zap.String("state_file", cfg.StateFile))
		}
		return nil
	}
	if cfg.StateFile != "" {
		return &storage.FileStateStore{Path: cfg.StateFile}
	}
	if store.state == nil {
		return nil
	}
	return &storage.NamedStateStore{Backend: store.state, Name: cfg.StateName}
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	logger.Info("metrics listening", zap.String("addr", addr))
	return server
}
