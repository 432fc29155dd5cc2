package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"stakeScope/internal/chain"
	"stakeScope/internal/config"
	"stakeScope/internal/indexer"
	"stakeScope/internal/storage"
)

func main() {
	root := &cobra.Command{
		Use:          "indexer",
		Short:        "Graph staking ledger indexer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch staking logs into JSONL",
		RunE:  runIndexer,
	}

	runCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	runCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	runCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	runCmd.Flags().StringSlice("address", []string{config.StakingContract}, "contract addresses (comma-separated)")
	runCmd.Flags().StringSlice("topic0", nil, "topic0 hashes or event names (comma-separated), empty means all staking events")
	runCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	runCmd.Flags().String("out", "./data/logs.jsonl", "output JSONL path")
	runCmd.Flags().String("state-file", "./data/checkpoint.json", "checkpoint file path, empty disables resume")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().Int("timestamp-cache", chain.DefaultTimestampCacheSize, "block timestamps kept in memory")
	addLogFlags(runCmd)

	root.AddCommand(runCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode raw logs into typed staking events",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("in", "./data/logs.jsonl", "input raw logs JSONL")
	decodeCmd.Flags().String("out", "./data/typed_events.jsonl", "output typed events JSONL")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	decodeCmd.Flags().String("topic0-map", "", "extra topic0->event mappings (comma-separated key=value)")
	addLogFlags(decodeCmd)

	root.AddCommand(decodeCmd)

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Fold typed events into the staking ledger",
		RunE:  runProcess,
	}

	processCmd.Flags().String("in", "./data/typed_events.jsonl", "input typed events JSONL")
	addStoreFlags(processCmd)
	processCmd.Flags().String("state-file", "", "optional local state file, defaults to the entity store")
	processCmd.Flags().String("state-name", "process", "progress marker name inside the entity store")
	processCmd.Flags().Int("checkpoint-every", 100, "save progress after this many blocks")
	processCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9102)")
	addLogFlags(processCmd)

	root.AddCommand(processCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print an indexer and its daily snapshots as JSON",
		RunE:  runShow,
	}

	showCmd.Flags().String("indexer", "", "indexer address")
	showCmd.Flags().String("from", "", "first day (unix seconds or RFC3339), empty means creation day")
	showCmd.Flags().String("to", "", "last day (unix seconds or RFC3339), empty means latest snapshot")
	addStoreFlags(showCmd)
	addLogFlags(showCmd)

	root.AddCommand(showCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLogFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("log-file", "", "also write logs to this file with rotation")
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", config.StoreLevelDB, "entity store (memory, leveldb, postgres)")
	cmd.Flags().String("leveldb-path", "./data/ledger", "leveldb directory")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().String("genesis", "", "override genesis timestamp (unix seconds or RFC3339)")
	cmd.Flags().Int64("delegation-ratio", 0, "override delegation capacity multiplier")
}

func runIndexer(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	addresses, err := indexer.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}

	topic0, err := indexer.ParseTopic0(cfg.Topic0)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.TimestampCache)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	runner := indexer.NewRunner(indexer.RunConfig{
		FromBlock:    cfg.FromBlock,
		ToBlock:      cfg.ToBlock,
		Addresses:    addresses,
		Topic0:       topic0,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		StateStore:   &storage.FileStateStore{Path: cfg.StateFile},
	}, chainClient, storage.NewJSONLLogSink(cfg.Out), logger)

	logger.Info("indexer start",
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Int("addresses", len(addresses)),
		zap.Int("topic0", len(topic0)),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("out", cfg.Out),
		zap.String("state_file", cfg.StateFile),
	)

	return runner.Run(ctx)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevel()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.File == "" {
		return zcfg.Build()
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zcfg.EncoderConfig),
		zapcore.AddSync(rotator),
		zcfg.Level,
	)
	return zcfg.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))
}
