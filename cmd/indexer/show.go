package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stakeScope/internal/config"
	"stakeScope/internal/ledger"
)

func runShow(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadShow(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Indexer == "" {
		return fmt.Errorf("indexer address is required")
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	repo := ledger.NewRepository(store, protocolConstants(cfg.Protocol), logger)
	report, err := repo.Report(ctx, cfg.Indexer, cfg.From, cfg.To)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
