package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stakeScope/internal/config"
	"stakeScope/internal/protocol"
	"stakeScope/internal/storage"
	"stakeScope/internal/storage/leveldb"
	"stakeScope/internal/storage/memory"
	"stakeScope/internal/storage/postgres"
)

// entityStore is an opened backend. state is nil for backends without progress markers.
type entityStore struct {
	storage.EntityStore
	state storage.StateBackend
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*entityStore, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		logger.Info("entity store", zap.String("backend", cfg.Backend))
		return &entityStore{EntityStore: memory.NewStore()}, nil
	case config.StoreLevelDB:
		store, err := leveldb.Open(cfg.LevelDBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("entity store", zap.String("backend", cfg.Backend), zap.String("path", cfg.LevelDBPath))
		return &entityStore{EntityStore: store, state: store}, nil
	case config.StorePostgres:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		logger.Info("entity store", zap.String("backend", cfg.Backend), zap.String("pg_dsn", redactDSN(cfg.PGDSN)))
		return &entityStore{EntityStore: store, state: store}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Backend)
	}
}

func protocolConstants(cfg config.ProtocolConfig) protocol.Constants {
	consts := protocol.Default()
	if cfg.Genesis != 0 {
		consts = consts.WithGenesis(cfg.Genesis)
	}
	if cfg.DelegationRatio != 0 {
		consts = consts.WithDelegationRatio(cfg.DelegationRatio)
	}
	return consts
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
