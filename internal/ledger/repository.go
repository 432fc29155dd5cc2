package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stakeScope/internal/model"
	"stakeScope/internal/protocol"
	"stakeScope/internal/storage"
)

// Repository resolves ledger entities against an entity store.
// It is not safe for concurrent mutation of the same indexer.
type Repository struct {
	store  storage.EntityStore
	consts protocol.Constants
	logger *zap.Logger
}

func NewRepository(store storage.EntityStore, consts protocol.Constants, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: store, consts: consts, logger: logger}
}

// Constants returns the protocol constants the repository computes with.
func (r *Repository) Constants() protocol.Constants {
	return r.consts
}

// Indexer loads the ledger for address, creating and persisting it on first sight.
// The returned bool reports whether this call created it.
func (r *Repository) Indexer(ctx context.Context, address string, block model.Block) (*Indexer, bool, error) {
	id := model.AccountID(address)
	if id == "" {
		return nil, false, fmt.Errorf("indexer address is empty")
	}

	entity, ok, err := storage.Load[model.Indexer](ctx, r.store, model.KindIndexer, id)
	if err != nil {
		return nil, false, err
	}
	if ok {
		if entity.DelegationPoolShares == nil {
			entity.DelegationPoolShares = big.NewInt(1)
		}
		return &Indexer{repo: r, entity: entity, block: block}, false, nil
	}

	entity = &model.Indexer{
		ID:                         id,
		OwnStake:                   decimal.Zero,
		DelegatedStake:             decimal.Zero,
		DelegationPoolShares:       big.NewInt(1),
		AllocatedStake:             decimal.Zero,
		MaximumDelegation:          decimal.Zero,
		IsOverDelegated:            false,
		AllocationRatio:            decimal.Zero,
		DelegationRatio:            decimal.Zero,
		MonthlyDelegatorRewardRate: decimal.Zero,
		CreatedAtTimestamp:         block.Timestamp,
		CreatedAtBlock:             block.Number,
	}
	if err := r.store.Put(ctx, model.KindIndexer, id, entity); err != nil {
		return nil, false, fmt.Errorf("save indexer %s: %w", id, err)
	}
	r.logger.Debug("indexer created", zap.String("indexer", id), zap.Uint64("block", block.Number))
	return &Indexer{repo: r, entity: entity, block: block}, true, nil
}

// LookupIndexer returns the persisted state of an indexer without creating it.
func (r *Repository) LookupIndexer(ctx context.Context, address string) (model.Indexer, error) {
	id := model.AccountID(address)
	entity, ok, err := storage.Load[model.Indexer](ctx, r.store, model.KindIndexer, id)
	if err != nil {
		return model.Indexer{}, err
	}
	if !ok {
		return model.Indexer{}, fmt.Errorf("indexer %s: %w", id, storage.ErrNotFound)
	}
	return *entity, nil
}

// LookupSnapshot returns one persisted day bucket without creating it.
func (r *Repository) LookupSnapshot(ctx context.Context, address string, dayIndex int64) (model.IndexerSnapshot, bool, error) {
	id := model.SnapshotID(model.AccountID(address), dayIndex)
	entity, ok, err := storage.Load[model.IndexerSnapshot](ctx, r.store, model.KindIndexerSnapshot, id)
	if err != nil || !ok {
		return model.IndexerSnapshot{}, ok, err
	}
	return *entity, true, nil
}

// Delegator loads the delegator for address, creating it on first sight.
func (r *Repository) Delegator(ctx context.Context, address string, block model.Block) (model.Delegator, bool, error) {
	id := model.AccountID(address)
	if id == "" {
		return model.Delegator{}, false, fmt.Errorf("delegator address is empty")
	}
	entity, ok, err := storage.Load[model.Delegator](ctx, r.store, model.KindDelegator, id)
	if err != nil {
		return model.Delegator{}, false, err
	}
	if ok {
		return *entity, false, nil
	}

	delegator := model.Delegator{
		ID:                 id,
		CreatedAtTimestamp: block.Timestamp,
		CreatedAtBlock:     block.Number,
	}
	if err := r.store.Put(ctx, model.KindDelegator, id, delegator); err != nil {
		return model.Delegator{}, false, fmt.Errorf("save delegator %s: %w", id, err)
	}
	return delegator, true, nil
}
