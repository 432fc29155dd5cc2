package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// Indexer is the mutable ledger of one participant, bound to the block being processed.
//
// Every balance mutation updates the current day snapshot first, then the balance,
// then recomputes all derived fields, then persists the entity.
type Indexer struct {
	repo   *Repository
	entity *model.Indexer
	block  model.Block
}

func (i *Indexer) ID() string {
	return i.entity.ID
}

// State returns a deep copy of the current entity.
func (i *Indexer) State() model.Indexer {
	return i.entity.Clone()
}

// ApplyOwnStakeDelta moves the self-staked balance (deposit, lock, slash).
func (i *Indexer) ApplyOwnStakeDelta(ctx context.Context, delta decimal.Decimal) error {
	snap, err := i.currentSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := snap.AddOwnStakeDelta(ctx, delta); err != nil {
		return err
	}

	i.entity.OwnStake = i.entity.OwnStake.Add(delta)
	i.recompute(snap)
	return i.save(ctx)
}

// ApplyDelegatedStakeDelta moves the delegation pool. sharesDelta must move in
// the same direction as delta; reward compounding passes a nil or zero delta.
func (i *Indexer) ApplyDelegatedStakeDelta(ctx context.Context, delta decimal.Decimal, sharesDelta *big.Int) error {
	snap, err := i.currentSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := snap.AddDelegatedStakeDelta(ctx, delta); err != nil {
		return err
	}

	i.entity.DelegatedStake = i.entity.DelegatedStake.Add(delta)
	if sharesDelta != nil && sharesDelta.Sign() != 0 {
		i.entity.DelegationPoolShares = new(big.Int).Add(i.entity.DelegationPoolShares, sharesDelta)
	}
	i.recompute(snap)
	return i.save(ctx)
}

// SetAllocatedStake replaces the allocated balance. Only the allocation ratio depends on it.
func (i *Indexer) SetAllocatedStake(ctx context.Context, value decimal.Decimal) error {
	i.entity.AllocatedStake = value
	i.recomputeAllocationRatio()
	return i.save(ctx)
}

func (i *Indexer) currentSnapshot(ctx context.Context) (*Snapshot, error) {
	snap, _, err := i.repo.Snapshot(ctx, i.entity, i.block.Timestamp)
	if err != nil {
		return nil, err
	}
	i.entity.LastSnapshot = snap.ID()
	return snap, nil
}

func (i *Indexer) recompute(snap *Snapshot) {
	c := i.repo.consts
	e := i.entity

	e.MaximumDelegation = e.OwnStake.Mul(c.DelegationRatio)
	e.IsOverDelegated = e.DelegatedStake.GreaterThan(e.MaximumDelegation)
	i.recomputeAllocationRatio()

	if e.OwnStake.IsZero() {
		e.DelegationRatio = decimal.Zero
	} else {
		e.DelegationRatio = c.Ratio(e.DelegatedStake, e.MaximumDelegation)
	}

	e.MonthlyDelegatorRewardRate = c.Ratio(snap.PreviousDelegationRewardsMonth(), e.DelegatedStake)
}

func (i *Indexer) recomputeAllocationRatio() {
	e := i.entity
	capacity := e.OwnStake
	if e.IsOverDelegated {
		capacity = capacity.Add(e.MaximumDelegation)
	} else {
		capacity = capacity.Add(e.DelegatedStake)
	}
	e.AllocationRatio = i.repo.consts.Ratio(e.AllocatedStake, capacity)
}

func (i *Indexer) save(ctx context.Context) error {
	if err := i.repo.store.Put(ctx, model.KindIndexer, i.entity.ID, i.entity); err != nil {
		return fmt.Errorf("save indexer %s: %w", i.entity.ID, err)
	}
	return nil
}
