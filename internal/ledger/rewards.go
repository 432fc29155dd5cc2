package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// RewardSplit is the division of an indexing reward between the indexer and its pool.
type RewardSplit struct {
	Indexer    decimal.Decimal
	Delegators decimal.Decimal
}

// SplitIndexingRewards applies the indexer's cut. An empty pool sends everything to the indexer.
func SplitIndexingRewards(amount, indexingRewardCutRatio, delegatedStake decimal.Decimal) RewardSplit {
	if delegatedStake.IsZero() {
		return RewardSplit{Indexer: amount, Delegators: decimal.Zero}
	}
	indexerShare := amount.Mul(indexingRewardCutRatio)
	return RewardSplit{
		Indexer:    indexerShare,
		Delegators: amount.Sub(indexerShare),
	}
}

// CreditPoolReward records a credit to the delegation pool in the day snapshot and
// in the pool reward log. Non-positive amounts are ignored.
func (i *Indexer) CreditPoolReward(ctx context.Context, amount decimal.Decimal, rewardType model.RewardType) error {
	if amount.Sign() <= 0 {
		return nil
	}

	snap, err := i.currentSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := snap.AddDelegationReward(ctx, amount); err != nil {
		return err
	}

	c := i.repo.consts
	e := i.entity
	reward := model.PoolReward{
		ID:               model.PoolRewardID(e.ID, rewardType, i.block.Number),
		Indexer:          e.ID,
		Type:             rewardType,
		Amount:           amount,
		ShareRatio:       c.Ratio(amount, decimal.NewFromBigInt(e.DelegationPoolShares, 0)),
		PooledTokenRatio: c.Ratio(amount, e.DelegatedStake),
		BlockNumber:      i.block.Number,
		Timestamp:        i.block.Timestamp,
	}
	if err := i.repo.store.Put(ctx, model.KindPoolReward, reward.ID, reward); err != nil {
		return fmt.Errorf("save pool reward %s: %w", reward.ID, err)
	}
	return i.save(ctx)
}

// AssignIndexingRewards distributes rewarded tokens. The delegators' share is
// logged and compounded into the pool without minting shares; the indexer's
// share is not restaked.
func (i *Indexer) AssignIndexingRewards(ctx context.Context, amount decimal.Decimal) (RewardSplit, error) {
	cut := decimal.Zero
	if i.entity.IndexingRewardCutRatio.Valid {
		cut = i.entity.IndexingRewardCutRatio.Decimal
	}
	split := SplitIndexingRewards(amount, cut, i.entity.DelegatedStake)
	if split.Delegators.Sign() <= 0 {
		return split, nil
	}

	if err := i.CreditPoolReward(ctx, split.Delegators, model.RewardTypeIndexingReward); err != nil {
		return split, err
	}
	if err := i.ApplyDelegatedStakeDelta(ctx, split.Delegators, nil); err != nil {
		return split, err
	}
	return split, nil
}

// ClaimRebate compounds the delegation fees of a rebate claim into the pool.
func (i *Indexer) ClaimRebate(ctx context.Context, delegationFees decimal.Decimal) error {
	if delegationFees.Sign() <= 0 {
		return nil
	}
	if err := i.CreditPoolReward(ctx, delegationFees, model.RewardTypeQueryFee); err != nil {
		return err
	}
	return i.ApplyDelegatedStakeDelta(ctx, delegationFees, nil)
}
