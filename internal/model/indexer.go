package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Indexer is the running ledger of one staking participant.
type Indexer struct {
	ID                              string              `json:"id"`
	OwnStake                        decimal.Decimal     `json:"own_stake"`
	DelegatedStake                  decimal.Decimal     `json:"delegated_stake"`
	DelegationPoolShares            *big.Int            `json:"delegation_pool_shares"`
	AllocatedStake                  decimal.Decimal     `json:"allocated_stake"`
	MaximumDelegation               decimal.Decimal     `json:"maximum_delegation"`
	IsOverDelegated                 bool                `json:"is_over_delegated"`
	AllocationRatio                 decimal.Decimal     `json:"allocation_ratio"`
	DelegationRatio                 decimal.Decimal     `json:"delegation_ratio"`
	MonthlyDelegatorRewardRate      decimal.Decimal     `json:"monthly_delegator_reward_rate"`
	IndexingRewardCutRatio          decimal.NullDecimal `json:"indexing_reward_cut_ratio"`
	QueryFeeCutRatio                decimal.NullDecimal `json:"query_fee_cut_ratio"`
	DelegatorParameterCooldownBlock *uint64             `json:"delegator_parameter_cooldown_block,omitempty"`
	CreatedAtTimestamp              uint64              `json:"created_at_timestamp"`
	CreatedAtBlock                  uint64              `json:"created_at_block"`
	LastSnapshot                    string              `json:"last_snapshot,omitempty"`
}

// Clone returns a deep copy safe to keep across mutations.
func (i Indexer) Clone() Indexer {
	out := i
	if i.DelegationPoolShares != nil {
		out.DelegationPoolShares = new(big.Int).Set(i.DelegationPoolShares)
	}
	if i.DelegatorParameterCooldownBlock != nil {
		block := *i.DelegatorParameterCooldownBlock
		out.DelegatorParameterCooldownBlock = &block
	}
	return out
}

// IndexerSnapshot aggregates one indexer's activity within a day bucket.
type IndexerSnapshot struct {
	ID                             string          `json:"id"`
	Indexer                        string          `json:"indexer"`
	DayIndex                       int64           `json:"day_index"`
	CreatedAtTimestamp             uint64          `json:"created_at_timestamp"`
	OwnStakeInitial                decimal.Decimal `json:"own_stake_initial"`
	DelegatedStakeInitial          decimal.Decimal `json:"delegated_stake_initial"`
	OwnStakeDelta                  decimal.Decimal `json:"own_stake_delta"`
	DelegatedStakeDelta            decimal.Decimal `json:"delegated_stake_delta"`
	DelegationRewards              decimal.Decimal `json:"delegation_rewards"`
	ParametersChangeCount          int             `json:"parameters_change_count"`
	PreviousDelegationRewardsDay   decimal.Decimal `json:"previous_delegation_rewards_day"`
	PreviousDelegationRewardsWeek  decimal.Decimal `json:"previous_delegation_rewards_week"`
	PreviousDelegationRewardsMonth decimal.Decimal `json:"previous_delegation_rewards_month"`
}

// RewardType distinguishes the origin of a delegation pool credit.
type RewardType string

const (
	RewardTypeIndexingReward RewardType = "IndexingReward"
	RewardTypeQueryFee       RewardType = "QueryFee"
)

// PoolReward is an append-only record of one credit to a delegation pool.
type PoolReward struct {
	ID               string          `json:"id"`
	Indexer          string          `json:"indexer"`
	Type             RewardType      `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	ShareRatio       decimal.Decimal `json:"share_ratio"`
	PooledTokenRatio decimal.Decimal `json:"pooled_token_ratio"`
	BlockNumber      uint64          `json:"block_number"`
	Timestamp        uint64          `json:"timestamp"`
}

// IndexerParameterUpdate is an append-only record of an effective cut change.
type IndexerParameterUpdate struct {
	ID                             string              `json:"id"`
	Indexer                        string              `json:"indexer"`
	BlockNumber                    uint64              `json:"block_number"`
	Timestamp                      uint64              `json:"timestamp"`
	PreviousIndexingRewardCutRatio decimal.NullDecimal `json:"previous_indexing_reward_cut_ratio"`
	PreviousQueryFeeCutRatio       decimal.NullDecimal `json:"previous_query_fee_cut_ratio"`
	IndexingRewardCutRatio         decimal.Decimal     `json:"indexing_reward_cut_ratio"`
	QueryFeeCutRatio               decimal.Decimal     `json:"query_fee_cut_ratio"`
	CooldownBlock                  *uint64             `json:"cooldown_block,omitempty"`
}

// Delegator is a participant that delegated to at least one indexer.
type Delegator struct {
	ID                 string `json:"id"`
	CreatedAtTimestamp uint64 `json:"created_at_timestamp"`
	CreatedAtBlock     uint64 `json:"created_at_block"`
}
