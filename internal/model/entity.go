package model

import (
	"fmt"
	"strings"
)

// Kind names a family of persisted entities.
type Kind string

const (
	KindIndexer                Kind = "indexer"
	KindIndexerSnapshot        Kind = "indexer_snapshot"
	KindPoolReward             Kind = "pool_reward"
	KindIndexerParameterUpdate Kind = "indexer_parameter_update"
	KindDelegator              Kind = "delegator"
	KindBadgeOverview          Kind = "badge_overview"
)

// Block carries the coordinates of the event being processed.
type Block struct {
	Number    uint64 `json:"number"`
	Timestamp uint64 `json:"timestamp"`
}

// AccountID normalizes a hex address into an entity id.
func AccountID(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// SnapshotID builds the id of an indexer's day bucket.
func SnapshotID(indexerID string, dayIndex int64) string {
	return fmt.Sprintf("%s-%d", indexerID, dayIndex)
}

// PoolRewardID builds the id of a pool reward log entry.
func PoolRewardID(indexerID string, rewardType RewardType, blockNumber uint64) string {
	return fmt.Sprintf("%s-%s-%d", indexerID, rewardType, blockNumber)
}

// BlockScopedID builds ids of entries keyed by indexer and block.
func BlockScopedID(indexerID string, blockNumber uint64) string {
	return fmt.Sprintf("%s-%d", indexerID, blockNumber)
}
