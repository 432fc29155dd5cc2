package staking

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Staking contract events plus RewardsManager.RewardsAssigned.
const eventsABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"}
    ],
    "name": "StakeDeposited",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "until", "type": "uint256"}
    ],
    "name": "StakeLocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"}
    ],
    "name": "StakeWithdrawn",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "reward", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "beneficiary", "type": "address"}
    ],
    "name": "StakeSlashed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "delegator", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "shares", "type": "uint256"}
    ],
    "name": "StakeDelegated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "delegator", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "shares", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "until", "type": "uint256"}
    ],
    "name": "StakeDelegatedLocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "delegator", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"}
    ],
    "name": "StakeDelegatedWithdrawn",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "bytes32", "name": "subgraphDeploymentID", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "epoch", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "allocationID", "type": "address"},
      {"indexed": false, "internalType": "bytes32", "name": "metadata", "type": "bytes32"}
    ],
    "name": "AllocationCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "bytes32", "name": "subgraphDeploymentID", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "epoch", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "allocationID", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "curationFees", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "rebateFees", "type": "uint256"}
    ],
    "name": "AllocationCollected",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "bytes32", "name": "subgraphDeploymentID", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "epoch", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "allocationID", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "effectiveAllocation", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": false, "internalType": "bytes32", "name": "poi", "type": "bytes32"},
      {"indexed": false, "internalType": "bool", "name": "isDelegator", "type": "bool"}
    ],
    "name": "AllocationClosed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "bytes32", "name": "subgraphDeploymentID", "type": "bytes32"},
      {"indexed": true, "internalType": "address", "name": "allocationID", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "epoch", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "forEpoch", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "tokens", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "unclaimedAllocationsCount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "delegationFees", "type": "uint256"}
    ],
    "name": "RebateClaimed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": false, "internalType": "uint32", "name": "indexingRewardCut", "type": "uint32"},
      {"indexed": false, "internalType": "uint32", "name": "queryFeeCut", "type": "uint32"},
      {"indexed": false, "internalType": "uint32", "name": "cooldownBlocks", "type": "uint32"}
    ],
    "name": "DelegationParametersUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "indexer", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "allocationID", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "epoch", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "RewardsAssigned",
    "type": "event"
  }
]`

var (
	eventsABI     abi.ABI
	eventsABIOnce sync.Once
	eventsABIErr  error
)

// EventsABI returns the parsed staking events ABI.
func EventsABI() (abi.ABI, error) {
	eventsABIOnce.Do(func() {
		eventsABI, eventsABIErr = abi.JSON(strings.NewReader(eventsABIJSON))
	})
	return eventsABI, eventsABIErr
}

// DefaultTopics returns the topic0 hash of every supported event.
func DefaultTopics() ([]string, error) {
	parsed, err := EventsABI()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Events))
	for _, name := range EventNames() {
		out = append(out, strings.ToLower(parsed.Events[name].ID.Hex()))
	}
	return out, nil
}

// TopicForEvent returns the topic0 hash of a supported event name.
func TopicForEvent(name string) (string, bool) {
	parsed, err := EventsABI()
	if err != nil {
		return "", false
	}
	event, ok := parsed.Events[normalizeEventName(name)]
	if !ok {
		return "", false
	}
	return strings.ToLower(event.ID.Hex()), true
}
