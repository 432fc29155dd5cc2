package staking

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"stakeScope/internal/model"
)

// Decoder defines a log decoder.
type Decoder interface {
	CanDecode(topic0 string) bool
	Decode(log model.LogRecord) (*model.TypedEvent, error)
}

// DecoderConfig configures decoder behavior.
type DecoderConfig struct {
	// Topic0Map adds topic0 -> event name aliases, e.g. for renamed contract upgrades.
	Topic0Map map[string]string
}

// EventDecoder decodes Staking and RewardsManager events.
type EventDecoder struct {
	eventsABI   abi.ABI
	topicToName map[string]string
}

// EventNames lists the supported events in contract order.
func EventNames() []string {
	return []string{
		model.EventStakeDeposited,
		model.EventStakeLocked,
		model.EventStakeWithdrawn,
		model.EventStakeSlashed,
		model.EventStakeDelegated,
		model.EventStakeDelegatedLocked,
		model.EventStakeDelegatedWithdrawn,
		model.EventAllocationCreated,
		model.EventAllocationCollected,
		model.EventAllocationClosed,
		model.EventRebateClaimed,
		model.EventDelegationParametersUpdated,
		model.EventRewardsAssigned,
	}
}

// NewEventDecoder builds a staking event decoder.
func NewEventDecoder(cfg DecoderConfig) (*EventDecoder, error) {
	eventsABI, err := EventsABI()
	if err != nil {
		return nil, err
	}

	topicToName := make(map[string]string, len(eventsABI.Events)+len(cfg.Topic0Map))
	for _, name := range EventNames() {
		event, ok := eventsABI.Events[name]
		if !ok {
			return nil, fmt.Errorf("event %s missing from abi", name)
		}
		topicToName[strings.ToLower(event.ID.Hex())] = name
	}

	for topic0, name := range cfg.Topic0Map {
		original := name
		name = normalizeEventName(name)
		if name == "" {
			return nil, fmt.Errorf("unsupported event name in topic0 map: %s", original)
		}
		if topic0 == "" {
			continue
		}
		topicToName[strings.ToLower(topic0)] = name
	}

	return &EventDecoder{
		eventsABI:   eventsABI,
		topicToName: topicToName,
	}, nil
}

// CanDecode checks if the topic0 is supported.
func (d *EventDecoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToName[strings.ToLower(topic0)]
	return ok
}

// Decode converts a LogRecord into a TypedEvent.
func (d *EventDecoder) Decode(log model.LogRecord) (*model.TypedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	name, ok := d.topicToName[strings.ToLower(log.Topics[0])]
	if !ok {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}
	if !common.IsHexAddress(log.Address) {
		return nil, fmt.Errorf("invalid contract address: %s", log.Address)
	}

	event := d.eventsABI.Events[name]
	args, err := unpackEvent(event, log)
	if err != nil {
		return nil, err
	}

	decoded, err := buildPayload(name, &argReader{args: args})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return buildTypedEvent(log, name, decoded), nil
}

func normalizeEventName(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, known := range EventNames() {
		if strings.EqualFold(known, trimmed) {
			return known
		}
	}
	return ""
}

func buildTypedEvent(log model.LogRecord, name string, decoded interface{}) *model.TypedEvent {
	raw := &model.RawLogRef{Topic0: log.Topics[0], Data: log.Data}
	return &model.TypedEvent{
		ChainID:     log.ChainID,
		BlockNumber: log.BlockNumber,
		BlockHash:   log.BlockHash,
		TxHash:      log.TxHash,
		LogIndex:    log.LogIndex,
		Address:     log.Address,
		EventName:   name,
		Timestamp:   log.Timestamp,
		Decoded:     decoded,
		Raw:         raw,
	}
}

func buildPayload(name string, r *argReader) (interface{}, error) {
	var out interface{}
	switch name {
	case model.EventStakeDeposited:
		out = model.StakeDepositedData{
			Indexer: r.address("indexer"),
			Tokens:  r.amount("tokens"),
		}
	case model.EventStakeLocked:
		out = model.StakeLockedData{
			Indexer: r.address("indexer"),
			Tokens:  r.amount("tokens"),
			Until:   r.amount("until"),
		}
	case model.EventStakeWithdrawn:
		out = model.StakeWithdrawnData{
			Indexer: r.address("indexer"),
			Tokens:  r.amount("tokens"),
		}
	case model.EventStakeSlashed:
		out = model.StakeSlashedData{
			Indexer:     r.address("indexer"),
			Tokens:      r.amount("tokens"),
			Reward:      r.amount("reward"),
			Beneficiary: r.address("beneficiary"),
		}
	case model.EventStakeDelegated:
		out = model.StakeDelegatedData{
			Indexer:   r.address("indexer"),
			Delegator: r.address("delegator"),
			Tokens:    r.amount("tokens"),
			Shares:    r.amount("shares"),
		}
	case model.EventStakeDelegatedLocked:
		out = model.StakeDelegatedLockedData{
			Indexer:   r.address("indexer"),
			Delegator: r.address("delegator"),
			Tokens:    r.amount("tokens"),
			Shares:    r.amount("shares"),
			Until:     r.amount("until"),
		}
	case model.EventStakeDelegatedWithdrawn:
		out = model.StakeDelegatedWithdrawnData{
			Indexer:   r.address("indexer"),
			Delegator: r.address("delegator"),
			Tokens:    r.amount("tokens"),
		}
	case model.EventAllocationCreated:
		out = model.AllocationCreatedData{
			Indexer:              r.address("indexer"),
			SubgraphDeploymentID: r.bytes32("subgraphDeploymentID"),
			Epoch:                r.amount("epoch"),
			Tokens:               r.amount("tokens"),
			AllocationID:         r.address("allocationID"),
			Metadata:             r.bytes32("metadata"),
		}
	case model.EventAllocationCollected:
		out = model.AllocationCollectedData{
			Indexer:              r.address("indexer"),
			SubgraphDeploymentID: r.bytes32("subgraphDeploymentID"),
			Epoch:                r.amount("epoch"),
			Tokens:               r.amount("tokens"),
			AllocationID:         r.address("allocationID"),
			From:                 r.address("from"),
			CurationFees:         r.amount("curationFees"),
			RebateFees:           r.amount("rebateFees"),
		}
	case model.EventAllocationClosed:
		out = model.AllocationClosedData{
			Indexer:              r.address("indexer"),
			SubgraphDeploymentID: r.bytes32("subgraphDeploymentID"),
			Epoch:                r.amount("epoch"),
			Tokens:               r.amount("tokens"),
			AllocationID:         r.address("allocationID"),
			EffectiveAllocation:  r.amount("effectiveAllocation"),
			Sender:               r.address("sender"),
			POI:                  r.bytes32("poi"),
			IsDelegator:          r.boolean("isDelegator"),
		}
	case model.EventRebateClaimed:
		out = model.RebateClaimedData{
			Indexer:                   r.address("indexer"),
			SubgraphDeploymentID:      r.bytes32("subgraphDeploymentID"),
			AllocationID:              r.address("allocationID"),
			Epoch:                     r.amount("epoch"),
			ForEpoch:                  r.amount("forEpoch"),
			Tokens:                    r.amount("tokens"),
			UnclaimedAllocationsCount: r.amount("unclaimedAllocationsCount"),
			DelegationFees:            r.amount("delegationFees"),
		}
	case model.EventDelegationParametersUpdated:
		out = model.DelegationParametersUpdatedData{
			Indexer:           r.address("indexer"),
			IndexingRewardCut: r.uint32("indexingRewardCut"),
			QueryFeeCut:       r.uint32("queryFeeCut"),
			CooldownBlocks:    r.uint32("cooldownBlocks"),
		}
	case model.EventRewardsAssigned:
		out = model.RewardsAssignedData{
			Indexer:      r.address("indexer"),
			AllocationID: r.address("allocationID"),
			Epoch:        r.amount("epoch"),
			Amount:       r.amount("amount"),
		}
	default:
		return nil, fmt.Errorf("unsupported event name: %s", name)
	}
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

func unpackEvent(event abi.Event, log model.LogRecord) (map[string]interface{}, error) {
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, err
	}

	args := make(map[string]interface{}, len(event.Inputs))
	if err := abi.ParseTopicsIntoMap(args, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	data, err := hexutil.Decode(log.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	if err := event.Inputs.UnpackIntoMap(args, data); err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	return args, nil
}

func parseIndexedTopics(event abi.Event, topics []string) ([]common.Hash, error) {
	indexedCount := len(indexedArguments(event.Inputs))
	if len(topics) != indexedCount+1 {
		return nil, fmt.Errorf("expected %d topics, got %d", indexedCount+1, len(topics))
	}
	return parseTopicHashes(topics[1:])
}

func parseTopicHashes(topics []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(topics))
	for _, topic := range topics {
		data, err := hexutil.Decode(topic)
		if err != nil {
			return nil, fmt.Errorf("invalid topic: %w", err)
		}
		if len(data) > 32 {
			return nil, fmt.Errorf("topic length %d", len(data))
		}
		out = append(out, common.BytesToHash(data))
	}
	return out, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}
