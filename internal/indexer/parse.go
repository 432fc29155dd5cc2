package indexer

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"stakeScope/internal/staking"
)

// ParseAddresses converts string addresses into common.Address.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !common.IsHexAddress(input) {
			return nil, fmt.Errorf("invalid address: %s", input)
		}
		addresses = append(addresses, common.HexToAddress(input))
	}
	return addresses, nil
}

// ParseTopic0 converts topic0 filters into hashes. Each input is either a 32-byte
// hex hash or the name of a staking event. An empty input selects every staking event.
func ParseTopic0(inputs []string) ([]common.Hash, error) {
	topics := make([]common.Hash, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
			topic, ok := staking.TopicForEvent(input)
			if !ok {
				return nil, fmt.Errorf("unknown event: %s", input)
			}
			topics = append(topics, common.HexToHash(topic))
			continue
		}
		data, err := hexutil.Decode(input)
		if err != nil {
			return nil, fmt.Errorf("invalid topic0: %s", input)
		}
		if len(data) != 32 {
			return nil, fmt.Errorf("invalid topic0 length: %s", input)
		}
		topics = append(topics, common.BytesToHash(data))
	}
	if len(topics) > 0 {
		return topics, nil
	}

	defaults, err := staking.DefaultTopics()
	if err != nil {
		return nil, err
	}
	for _, topic := range defaults {
		topics = append(topics, common.HexToHash(topic))
	}
	return topics, nil
}
