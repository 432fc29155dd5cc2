package model

import (
	"encoding/json"
	"testing"
)

func TestStakeDelegatedDataJSONStringFields(t *testing.T) {
	payload := StakeDelegatedData{
		Indexer:   "0x1111111111111111111111111111111111111111",
		Delegator: "0x2222222222222222222222222222222222222222",
		Tokens:    "20000000000000000000000",
		Shares:    "19999999999999999999999",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, ok := decoded["tokens"].(string); !ok {
		t.Fatalf("tokens should be string")
	}
	if _, ok := decoded["shares"].(string); !ok {
		t.Fatalf("shares should be string")
	}
}

func TestTypedEventRecordDecodesPayloadLazily(t *testing.T) {
	event := TypedEvent{
		BlockNumber: 100,
		Timestamp:   1608163200,
		EventName:   EventStakeDeposited,
		Decoded:     StakeDepositedData{Indexer: "0xabc", Tokens: "1000"},
	}
	line, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var record TypedEventRecord
	if err := json.Unmarshal(line, &record); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if record.Block() != (Block{Number: 100, Timestamp: 1608163200}) {
		t.Fatalf("block mismatch: %+v", record.Block())
	}

	var payload StakeDepositedData
	if err := json.Unmarshal(record.Decoded, &payload); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if payload.Tokens != "1000" || payload.Indexer != "0xabc" {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}
