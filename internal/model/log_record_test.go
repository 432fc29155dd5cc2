package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestLogRecordJSONRoundTrip(t *testing.T) {
	original := LogRecord{
		ChainID:     1,
		BlockNumber: 11446769,
		BlockHash:   "0xabc123",
		TxHash:      "0xdef456",
		TxIndex:     7,
		LogIndex:    12,
		Address:     "0xF55041E37E12cD407ad00CE2910B8269B01263b9",
		Topics:      []string{"0xaaa", "0xbbb"},
		Data:        "0xdeadbeef",
		Timestamp:   1608163200,
		IngestedAt:  "2024-01-01T00:00:00Z",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LogRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestNewDecodeErrorWithoutTopics(t *testing.T) {
	rec := LogRecord{BlockNumber: 5, TxHash: "0x1", LogIndex: 2}
	got := NewDecodeError(rec, errors.New("missing topic0"))
	if got.Topic0 != "" {
		t.Fatalf("expected empty topic0, got %q", got.Topic0)
	}
	if got.Error != "missing topic0" || got.BlockNumber != 5 || got.LogIndex != 2 {
		t.Fatalf("decode error mismatch: %+v", got)
	}
}
