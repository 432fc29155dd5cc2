package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stakeScope/internal/model"
)

func TestJSONLLogSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs.jsonl")
	sink := NewJSONLLogSink(path)

	if err := sink.PutLogBatch([]model.LogRecord{{BlockNumber: 1}, {BlockNumber: 2}}); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := sink.PutLogBatch([]model.LogRecord{{BlockNumber: 3}}); err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if err := sink.PutLogBatch(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var blocks []uint64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec model.LogRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		blocks = append(blocks, rec.BlockNumber)
	}
	if len(blocks) != 3 || blocks[0] != 1 || blocks[2] != 3 {
		t.Fatalf("unexpected blocks: %v", blocks)
	}
}
