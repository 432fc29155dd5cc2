package indexer

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

type fakeSource struct {
	logs         []types.Log
	latest       uint64
	failFilters  int
	filterCalls  []BlockRange
	timestampErr error
}

func (f *fakeSource) GetChainID(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (f *fakeSource) LatestBlockNumber(context.Context) (uint64, error) {
	return f.latest, nil
}

func (f *fakeSource) BlockTimestamp(_ context.Context, number uint64) (uint64, error) {
	if f.timestampErr != nil {
		return 0, f.timestampErr
	}
	return 1_700_000_000 + number*12, nil
}

func (f *fakeSource) FilterLogs(_ context.Context, from, to uint64, _ []common.Address, _ []common.Hash) ([]types.Log, error) {
	if f.failFilters > 0 {
		f.failFilters--
		return nil, errors.New("rpc unavailable")
	}
	f.filterCalls = append(f.filterCalls, BlockRange{From: from, To: to})
	var out []types.Log
	for _, log := range f.logs {
		if log.BlockNumber >= from && log.BlockNumber <= to {
			out = append(out, log)
		}
	}
	return out, nil
}

type memorySink struct {
	batches [][]model.LogRecord
}

func (s *memorySink) PutLogBatch(logs []model.LogRecord) error {
	s.batches = append(s.batches, logs)
	return nil
}

func (s *memorySink) records() []model.LogRecord {
	var out []model.LogRecord
	for _, batch := range s.batches {
		out = append(out, batch...)
	}
	return out
}

var stakingAddress = common.HexToAddress("0xF55041E37E12cD407ad00CE2910B8269B01263b9")

func testLog(block uint64, index uint, tx string) types.Log {
	return types.Log{
		Address:     stakingAddress,
		Topics:      []common.Hash{common.HexToHash("0x01")},
		Data:        []byte{0xab},
		BlockNumber: block,
		TxHash:      common.HexToHash(tx),
		Index:       index,
	}
}

func TestRunnerWritesBatchesAndState(t *testing.T) {
	source := &fakeSource{
		latest: 25,
		logs: []types.Log{
			testLog(10, 0, "0xaa"),
			testLog(10, 0, "0xaa"),
			testLog(12, 3, "0xbb"),
			testLog(21, 1, "0xcc"),
		},
	}
	removed := testLog(22, 0, "0xdd")
	removed.Removed = true
	source.logs = append(source.logs, removed)

	sink := &memorySink{}
	state := &storage.FileStateStore{Path: filepath.Join(t.TempDir(), "checkpoint.json")}
	runner := NewRunner(RunConfig{
		FromBlock:  10,
		Addresses:  []common.Address{stakingAddress},
		BatchSize:  10,
		MaxRetries: 1,
		StateStore: state,
	}, source, sink, nil)
	runner.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(sink.batches))
	}
	records := sink.records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records after dedupe, got %d", len(records))
	}
	first := records[0]
	if first.ChainID != 1 || first.BlockNumber != 10 || first.Timestamp != 1_700_000_120 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Data != "0xab" || first.Address != stakingAddress.Hex() {
		t.Fatalf("unexpected payload: %+v", first)
	}
	if first.IngestedAt != "2023-11-14T22:13:20Z" {
		t.Fatalf("unexpected ingested_at: %s", first.IngestedAt)
	}

	last, ok, err := state.Load(context.Background())
	if err != nil || !ok || last != 25 {
		t.Fatalf("unexpected state: %d %v %v", last, ok, err)
	}

	// Nothing left to fetch on a second run.
	source.filterCalls = nil
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(source.filterCalls) != 0 {
		t.Fatalf("expected no fetches, got %v", source.filterCalls)
	}
}

func TestRunnerRetriesFilterLogs(t *testing.T) {
	source := &fakeSource{failFilters: 2, logs: []types.Log{testLog(5, 0, "0x01")}}
	sink := &memorySink{}
	runner := NewRunner(RunConfig{
		FromBlock:    1,
		ToBlock:      5,
		Addresses:    []common.Address{stakingAddress},
		BatchSize:    100,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, source, sink, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.records()) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records()))
	}
}

func TestRunnerFailsOnTimestampError(t *testing.T) {
	source := &fakeSource{timestampErr: errors.New("header not found"), logs: []types.Log{testLog(5, 0, "0x01")}}
	runner := NewRunner(RunConfig{
		FromBlock:    1,
		ToBlock:      5,
		Addresses:    []common.Address{stakingAddress},
		BatchSize:    100,
		RetryBackoff: time.Millisecond,
	}, source, &memorySink{}, nil)

	if err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunnerValidatesConfig(t *testing.T) {
	source := &fakeSource{}
	if err := NewRunner(RunConfig{BatchSize: 1}, source, &memorySink{}, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing address")
	}
	if err := NewRunner(RunConfig{Addresses: []common.Address{stakingAddress}}, source, &memorySink{}, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
	if err := NewRunner(RunConfig{BatchSize: 1, Addresses: []common.Address{stakingAddress}}, source, nil, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for nil sink")
	}
}
