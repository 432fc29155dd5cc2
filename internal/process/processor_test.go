package process

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
	"stakeScope/internal/storage/memory"
)

func writeEvents(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "typed_events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func recordLine(t *testing.T, record model.TypedEventRecord) string {
	t.Helper()
	raw, err := json.Marshal(record)
	require.NoError(t, err)
	return string(raw)
}

func TestProcessorAppliesAndResumes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	state := &storage.FileStateStore{Path: filepath.Join(t.TempDir(), "process_state.json")}

	path := writeEvents(t,
		recordLine(t, eventRecord(t, model.EventStakeDeposited, 10, at(5, 0), model.StakeDepositedData{
			Indexer: testIndexer, Tokens: wei(1000),
		})),
		"",
		"{not json",
		recordLine(t, eventRecord(t, model.EventStakeDelegated, 11, at(5, 5), model.StakeDelegatedData{
			Indexer: testIndexer, Delegator: testDelegator, Tokens: wei(300), Shares: "300",
		})),
		recordLine(t, eventRecord(t, "Transfer", 11, at(5, 5), map[string]string{})),
		recordLine(t, eventRecord(t, model.EventStakeDeposited, 12, at(5, 9), model.StakeDepositedData{
			Indexer: testIndexer, Tokens: wei(1),
		})),
	)

	processor := NewProcessor(Config{StateStore: state, CheckpointEvery: 1}, f.dispatcher, nil, nil)
	summary, err := processor.Run(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 5, summary.Total)
	require.Equal(t, 3, summary.Applied)
	require.Equal(t, 2, summary.Failed)
	require.Equal(t, uint64(12), summary.LastBlock)

	requireDecimal(t, "1001", f.indexer(t).OwnStake)
	requireDecimal(t, "300", f.indexer(t).DelegatedStake)

	last, ok, err := state.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(12), last)

	// A second pass over the same file must not double-apply.
	summary, err = NewProcessor(Config{StateStore: state}, f.dispatcher, nil, nil).Run(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Applied)
	require.Equal(t, 4, summary.Skipped)
	require.Equal(t, uint64(12), summary.LastBlock)
	requireDecimal(t, "1001", f.indexer(t).OwnStake)
}

func TestProcessorRejectsOutOfOrderBlocks(t *testing.T) {
	f := newFixture(t)
	path := writeEvents(t,
		recordLine(t, eventRecord(t, model.EventStakeDeposited, 20, at(1, 0), model.StakeDepositedData{
			Indexer: testIndexer, Tokens: wei(1),
		})),
		recordLine(t, eventRecord(t, model.EventStakeDeposited, 19, at(1, 0), model.StakeDepositedData{
			Indexer: testIndexer, Tokens: wei(1),
		})),
	)

	_, err := NewProcessor(Config{}, f.dispatcher, nil, nil).Run(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of order")
}

func TestProcessorMissingInput(t *testing.T) {
	f := newFixture(t)
	_, err := NewProcessor(Config{}, f.dispatcher, nil, nil).Run(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
}

func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	return metric.GetCounter().GetValue()
}

func TestWriteMetricsCountsPuts(t *testing.T) {
	metrics := DefaultMetrics()
	store := WithWriteMetrics(memory.NewStore(), metrics)
	counter := metrics.entityWrites.WithLabelValues(string(model.KindDelegator))
	start := counterValue(t, counter)

	require.NoError(t, store.Put(context.Background(), model.KindDelegator, "0xabc", model.Delegator{ID: "0xabc"}))
	require.Equal(t, start+1, counterValue(t, counter))

	var got model.Delegator
	ok, err := store.Get(context.Background(), model.KindDelegator, "0xabc", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "0xabc", got.ID)
}
