package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

func loadParameterUpdate(t *testing.T, store storage.EntityStore, indexerID string, block uint64) (*model.IndexerParameterUpdate, bool) {
	t.Helper()
	update, ok, err := storage.Load[model.IndexerParameterUpdate](context.Background(), store,
		model.KindIndexerParameterUpdate, model.BlockScopedID(indexerID, block))
	require.NoError(t, err)
	return update, ok
}

func TestParameterUpdateSuppressesUnchangedCuts(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t)

	ix := loadIndexer(t, repo, blockOn(70, 0, 1000))
	changed, err := ix.ApplyParameterUpdate(ctx, dec("0.9"), dec("0.5"), 10)
	require.NoError(t, err)
	require.True(t, changed)

	first, ok := loadParameterUpdate(t, store, ix.ID(), 1000)
	require.True(t, ok)
	require.False(t, first.PreviousIndexingRewardCutRatio.Valid)
	require.False(t, first.PreviousQueryFeeCutRatio.Valid)
	requireDecimal(t, "0.9", first.IndexingRewardCutRatio)
	require.NotNil(t, first.CooldownBlock)
	require.Equal(t, uint64(1010), *first.CooldownBlock)

	ix = loadIndexer(t, repo, blockOn(70, 60, 1001))
	changed, err = ix.ApplyParameterUpdate(ctx, dec("0.9"), dec("0.5"), 20)
	require.NoError(t, err)
	require.False(t, changed)

	_, ok = loadParameterUpdate(t, store, ix.ID(), 1001)
	require.False(t, ok)

	persisted, err := repo.LookupIndexer(ctx, testIndexer)
	require.NoError(t, err)
	require.NotNil(t, persisted.DelegatorParameterCooldownBlock)
	require.Equal(t, uint64(1021), *persisted.DelegatorParameterCooldownBlock)
	require.True(t, persisted.IndexingRewardCutRatio.Valid)
	requireDecimal(t, "0.5", persisted.QueryFeeCutRatio.Decimal)

	snap, ok, err := repo.LookupSnapshot(ctx, testIndexer, 70)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, snap.ParametersChangeCount)
}

func TestParameterUpdateRecordsPreviousCuts(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t)

	ix := loadIndexer(t, repo, blockOn(70, 0, 1000))
	_, err := ix.ApplyParameterUpdate(ctx, dec("0.9"), dec("0.5"), 0)
	require.NoError(t, err)

	ix = loadIndexer(t, repo, blockOn(71, 0, 2000))
	changed, err := ix.ApplyParameterUpdate(ctx, dec("0.9"), dec("0.4"), 0)
	require.NoError(t, err)
	require.True(t, changed)

	update, ok := loadParameterUpdate(t, store, ix.ID(), 2000)
	require.True(t, ok)
	require.True(t, update.PreviousQueryFeeCutRatio.Valid)
	requireDecimal(t, "0.5", update.PreviousQueryFeeCutRatio.Decimal)
	requireDecimal(t, "0.9", update.PreviousIndexingRewardCutRatio.Decimal)
	requireDecimal(t, "0.4", update.QueryFeeCutRatio)
	require.Nil(t, update.CooldownBlock)

	day71, ok, err := repo.LookupSnapshot(ctx, testIndexer, 71)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, day71.ParametersChangeCount)
}

func TestParameterUpdateCooldown(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	ix := loadIndexer(t, repo, blockOn(70, 0, 5000))
	_, err := ix.ApplyParameterUpdate(ctx, dec("0.1"), dec("0.1"), 100)
	require.NoError(t, err)
	require.NotNil(t, ix.State().DelegatorParameterCooldownBlock)
	require.Equal(t, uint64(5100), *ix.State().DelegatorParameterCooldownBlock)

	ix = loadIndexer(t, repo, blockOn(70, 10, 5001))
	_, err = ix.ApplyParameterUpdate(ctx, dec("0.1"), dec("0.1"), 0)
	require.NoError(t, err)
	require.Nil(t, ix.State().DelegatorParameterCooldownBlock)

	persisted, err := repo.LookupIndexer(ctx, testIndexer)
	require.NoError(t, err)
	require.Nil(t, persisted.DelegatorParameterCooldownBlock)
}
