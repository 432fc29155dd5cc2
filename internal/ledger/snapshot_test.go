package ledger

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

func TestSnapshotRewardWindows(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	const today int64 = 400

	for back := int64(1); back <= 10; back++ {
		ix := loadIndexer(t, repo, blockOn(today-back, 100, uint64(1000-back)))
		require.NoError(t, ix.CreditPoolReward(ctx, dec("10"), model.RewardTypeQueryFee))
	}
	// Outside the month window.
	ix := loadIndexer(t, repo, blockOn(today-31, 0, 10))
	require.NoError(t, ix.CreditPoolReward(ctx, dec("1000"), model.RewardTypeQueryFee))

	ix = loadIndexer(t, repo, blockOn(today, 5, 2000))
	snap, created, err := repo.Snapshot(ctx, ix.entity, blockOn(today, 5, 2000).Timestamp)
	require.NoError(t, err)
	require.True(t, created)

	state := snap.State()
	require.Equal(t, today, state.DayIndex)
	requireDecimal(t, "10", state.PreviousDelegationRewardsDay)
	requireDecimal(t, "70", state.PreviousDelegationRewardsWeek)
	requireDecimal(t, "100", state.PreviousDelegationRewardsMonth)
}

func TestSnapshotWindowsSkipMissingDays(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	const today int64 = 50

	ix := loadIndexer(t, repo, blockOn(today-3, 0, 1))
	require.NoError(t, ix.CreditPoolReward(ctx, dec("4"), model.RewardTypeQueryFee))
	ix = loadIndexer(t, repo, blockOn(today-20, 0, 2))
	require.NoError(t, ix.CreditPoolReward(ctx, dec("6"), model.RewardTypeQueryFee))

	ix = loadIndexer(t, repo, blockOn(today, 0, 3))
	snap, _, err := repo.Snapshot(ctx, ix.entity, blockOn(today, 0, 3).Timestamp)
	require.NoError(t, err)
	state := snap.State()
	requireDecimal(t, "0", state.PreviousDelegationRewardsDay)
	requireDecimal(t, "4", state.PreviousDelegationRewardsWeek)
	requireDecimal(t, "10", state.PreviousDelegationRewardsMonth)
}

func TestSnapshotBaselineAtFirstTouch(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	ix := loadIndexer(t, repo, blockOn(20, 0, 1))
	require.NoError(t, ix.ApplyOwnStakeDelta(ctx, dec("100")))
	require.NoError(t, ix.ApplyDelegatedStakeDelta(ctx, dec("300"), big.NewInt(300)))

	ix = loadIndexer(t, repo, blockOn(22, 30, 2))
	require.NoError(t, ix.ApplyOwnStakeDelta(ctx, dec("50")))
	require.NoError(t, ix.ApplyOwnStakeDelta(ctx, dec("-20")))
	require.Equal(t, model.SnapshotID(ix.ID(), 22), ix.State().LastSnapshot)

	day20, ok, err := repo.LookupSnapshot(ctx, testIndexer, 20)
	require.NoError(t, err)
	require.True(t, ok)
	requireDecimal(t, "0", day20.OwnStakeInitial)
	requireDecimal(t, "100", day20.OwnStakeDelta)
	requireDecimal(t, "300", day20.DelegatedStakeDelta)

	_, ok, err = repo.LookupSnapshot(ctx, testIndexer, 21)
	require.NoError(t, err)
	require.False(t, ok)

	day22, ok, err := repo.LookupSnapshot(ctx, testIndexer, 22)
	require.NoError(t, err)
	require.True(t, ok)
	requireDecimal(t, "100", day22.OwnStakeInitial)
	requireDecimal(t, "300", day22.DelegatedStakeInitial)
	requireDecimal(t, "30", day22.OwnStakeDelta)
	requireDecimal(t, "0", day22.DelegatedStakeDelta)
	require.Equal(t, blockOn(22, 30, 2).Timestamp, day22.CreatedAtTimestamp)
}

func TestSnapshotWindowsFixedAtCreation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	ix := loadIndexer(t, repo, blockOn(9, 0, 1))
	require.NoError(t, ix.CreditPoolReward(ctx, dec("5"), model.RewardTypeQueryFee))

	ix = loadIndexer(t, repo, blockOn(10, 0, 2))
	require.NoError(t, ix.CreditPoolReward(ctx, dec("7"), model.RewardTypeQueryFee))
	ix = loadIndexer(t, repo, blockOn(10, 600, 3))
	require.NoError(t, ix.CreditPoolReward(ctx, dec("8"), model.RewardTypeIndexingReward))

	day10, ok, err := repo.LookupSnapshot(ctx, testIndexer, 10)
	require.NoError(t, err)
	require.True(t, ok)
	requireDecimal(t, "5", day10.PreviousDelegationRewardsDay)
	requireDecimal(t, "5", day10.PreviousDelegationRewardsMonth)
	requireDecimal(t, "15", day10.DelegationRewards)
}

func TestMonthlyDelegatorRewardRate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	ix := loadIndexer(t, repo, blockOn(60, 0, 1))
	require.NoError(t, ix.ApplyOwnStakeDelta(ctx, dec("1000")))
	require.NoError(t, ix.ApplyDelegatedStakeDelta(ctx, dec("1000"), big.NewInt(1000)))
	require.NoError(t, ix.CreditPoolReward(ctx, dec("100"), model.RewardTypeQueryFee))

	ix = loadIndexer(t, repo, blockOn(61, 0, 2))
	require.NoError(t, ix.ApplyDelegatedStakeDelta(ctx, dec("1000"), big.NewInt(1000)))
	requireDecimal(t, "0.05", ix.State().MonthlyDelegatorRewardRate)

	persisted, err := repo.LookupIndexer(ctx, testIndexer)
	require.NoError(t, err)
	requireDecimal(t, "0.05", persisted.MonthlyDelegatorRewardRate)
}

func TestSnapshotPersistedOnCreation(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t)

	ix := loadIndexer(t, repo, blockOn(3, 0, 1))
	snap, created, err := repo.Snapshot(ctx, ix.entity, blockOn(3, 0, 1).Timestamp)
	require.NoError(t, err)
	require.True(t, created)

	loaded, ok, err := storage.Load[model.IndexerSnapshot](ctx, store, model.KindIndexerSnapshot, snap.ID())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ix.ID(), loaded.Indexer)

	again, created, err := repo.Snapshot(ctx, ix.entity, blockOn(3, 3600, 2).Timestamp)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, snap.ID(), again.ID())
}
