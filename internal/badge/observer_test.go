package badge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
	"stakeScope/internal/storage/memory"
)

func TestObserveAwardsBadges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var awarded []model.BadgeType
	observer := NewObserver(store, nil, func(badgeType model.BadgeType) {
		awarded = append(awarded, badgeType)
	})

	block := model.Block{Number: 100, Timestamp: 1700000000}
	after := model.Indexer{ID: "0xabc"}
	badges, err := observer.Observe(ctx, model.Indexer{ID: "0xabc"}, after, true, block)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	require.Equal(t, model.BadgeAnIndexerIsBorn, badges[0].Type)
	require.Equal(t, "0xabc-100", badges[0].ID)
	require.Equal(t, uint64(1), badges[0].BadgeNumber)

	before := model.Indexer{ID: "0xabc"}
	after = model.Indexer{ID: "0xabc", IsOverDelegated: true}
	badges, err = observer.Observe(ctx, before, after, false, model.Block{Number: 101, Timestamp: 1700000010})
	require.NoError(t, err)
	require.Len(t, badges, 1)
	require.Equal(t, model.BadgeItsOnlyWaferThin, badges[0].Type)

	// Staying over-delegated is not a transition.
	badges, err = observer.Observe(ctx, after, after, false, model.Block{Number: 102, Timestamp: 1700000020})
	require.NoError(t, err)
	require.Empty(t, badges)

	require.Equal(t, []model.BadgeType{model.BadgeAnIndexerIsBorn, model.BadgeItsOnlyWaferThin}, awarded)

	stored, ok, err := storage.Load[model.Badge](ctx, store, model.BadgeItsOnlyWaferThin.Kind(), "0xabc-101")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1700000010), stored.AwardedAtTimestamp)
}

func TestAwardNumbersPerType(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	observer := NewObserver(store, nil, nil)

	for n, id := range []string{"0x1", "0x2", "0x3"} {
		badge, err := observer.Award(ctx, model.BadgeItsOnlyWaferThin, id, model.Block{Number: uint64(10 + n)})
		require.NoError(t, err)
		require.Equal(t, uint64(n+1), badge.BadgeNumber)
	}
	badge, err := observer.Award(ctx, model.BadgeAnIndexerIsBorn, "0x1", model.Block{Number: 20})
	require.NoError(t, err)
	require.Equal(t, uint64(1), badge.BadgeNumber)

	overview, err := observer.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), overview.Counts[model.BadgeItsOnlyWaferThin])
	require.Equal(t, uint64(1), overview.Counts[model.BadgeAnIndexerIsBorn])
}

func TestBecomesOverDelegated(t *testing.T) {
	tests := []struct {
		before, after bool
		want          bool
	}{
		{false, true, true},
		{true, true, false},
		{true, false, false},
		{false, false, false},
	}
	for _, tc := range tests {
		got := BecomesOverDelegated(model.Indexer{IsOverDelegated: tc.before}, model.Indexer{IsOverDelegated: tc.after})
		if got != tc.want {
			t.Fatalf("before=%v after=%v: got %v", tc.before, tc.after, got)
		}
	}
}
