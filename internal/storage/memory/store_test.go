package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

func TestStoreGetReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Put(ctx, model.KindDelegator, "0xabc", model.Delegator{ID: "0xabc", CreatedAtBlock: 7}))

	first, ok, err := storage.Load[model.Delegator](ctx, s, model.KindDelegator, "0xabc")
	require.NoError(t, err)
	require.True(t, ok)
	first.CreatedAtBlock = 99

	second, ok, err := storage.Load[model.Delegator](ctx, s, model.KindDelegator, "0xabc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(7), second.CreatedAtBlock)
}

func TestStoreKindsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Put(ctx, model.KindDelegator, "same", model.Delegator{ID: "same"}))
	_, ok, err := storage.Load[model.Indexer](ctx, s, model.KindIndexer, "same")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, s.Len())
}
