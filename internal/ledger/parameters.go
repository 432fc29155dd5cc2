package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// ApplyParameterUpdate stores new fee cuts and the cooldown block. When the cuts
// differ from the previous ones (or none were known) the change is counted in the
// day snapshot and logged. The indexer is persisted either way.
func (i *Indexer) ApplyParameterUpdate(ctx context.Context, indexingRewardCutRatio, queryFeeCutRatio decimal.Decimal, cooldownBlocks uint64) (bool, error) {
	e := i.entity
	previousIndexing := e.IndexingRewardCutRatio
	previousQuery := e.QueryFeeCutRatio

	e.IndexingRewardCutRatio = decimal.NewNullDecimal(indexingRewardCutRatio)
	e.QueryFeeCutRatio = decimal.NewNullDecimal(queryFeeCutRatio)
	if cooldownBlocks == 0 {
		e.DelegatorParameterCooldownBlock = nil
	} else {
		until := i.block.Number + cooldownBlocks
		e.DelegatorParameterCooldownBlock = &until
	}

	changed := !previousIndexing.Valid ||
		!previousQuery.Valid ||
		!previousIndexing.Decimal.Equal(indexingRewardCutRatio) ||
		!previousQuery.Decimal.Equal(queryFeeCutRatio)

	if changed {
		snap, err := i.currentSnapshot(ctx)
		if err != nil {
			return false, err
		}
		if err := snap.IncrementParameterChangeCount(ctx); err != nil {
			return false, err
		}

		update := model.IndexerParameterUpdate{
			ID:                             model.BlockScopedID(e.ID, i.block.Number),
			Indexer:                        e.ID,
			BlockNumber:                    i.block.Number,
			Timestamp:                      i.block.Timestamp,
			PreviousIndexingRewardCutRatio: previousIndexing,
			PreviousQueryFeeCutRatio:       previousQuery,
			IndexingRewardCutRatio:         indexingRewardCutRatio,
			QueryFeeCutRatio:               queryFeeCutRatio,
			CooldownBlock:                  e.DelegatorParameterCooldownBlock,
		}
		if err := i.repo.store.Put(ctx, model.KindIndexerParameterUpdate, update.ID, update); err != nil {
			return false, fmt.Errorf("save parameter update %s: %w", update.ID, err)
		}
	}

	return changed, i.save(ctx)
}
