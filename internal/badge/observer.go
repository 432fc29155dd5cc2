package badge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

// Observer awards badges by comparing indexer state before and after an event.
// It only reads ledger state and writes badge entities.
type Observer struct {
	store   storage.EntityStore
	logger  *zap.Logger
	awarded func(model.BadgeType)
}

// NewObserver builds an Observer. awarded, when non-nil, is called once per badge.
func NewObserver(store storage.EntityStore, logger *zap.Logger, awarded func(model.BadgeType)) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{store: store, logger: logger, awarded: awarded}
}

// Observe awards every badge earned by the transition from before to after.
// created reports whether the event created the indexer.
func (o *Observer) Observe(ctx context.Context, before, after model.Indexer, created bool, block model.Block) ([]model.Badge, error) {
	var out []model.Badge

	if created {
		badge, err := o.Award(ctx, model.BadgeAnIndexerIsBorn, after.ID, block)
		if err != nil {
			return out, err
		}
		out = append(out, badge)
	}

	if BecomesOverDelegated(before, after) {
		badge, err := o.Award(ctx, model.BadgeItsOnlyWaferThin, after.ID, block)
		if err != nil {
			return out, err
		}
		out = append(out, badge)
	}

	return out, nil
}

// BecomesOverDelegated reports a transition into over-delegation.
func BecomesOverDelegated(before, after model.Indexer) bool {
	return !before.IsOverDelegated && after.IsOverDelegated
}

// Award records one badge and bumps its counter in the overview.
func (o *Observer) Award(ctx context.Context, badgeType model.BadgeType, indexerID string, block model.Block) (model.Badge, error) {
	overview, err := o.Overview(ctx)
	if err != nil {
		return model.Badge{}, err
	}
	overview.Counts[badgeType]++
	if err := o.store.Put(ctx, model.KindBadgeOverview, overview.ID, overview); err != nil {
		return model.Badge{}, fmt.Errorf("save badge overview: %w", err)
	}

	badge := model.Badge{
		ID:                 model.BlockScopedID(indexerID, block.Number),
		Type:               badgeType,
		Indexer:            indexerID,
		BadgeNumber:        overview.Counts[badgeType],
		AwardedAtBlock:     block.Number,
		AwardedAtTimestamp: block.Timestamp,
	}
	if err := o.store.Put(ctx, badgeType.Kind(), badge.ID, badge); err != nil {
		return model.Badge{}, fmt.Errorf("save badge %s %s: %w", badgeType, badge.ID, err)
	}

	o.logger.Info("badge awarded",
		zap.String("badge", string(badgeType)),
		zap.String("indexer", indexerID),
		zap.Uint64("number", badge.BadgeNumber),
		zap.Uint64("block", block.Number),
	)
	if o.awarded != nil {
		o.awarded(badgeType)
	}
	return badge, nil
}

// Overview loads the award counters, starting from zero when none exist.
func (o *Observer) Overview(ctx context.Context) (model.BadgeOverview, error) {
	overview, ok, err := storage.Load[model.BadgeOverview](ctx, o.store, model.KindBadgeOverview, model.BadgeOverviewID)
	if err != nil {
		return model.BadgeOverview{}, err
	}
	if !ok {
		return model.BadgeOverview{ID: model.BadgeOverviewID, Counts: map[model.BadgeType]uint64{}}, nil
	}
	if overview.Counts == nil {
		overview.Counts = map[model.BadgeType]uint64{}
	}
	return *overview, nil
}
