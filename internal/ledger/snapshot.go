package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

// Trailing reward windows, in day buckets before the snapshot's own bucket.
const (
	DayWindowDays   int64 = 1
	WeekWindowDays  int64 = 7
	MonthWindowDays int64 = 30
)

// Snapshot is the day bucket of one indexer. Every mutator persists immediately.
type Snapshot struct {
	repo   *Repository
	entity *model.IndexerSnapshot
}

// Snapshot loads the bucket containing ts, creating it on first touch.
// A new bucket takes the indexer's current balances as its baseline and
// sums delegation rewards of the preceding buckets once; those sums are not revised later.
func (r *Repository) Snapshot(ctx context.Context, indexer *model.Indexer, ts uint64) (*Snapshot, bool, error) {
	day := r.consts.DayIndex(ts)
	id := model.SnapshotID(indexer.ID, day)

	existing, ok, err := storage.Load[model.IndexerSnapshot](ctx, r.store, model.KindIndexerSnapshot, id)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return &Snapshot{repo: r, entity: existing}, false, nil
	}

	entity := &model.IndexerSnapshot{
		ID:                             id,
		Indexer:                        indexer.ID,
		DayIndex:                       day,
		CreatedAtTimestamp:             ts,
		OwnStakeInitial:                indexer.OwnStake,
		DelegatedStakeInitial:          indexer.DelegatedStake,
		OwnStakeDelta:                  decimal.Zero,
		DelegatedStakeDelta:            decimal.Zero,
		DelegationRewards:              decimal.Zero,
		ParametersChangeCount:          0,
		PreviousDelegationRewardsDay:   decimal.Zero,
		PreviousDelegationRewardsWeek:  decimal.Zero,
		PreviousDelegationRewardsMonth: decimal.Zero,
	}
	if err := r.fillRewardWindows(ctx, entity); err != nil {
		return nil, false, err
	}

	s := &Snapshot{repo: r, entity: entity}
	if err := s.save(ctx); err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (r *Repository) fillRewardWindows(ctx context.Context, snap *model.IndexerSnapshot) error {
	for back := int64(1); back <= MonthWindowDays; back++ {
		pastID := model.SnapshotID(snap.Indexer, snap.DayIndex-back)
		past, ok, err := storage.Load[model.IndexerSnapshot](ctx, r.store, model.KindIndexerSnapshot, pastID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		rewards := past.DelegationRewards
		if back <= DayWindowDays {
			snap.PreviousDelegationRewardsDay = snap.PreviousDelegationRewardsDay.Add(rewards)
		}
		if back <= WeekWindowDays {
			snap.PreviousDelegationRewardsWeek = snap.PreviousDelegationRewardsWeek.Add(rewards)
		}
		snap.PreviousDelegationRewardsMonth = snap.PreviousDelegationRewardsMonth.Add(rewards)
	}
	return nil
}

func (s *Snapshot) ID() string {
	return s.entity.ID
}

// State returns a copy of the persisted bucket.
func (s *Snapshot) State() model.IndexerSnapshot {
	return *s.entity
}

func (s *Snapshot) PreviousDelegationRewardsMonth() decimal.Decimal {
	return s.entity.PreviousDelegationRewardsMonth
}

func (s *Snapshot) AddOwnStakeDelta(ctx context.Context, delta decimal.Decimal) error {
	s.entity.OwnStakeDelta = s.entity.OwnStakeDelta.Add(delta)
	return s.save(ctx)
}

func (s *Snapshot) AddDelegatedStakeDelta(ctx context.Context, delta decimal.Decimal) error {
	s.entity.DelegatedStakeDelta = s.entity.DelegatedStakeDelta.Add(delta)
	return s.save(ctx)
}

func (s *Snapshot) AddDelegationReward(ctx context.Context, amount decimal.Decimal) error {
	s.entity.DelegationRewards = s.entity.DelegationRewards.Add(amount)
	return s.save(ctx)
}

func (s *Snapshot) IncrementParameterChangeCount(ctx context.Context) error {
	s.entity.ParametersChangeCount++
	return s.save(ctx)
}

func (s *Snapshot) save(ctx context.Context) error {
	if err := s.repo.store.Put(ctx, model.KindIndexerSnapshot, s.entity.ID, s.entity); err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.entity.ID, err)
	}
	return nil
}
