package ledger

import (
	"context"
	"fmt"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

// MaxReportDays caps how many day buckets one report scans.
const MaxReportDays = 366

// Report is a read-only view of an indexer and its day buckets.
type Report struct {
	Indexer   model.Indexer           `json:"indexer"`
	Snapshots []model.IndexerSnapshot `json:"snapshots"`
}

// Report loads an indexer and the snapshots between fromTs and toTs inclusive.
// A zero fromTs starts at the indexer's creation day and a zero toTs ends at its
// latest snapshot. Days without activity are left out.
func (r *Repository) Report(ctx context.Context, address string, fromTs, toTs uint64) (Report, error) {
	indexer, err := r.LookupIndexer(ctx, address)
	if err != nil {
		return Report{}, err
	}

	fromDay := r.consts.DayIndex(indexer.CreatedAtTimestamp)
	if fromTs != 0 {
		fromDay = r.consts.DayIndex(fromTs)
	}
	toDay := fromDay
	if toTs != 0 {
		toDay = r.consts.DayIndex(toTs)
	} else if indexer.LastSnapshot != "" {
		last, ok, err := storage.Load[model.IndexerSnapshot](ctx, r.store, model.KindIndexerSnapshot, indexer.LastSnapshot)
		if err != nil {
			return Report{}, err
		}
		if ok {
			toDay = last.DayIndex
		}
	}
	if toDay < fromDay {
		return Report{}, fmt.Errorf("report range ends before it starts: day %d < day %d", toDay, fromDay)
	}
	if toDay-fromDay >= MaxReportDays {
		fromDay = toDay - MaxReportDays + 1
	}

	report := Report{Indexer: indexer, Snapshots: []model.IndexerSnapshot{}}
	for day := fromDay; day <= toDay; day++ {
		snap, ok, err := r.LookupSnapshot(ctx, indexer.ID, day)
		if err != nil {
			return Report{}, err
		}
		if ok {
			report.Snapshots = append(report.Snapshots, snap)
		}
	}
	return report, nil
}
