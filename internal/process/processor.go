package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

// Config controls processing behavior.
type Config struct {
	// StateStore records the last fully processed block. Nil disables resume.
	StateStore storage.StateStore
	// CheckpointEvery saves state after this many completed blocks.
	CheckpointEvery int
}

// Summary reports what a run did.
type Summary struct {
	Total     int
	Applied   int
	Skipped   int
	Failed    int
	LastBlock uint64
}

// Processor folds a typed events JSONL file into the ledger in file order.
type Processor struct {
	cfg        Config
	dispatcher *Dispatcher
	metrics    *Metrics
	logger     *zap.Logger
}

func NewProcessor(cfg Config, dispatcher *Dispatcher, metrics *Metrics, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 100
	}
	return &Processor{
		cfg:        cfg,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run processes every event after the last saved block.
// State is only advanced past blocks whose events were all dispatched.
func (p *Processor) Run(ctx context.Context, inputPath string) (Summary, error) {
	var summary Summary
	if p.dispatcher == nil {
		return summary, fmt.Errorf("dispatcher is nil")
	}

	resumeAfter, resuming, err := p.loadState(ctx)
	if err != nil {
		return summary, err
	}
	if resuming {
		p.logger.Info("resume from state", zap.Uint64("last_processed", resumeAfter))
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return summary, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var (
		currentBlock    uint64
		haveBlock       bool
		blocksSinceSave int
	)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		summary.Total++

		var record model.TypedEventRecord
		if err := json.Unmarshal(line, &record); err != nil {
			summary.Failed++
			p.metrics.ObserveFailed("")
			p.logger.Warn("decode typed event", zap.Error(err))
			continue
		}

		if resuming && record.BlockNumber <= resumeAfter {
			summary.Skipped++
			continue
		}

		if haveBlock && record.BlockNumber < currentBlock {
			return summary, fmt.Errorf("events out of order: block %d after %d", record.BlockNumber, currentBlock)
		}
		if haveBlock && record.BlockNumber > currentBlock {
			blocksSinceSave++
			if blocksSinceSave >= p.cfg.CheckpointEvery {
				if err := p.saveState(ctx, currentBlock); err != nil {
					return summary, err
				}
				blocksSinceSave = 0
			}
		}
		currentBlock = record.BlockNumber
		haveBlock = true

		if err := p.dispatcher.Dispatch(ctx, record); err != nil {
			if !errors.Is(err, ErrInvalidEvent) {
				return summary, fmt.Errorf("dispatch %s at block %d log %d: %w", record.EventName, record.BlockNumber, record.LogIndex, err)
			}
			summary.Failed++
			p.metrics.ObserveFailed(record.EventName)
			p.logger.Warn("skip event",
				zap.Error(err),
				zap.String("event", record.EventName),
				zap.Uint64("block", record.BlockNumber),
				zap.String("tx", record.TxHash),
			)
			continue
		}

		summary.Applied++
		p.metrics.ObserveProcessed(record.EventName)
	}

	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("scan input: %w", err)
	}

	if haveBlock {
		summary.LastBlock = currentBlock
		if err := p.saveState(ctx, currentBlock); err != nil {
			return summary, err
		}
	} else if resuming {
		summary.LastBlock = resumeAfter
	}

	p.logger.Info("process complete",
		zap.Int("total", summary.Total),
		zap.Int("applied", summary.Applied),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Uint64("last_block", summary.LastBlock),
	)
	return summary, nil
}

func (p *Processor) loadState(ctx context.Context) (uint64, bool, error) {
	if p.cfg.StateStore == nil {
		return 0, false, nil
	}
	last, ok, err := p.cfg.StateStore.Load(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("load state: %w", err)
	}
	return last, ok, nil
}

func (p *Processor) saveState(ctx context.Context, block uint64) error {
	p.metrics.SetLastBlock(block)
	if p.cfg.StateStore == nil {
		return nil
	}
	if err := p.cfg.StateStore.Save(ctx, block); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
