package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stakeScope/internal/badge"
	"stakeScope/internal/ledger"
	"stakeScope/internal/model"
	"stakeScope/internal/protocol"
)

var (
	// ErrInvalidEvent marks events that are skipped rather than failing the run.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrBeforeGenesis rejects events stamped before the protocol genesis.
	ErrBeforeGenesis = fmt.Errorf("%w: timestamp before protocol genesis", ErrInvalidEvent)
	// ErrUnknownEvent rejects event names without a handler.
	ErrUnknownEvent = fmt.Errorf("%w: unknown event", ErrInvalidEvent)
)

// Dispatcher applies typed events to the ledger, one at a time.
type Dispatcher struct {
	repo     *ledger.Repository
	observer *badge.Observer
	consts   protocol.Constants
	logger   *zap.Logger
}

// NewDispatcher builds a Dispatcher. observer may be nil to disable badges.
func NewDispatcher(repo *ledger.Repository, observer *badge.Observer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		repo:     repo,
		observer: observer,
		consts:   repo.Constants(),
		logger:   logger,
	}
}

// Dispatch applies one event. Errors wrapping ErrInvalidEvent leave the ledger untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, record model.TypedEventRecord) error {
	if d.consts.BeforeGenesis(record.Timestamp) {
		return fmt.Errorf("%s at block %d: %w", record.EventName, record.BlockNumber, ErrBeforeGenesis)
	}

	block := record.Block()
	d.logger.Debug("dispatch event",
		zap.String("event", record.EventName),
		zap.Uint64("block", block.Number),
		zap.Uint64("log_index", record.LogIndex),
	)

	switch record.EventName {
	case model.EventStakeDeposited:
		data, err := decodePayload[model.StakeDepositedData](record)
		if err != nil {
			return err
		}
		tokens, err := d.tokenAmount("tokens", data.Tokens)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.ApplyOwnStakeDelta(ctx, tokens)
		})

	case model.EventStakeLocked:
		data, err := decodePayload[model.StakeLockedData](record)
		if err != nil {
			return err
		}
		tokens, err := d.tokenAmount("tokens", data.Tokens)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.ApplyOwnStakeDelta(ctx, tokens.Neg())
		})

	case model.EventStakeWithdrawn:
		// Locked tokens already left own stake.
		data, err := decodePayload[model.StakeWithdrawnData](record)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, nil)

	case model.EventStakeSlashed:
		data, err := decodePayload[model.StakeSlashedData](record)
		if err != nil {
			return err
		}
		tokens, err := d.tokenAmount("tokens", data.Tokens)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.ApplyOwnStakeDelta(ctx, tokens.Neg())
		})

	case model.EventStakeDelegated:
		data, err := decodePayload[model.StakeDelegatedData](record)
		if err != nil {
			return err
		}
		tokens, err := d.tokenAmount("tokens", data.Tokens)
		if err != nil {
			return err
		}
		shares, err := parseBigInt("shares", data.Shares)
		if err != nil {
			return err
		}
		if err := d.touchDelegator(ctx, data.Delegator, block); err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.ApplyDelegatedStakeDelta(ctx, tokens, shares)
		})

	case model.EventStakeDelegatedLocked:
		data, err := decodePayload[model.StakeDelegatedLockedData](record)
		if err != nil {
			return err
		}
		tokens, err := d.tokenAmount("tokens", data.Tokens)
		if err != nil {
			return err
		}
		shares, err := parseBigInt("shares", data.Shares)
		if err != nil {
			return err
		}
		if err := d.touchDelegator(ctx, data.Delegator, block); err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.ApplyDelegatedStakeDelta(ctx, tokens.Neg(), new(big.Int).Neg(shares))
		})

	case model.EventStakeDelegatedWithdrawn:
		data, err := decodePayload[model.StakeDelegatedWithdrawnData](record)
		if err != nil {
			return err
		}
		if err := d.touchDelegator(ctx, data.Delegator, block); err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, nil)

	case model.EventAllocationCreated:
		data, err := decodePayload[model.AllocationCreatedData](record)
		if err != nil {
			return err
		}
		tokens, err := d.tokenAmount("tokens", data.Tokens)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.SetAllocatedStake(ctx, ix.State().AllocatedStake.Add(tokens))
		})

	case model.EventAllocationCollected:
		// Fees reach the pool through RebateClaimed.
		data, err := decodePayload[model.AllocationCollectedData](record)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, nil)

	case model.EventAllocationClosed:
		data, err := decodePayload[model.AllocationClosedData](record)
		if err != nil {
			return err
		}
		tokens, err := d.tokenAmount("tokens", data.Tokens)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.SetAllocatedStake(ctx, ix.State().AllocatedStake.Sub(tokens))
		})

	case model.EventRebateClaimed:
		data, err := decodePayload[model.RebateClaimedData](record)
		if err != nil {
			return err
		}
		fees, err := d.tokenAmount("delegation_fees", data.DelegationFees)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			return ix.ClaimRebate(ctx, fees)
		})

	case model.EventDelegationParametersUpdated:
		data, err := decodePayload[model.DelegationParametersUpdatedData](record)
		if err != nil {
			return err
		}
		indexingCut := d.consts.FeeCutRatio(data.IndexingRewardCut)
		queryCut := d.consts.FeeCutRatio(data.QueryFeeCut)
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			changed, err := ix.ApplyParameterUpdate(ctx, indexingCut, queryCut, uint64(data.CooldownBlocks))
			if err != nil {
				return err
			}
			if !changed {
				d.logger.Debug("delegation parameters unchanged", zap.String("indexer", ix.ID()), zap.Uint64("block", block.Number))
			}
			return nil
		})

	case model.EventRewardsAssigned:
		data, err := decodePayload[model.RewardsAssignedData](record)
		if err != nil {
			return err
		}
		amount, err := d.tokenAmount("amount", data.Amount)
		if err != nil {
			return err
		}
		return d.withIndexer(ctx, data.Indexer, block, func(ix *ledger.Indexer) error {
			split, err := ix.AssignIndexingRewards(ctx, amount)
			if err != nil {
				return err
			}
			d.logger.Debug("indexing rewards assigned",
				zap.String("indexer", ix.ID()),
				zap.String("indexer_share", split.Indexer.String()),
				zap.String("delegator_share", split.Delegators.String()),
			)
			return nil
		})

	default:
		return fmt.Errorf("%q at block %d: %w", record.EventName, record.BlockNumber, ErrUnknownEvent)
	}
}

// withIndexer resolves the indexer, applies op, then runs the badge observer on
// the state before and after. A nil op only resolves the indexer.
func (d *Dispatcher) withIndexer(ctx context.Context, address string, block model.Block, op func(ix *ledger.Indexer) error) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: missing indexer address", ErrInvalidEvent)
	}
	ix, created, err := d.repo.Indexer(ctx, address, block)
	if err != nil {
		return err
	}
	before := ix.State()

	if op != nil {
		if err := op(ix); err != nil {
			return err
		}
	}

	after := ix.State()
	d.warnNegative(after, block)

	if d.observer != nil {
		if _, err := d.observer.Observe(ctx, before, after, created, block); err != nil {
			return fmt.Errorf("observe badges: %w", err)
		}
	}
	return nil
}

func (d *Dispatcher) touchDelegator(ctx context.Context, address string, block model.Block) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: missing delegator address", ErrInvalidEvent)
	}
	_, created, err := d.repo.Delegator(ctx, address, block)
	if err != nil {
		return err
	}
	if created {
		d.logger.Debug("delegator created", zap.String("delegator", model.AccountID(address)), zap.Uint64("block", block.Number))
	}
	return nil
}

// warnNegative reports balances an out-of-order event stream drove below zero.
func (d *Dispatcher) warnNegative(state model.Indexer, block model.Block) {
	if state.OwnStake.IsNegative() || state.DelegatedStake.IsNegative() || state.AllocatedStake.IsNegative() {
		d.logger.Warn("negative balance",
			zap.String("indexer", state.ID),
			zap.String("own_stake", state.OwnStake.String()),
			zap.String("delegated_stake", state.DelegatedStake.String()),
			zap.String("allocated_stake", state.AllocatedStake.String()),
			zap.Uint64("block", block.Number),
		)
	}
}

func (d *Dispatcher) tokenAmount(field, raw string) (decimal.Decimal, error) {
	value, err := parseBigInt(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	return d.consts.TokenAmount(value), nil
}

func decodePayload[T any](record model.TypedEventRecord) (T, error) {
	var out T
	if len(record.Decoded) == 0 {
		return out, fmt.Errorf("%w: %s without payload", ErrInvalidEvent, record.EventName)
	}
	if err := json.Unmarshal(record.Decoded, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s payload: %v", ErrInvalidEvent, record.EventName, err)
	}
	return out, nil
}

func parseBigInt(field, raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an integer: %q", ErrInvalidEvent, field, raw)
	}
	return value, nil
}
