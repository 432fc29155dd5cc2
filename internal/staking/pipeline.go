package staking

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"stakeScope/internal/model"
)

// EventWriter receives one JSON document per call.
type EventWriter interface {
	Write(value interface{}) error
}

// DecodeSummary counts what a decode pass did.
type DecodeSummary struct {
	Total   int
	Decoded int
	Skipped int
	Failed  int
}

// DecodeStream reads raw log records as JSON lines from in and writes typed events to out.
// Logs with an unknown topic0 are skipped. Malformed lines and decode failures go to errs
// and never stop the stream.
func DecodeStream(ctx context.Context, decoder Decoder, in io.Reader, out, errs EventWriter, logger *zap.Logger) (DecodeSummary, error) {
	var summary DecodeSummary
	if logger == nil {
		logger = zap.NewNop()
	}

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

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

		var record model.LogRecord
		if err := json.Unmarshal(line, &record); err != nil {
			summary.Failed++
			writeDecodeError(errs, model.DecodeError{Error: err.Error()}, logger)
			continue
		}
		if record.Topic0() == "" {
			summary.Failed++
			writeDecodeError(errs, model.NewDecodeError(record, fmt.Errorf("missing topic0")), logger)
			continue
		}
		if !decoder.CanDecode(record.Topic0()) {
			summary.Skipped++
			continue
		}

		event, err := decoder.Decode(record)
		if err != nil {
			summary.Failed++
			writeDecodeError(errs, model.NewDecodeError(record, err), logger)
			continue
		}

		if err := out.Write(event); err != nil {
			return summary, fmt.Errorf("write typed event: %w", err)
		}
		summary.Decoded++
	}

	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("scan input: %w", err)
	}
	return summary, nil
}

func writeDecodeError(errs EventWriter, record model.DecodeError, logger *zap.Logger) {
	logger.Debug("decode failed",
		zap.Uint64("block", record.BlockNumber),
		zap.String("tx", record.TxHash),
		zap.String("error", record.Error),
	)
	if errs == nil {
		return
	}
	if err := errs.Write(record); err != nil {
		logger.Warn("write decode error", zap.Error(err))
	}
}
