package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// BatchCall is one element of a batch request.
type BatchCall struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Options    tool.Options   `json:"options,omitempty"`
}

// BatchEntry is one element of a batch response, in input order. A
// failing call produces an entry with Success false and the error
// message; it never aborts the batch or loses other results.
type BatchEntry struct {
	Success bool           `json:"success"`
	Result  map[string]any `json:"result,omitempty"`
	Cached  bool           `json:"cached,omitempty"`
	Error   string         `json:"error,omitempty"`
	Tool    string         `json:"tool,omitempty"`
}

// ExecuteBatch runs calls either sequentially in input order or
// concurrently in fixed-size groups of min(len(calls), MaxConcurrent),
// waiting for each group to finish before starting the next. Batch
// preconditions are checked before any element executes.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []BatchCall, concurrent bool) ([]BatchEntry, error) {
	if !e.cfg.BatchEnabled {
		return nil, types.NewError(types.BATCHING_DISABLED, "batch execution is disabled")
	}
	if len(calls) > e.cfg.MaxBatchSize {
		return nil, types.NewError(types.BATCH_SIZE_EXCEEDED,
			fmt.Sprintf("batch of %d calls exceeds maximum of %d", len(calls), e.cfg.MaxBatchSize))
	}

	batchID := uuid.NewString()
	e.logger.Info("batch execution started",
		"batch_id", batchID,
		"calls", len(calls),
		"concurrent", concurrent)

	var entries []BatchEntry
	if concurrent {
		entries = e.runConcurrent(ctx, calls)
	} else {
		entries = e.runSequential(ctx, calls)
	}

	failed := 0
	for _, entry := range entries {
		if !entry.Success {
			failed++
		}
	}
	e.logger.Info("batch execution finished",
		"batch_id", batchID,
		"calls", len(calls),
		"failed", failed)

	return entries, nil
}

func (e *Executor) runSequential(ctx context.Context, calls []BatchCall) []BatchEntry {
	entries := make([]BatchEntry, len(calls))
	for i, call := range calls {
		entries[i] = e.runOne(ctx, call)
	}
	return entries
}

// runConcurrent processes calls in groups. The group size is
// min(len(calls), MaxConcurrent); the whole group finishes before the
// next group starts.
func (e *Executor) runConcurrent(ctx context.Context, calls []BatchCall) []BatchEntry {
	groupSize := e.cfg.MaxConcurrent
	if len(calls) < groupSize {
		groupSize = len(calls)
	}

	entries := make([]BatchEntry, len(calls))
	for base := 0; base < len(calls); base += groupSize {
		end := base + groupSize
		if end > len(calls) {
			end = len(calls)
		}

		var g errgroup.Group
		for i := base; i < end; i++ {
			i := i
			g.Go(func() error {
				// Failures are isolated into the entry; the group
				// itself never errors.
				entries[i] = e.runOne(ctx, calls[i])
				return nil
			})
		}
		_ = g.Wait()
	}
	return entries
}

// runOne executes one batch element, converting any error into a
// structured failure entry.
func (e *Executor) runOne(ctx context.Context, call BatchCall) BatchEntry {
	result, err := e.ExecuteTool(ctx, call.Tool, call.Parameters, call.Options)
	if err != nil {
		return BatchEntry{
			Success: false,
			Error:   err.Error(),
			Tool:    call.Tool,
		}
	}
	return BatchEntry{
		Success: true,
		Result:  result.Output,
		Cached:  result.Cached,
	}
}
