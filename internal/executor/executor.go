// Package executor drives single and batched tool execution with
// timeout enforcement, bounded concurrency, and per-call failure
// isolation in batches.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/metrics"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/pipeline"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// Config controls coordinator behavior.
type Config struct {
	// Timeout bounds each call. The chain runs with a context carrying
	// this deadline; the coordinator additionally stops awaiting the
	// chain when the deadline passes, so handlers that ignore the
	// context keep running with their result discarded.
	Timeout time.Duration

	// BatchEnabled gates ExecuteBatch entirely.
	BatchEnabled bool

	// MaxBatchSize bounds the number of calls per batch, checked
	// before any element executes.
	MaxBatchSize int

	// MaxConcurrent caps simultaneous calls in concurrent batch mode.
	MaxConcurrent int

	// GlobalRatePerSecond throttles overall throughput across all
	// tools. Zero disables the global limiter.
	GlobalRatePerSecond float64

	// Version is reported in the capabilities response.
	Version string
}

// DefaultConfig returns the coordinator defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		BatchEnabled:  true,
		MaxBatchSize:  10,
		MaxConcurrent: 5,
		Version:       "dev",
	}
}

// Executor coordinates tool execution: it resolves the tool, assembles
// its middleware chain, races the chain against the per-call timeout,
// and records the outcome with the metrics collector.
type Executor struct {
	registry  *tool.Registry
	collector *metrics.Collector
	deps      pipeline.Deps
	cfg       Config
	logger    *slog.Logger
	global    *rate.Limiter
}

// New creates an Executor. A nil logger falls back to slog.Default.
func New(registry *tool.Registry, collector *metrics.Collector, deps pipeline.Deps, cfg Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}

	e := &Executor{
		registry:  registry,
		collector: collector,
		deps:      deps,
		cfg:       cfg,
		logger:    logger,
	}
	if cfg.GlobalRatePerSecond > 0 {
		e.global = rate.NewLimiter(rate.Limit(cfg.GlobalRatePerSecond), int(cfg.GlobalRatePerSecond)+1)
	}
	return e
}

// outcome carries a finished chain's result across the timeout race.
type outcome struct {
	result *pipeline.Result
	err    error
}

// ExecuteTool runs one call through the tool's middleware chain,
// racing it against the configured timeout. Exactly one outcome is
// produced and recorded per call; on timeout the caller receives
// EXECUTION_TIMEOUT while the chain finishes in the background with
// its result discarded.
func (e *Executor) ExecuteTool(ctx context.Context, name string, params map[string]any, opts tool.Options) (*pipeline.Result, error) {
	def, err := e.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	if e.global != nil {
		if err := e.global.Wait(ctx); err != nil {
			return nil, types.WrapError(types.RATE_LIMIT_EXCEEDED, "global throughput limit", err)
		}
	}

	handler := pipeline.Build(def, e.deps)
	call := &pipeline.Call{Tool: def, Params: params, Options: opts}

	execCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		result, err := handler(execCtx, call)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		e.record(name, time.Since(start), out.err)
		if out.err != nil {
			return nil, out.err
		}
		return out.result, nil

	case <-execCtx.Done():
		duration := time.Since(start)
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			timeoutErr := types.NewError(types.EXECUTION_TIMEOUT,
				fmt.Sprintf("tool %q did not complete within %s", name, e.cfg.Timeout))
			e.record(name, duration, timeoutErr)
			return nil, timeoutErr
		}
		// The caller's own context ended; propagate it untouched.
		e.record(name, duration, ctx.Err())
		return nil, ctx.Err()
	}
}

// record writes the call outcome to the metrics collector. It runs
// after the outcome is known, never for an in-flight call.
func (e *Executor) record(name string, duration time.Duration, err error) {
	if e.collector == nil {
		return
	}
	e.collector.RecordToolExecution(name, err == nil, duration, err)
}
