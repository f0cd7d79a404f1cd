package build

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/types"
)

// TaskFunc exports a single pattern.
type TaskFunc func(ctx context.Context, p *types.Pattern) error

// WorkerManager runs a task for every pattern on a fixed number of
// goroutines.
type WorkerManager struct {
	// workers is the number of concurrent goroutines
	workers int
	task    TaskFunc
	// metrics records every result; may be nil
	metrics *ExportMetrics
}

// NewWorkerManager creates a worker manager; fewer than one worker means
// one.
func NewWorkerManager(workers int, task TaskFunc, metrics *ExportMetrics) *WorkerManager {
	if workers < 1 {
		workers = 1
	}
	return &WorkerManager{
		workers: workers,
		task:    task,
		metrics: metrics,
	}
}

type job struct {
	index   int
	pattern *types.Pattern
}

// Run processes patterns and returns their results in input order.
// Patterns not started before ctx is done carry its error.
func (wm *WorkerManager) Run(ctx context.Context, patterns []*types.Pattern) []PatternResult {
	results := make([]PatternResult, len(patterns))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < wm.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = wm.process(ctx, j.pattern)
			}
		}()
	}

	for i, p := range patterns {
		if err := ctx.Err(); err != nil {
			results[i] = PatternResult{Pattern: p.Partial(), Error: err}
			continue
		}
		jobs <- job{index: i, pattern: p}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (wm *WorkerManager) process(ctx context.Context, p *types.Pattern) PatternResult {
	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = wm.runTask(ctx, p)
	}

	result := PatternResult{
		Pattern:  p.Partial(),
		Error:    err,
		Duration: time.Since(start),
	}
	if wm.metrics != nil {
		wm.metrics.Record(result)
	}
	return result
}

// runTask calls the task, turning a panic into an internal error.
func (wm *WorkerManager) runTask(ctx context.Context, p *types.Pattern) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewInternalError(errors.ErrCodeInternalError, "export panicked", fmt.Errorf("%v", r)).
				WithPattern(p.Partial())
		}
	}()
	return wm.task(ctx, p)
}
