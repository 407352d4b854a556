package gridsolver

import (
	"context"

	"github.com/gitrdm/sudokucore/internal/batch"
)

// PuzzleTask is one independent propagation job for PropagateAll: build
// owns its own Grid, HandlerSet, and any other per-session state, since
// parallel workers must never share mutable propagation state.
type PuzzleTask struct {
	Build func() (*Grid, *HandlerSet)
}

// PuzzleResult is the outcome of running one PuzzleTask to its fixpoint.
type PuzzleResult struct {
	Index int
	Grid  *Grid
	OK    bool
}

// PropagateAll runs each task's build-then-propagate-to-fixpoint cycle on
// a bounded worker pool, one Grid/HandlerSet pair per task, and returns
// results in task order. It is the one place in this module that uses
// concurrency, and it sits outside the propagation core itself, which
// stays single-threaded and cooperative.
func PropagateAll(ctx context.Context, tasks []PuzzleTask, maxWorkers int) ([]PuzzleResult, error) {
	pool := batch.NewWorkerPool(maxWorkers)
	defer pool.Shutdown()

	results := make([]PuzzleResult, len(tasks))
	for i, task := range tasks {
		i, task := i, task
		err := pool.Submit(ctx, func() {
			grid, hs := task.Build()
			ok := drainToFixpoint(grid, hs)
			results[i] = PuzzleResult{Index: i, Grid: grid, OK: ok}
		})
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// drainToFixpoint queues every cell once and drains the worklist,
// mirroring cmd/sudokudemo's propagate loop.
func drainToFixpoint(grid *Grid, hs *HandlerSet) bool {
	acc := NewHandlerAccumulator(hs)
	for cell := 0; cell < grid.Shape.NumCells; cell++ {
		acc.AddForCell(cell)
	}
	for {
		idx, ok := acc.Pop()
		if !ok {
			return true
		}
		if !hs.GetAll()[idx].EnforceConsistency(grid, acc) {
			return false
		}
	}
}
