package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ctp/internal/config"
	"ctp/internal/domain"
	"ctp/internal/harness"
	"ctp/internal/ui"
)

// errStop cancels the remaining work once a case fails in fail-fast mode
var errStop = errors.New("stop after first failure")

var _ Executor = (*WorkerPool)(nil)

// WorkerPool manages a pool of workers for parallel case execution
type WorkerPool struct {
	config   *config.Config
	runner   *Runner
	progress *ui.ProgressBar
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner) *WorkerPool {
	return &WorkerPool{
		config: cfg,
		runner: runner,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute executes cases in parallel using the worker pool, honouring the fail-fast flag
func (wp *WorkerPool) Execute(ctx context.Context, cases []harness.Case) ([]domain.CaseResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, cases, wp.config.Flags.FailFast)
}

// ExecuteWithOptions executes cases with optional fail-fast (stop on first failure).
// Results come back in the order of cases; in fail-fast mode cases that never ran are absent.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, cases []harness.Case, failFast bool) ([]domain.CaseResult, time.Duration, error) {
	if len(cases) == 0 {
		return nil, 0, nil
	}
	if !failFast {
		return wp.executeAll(ctx, cases)
	}
	return wp.executeFailFast(ctx, cases)
}

func (wp *WorkerPool) workerCount(cases int) int {
	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > cases {
		workerCount = cases
	}
	return workerCount
}

// tally tracks completed cases for the progress bar
type tally struct {
	mu       sync.Mutex
	progress *ui.ProgressBar
	passed   int
	failed   int
	stopped  bool
}

// record counts a result and reports whether it should be kept
func (t *tally) record(result domain.CaseResult, failFast bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	if result.Passed {
		t.passed++
	} else {
		t.failed++
		t.stopped = failFast
	}
	t.progress.Update(t.passed, t.failed)
	return true
}

// executeAll runs every case.
func (wp *WorkerPool) executeAll(ctx context.Context, cases []harness.Case) ([]domain.CaseResult, time.Duration, error) {
	queue := make(chan int, len(cases))
	for i := range cases {
		queue <- i
	}
	close(queue)

	results := make([]domain.CaseResult, len(cases))
	t := &tally{progress: wp.progress}
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 1; i <= wp.workerCount(len(cases)); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for index := range queue {
				result := wp.runner.Run(ctx, cases[index], workerID)
				results[index] = result
				t.record(result, false)
			}
		}(i)
	}
	wg.Wait()

	wp.progress.Finish()
	return results, time.Since(startTime), ctx.Err()
}

// executeFailFast runs cases and stops after the first failure.
// Cases already running when the failure is seen finish, but their results are dropped.
func (wp *WorkerPool) executeFailFast(ctx context.Context, cases []harness.Case) ([]domain.CaseResult, time.Duration, error) {
	g, gctx := errgroup.WithContext(ctx)

	queue := make(chan int)
	g.Go(func() error {
		defer close(queue)
		for i := range cases {
			select {
			case <-gctx.Done():
				return nil
			case queue <- i:
			}
		}
		return nil
	})

	results := make([]domain.CaseResult, len(cases))
	kept := make([]bool, len(cases))
	t := &tally{progress: wp.progress}
	startTime := time.Now()

	for i := 1; i <= wp.workerCount(len(cases)); i++ {
		workerID := i
		g.Go(func() error {
			for index := range queue {
				result := wp.runner.Run(ctx, cases[index], workerID)
				if !t.record(result, true) {
					continue
				}
				results[index] = result
				kept[index] = true
				if !result.Passed {
					return errStop
				}
			}
			return nil
		})
	}

	err := g.Wait()
	wp.progress.Finish()
	if errors.Is(err, errStop) {
		err = nil
	}
	if err == nil {
		err = ctx.Err()
	}

	var ran []domain.CaseResult
	for i, ok := range kept {
		if ok {
			ran = append(ran, results[i])
		}
	}
	return ran, time.Since(startTime), err
}
