// Package worker renders batches of independent noise maps in parallel.
// Every map still renders in a single pass with its own lattice and random
// source; workers only share the immutable parameters.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Generator renders the map for one task and returns the written path.
type Generator interface {
	Generate(ctx context.Context, task Task) (path string, err error)
}

// Task is one map of a batch.
type Task struct {
	Path string
	Seed int64
}

// Result is the outcome of one task. Path is empty unless the map was written.
type Result struct {
	Task    Task
	Path    string
	Err     error
	Elapsed time.Duration
}

// Cancelled reports whether the map was skipped because the batch context
// ended before it started.
func (r Result) Cancelled() bool {
	return errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded)
}

// Tally counts the finished maps of a batch. Failed and Cancelled are disjoint.
type Tally struct {
	Done      int
	Total     int
	Failed    int
	Cancelled int
}

// Rendered returns the number of maps written successfully.
func (t Tally) Rendered() int {
	return t.Done - t.Failed - t.Cancelled
}

func (t *Tally) add(r Result) {
	t.Done++
	switch {
	case r.Err == nil:
	case r.Cancelled():
		t.Cancelled++
	default:
		t.Failed++
	}
}

// ProgressFunc is called from Run's goroutine after each map finishes.
type ProgressFunc func(Tally)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Generator  Generator
	OnProgress ProgressFunc
}

// Pool renders maps with a fixed number of workers.
type Pool struct {
	workers    int
	generator  Generator
	onProgress ProgressFunc
}

// New creates a pool. Fewer than one worker means one.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers:    workers,
		generator:  cfg.Generator,
		onProgress: cfg.OnProgress,
	}
}

// Run renders every task and returns one Result per task, in task order.
// Once ctx is done, maps that have not started are reported with the
// context error; maps already rendering run to completion.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	pending := make(chan int, len(tasks))
	for i := range tasks {
		pending <- i
	}
	close(pending)

	results := make([]Result, len(tasks))
	finished := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(tasks)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range pending {
				results[i] = p.render(ctx, tasks[i])
				finished <- i
			}
		}()
	}
	go func() {
		wg.Wait()
		close(finished)
	}()

	tally := Tally{Total: len(tasks)}
	for i := range finished {
		tally.add(results[i])
		if p.onProgress != nil {
			p.onProgress(tally)
		}
	}
	return results
}

func (p *Pool) render(ctx context.Context, task Task) Result {
	if err := ctx.Err(); err != nil {
		return Result{Task: task, Err: err}
	}
	start := time.Now()
	path, err := p.generator.Generate(ctx, task)
	return Result{
		Task:    task,
		Path:    path,
		Err:     err,
		Elapsed: time.Since(start),
	}
}
