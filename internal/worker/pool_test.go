package worker

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generatorFunc adapts a function to the Generator interface.
type generatorFunc func(ctx context.Context, task Task) (string, error)

func (f generatorFunc) Generate(ctx context.Context, task Task) (string, error) {
	return f(ctx, task)
}

func writePath(_ context.Context, task Task) (string, error) {
	return task.Path, nil
}

func TestPool_ResultsFollowTaskOrder(t *testing.T) {
	tasks := SeedTasks("maps", 1, 6)

	// later seeds finish first
	gen := generatorFunc(func(ctx context.Context, task Task) (string, error) {
		time.Sleep(time.Duration(7-task.Seed) * 5 * time.Millisecond)
		return task.Path, nil
	})

	results := New(Config{Workers: 3, Generator: gen}).Run(context.Background(), tasks)

	require.Len(t, results, len(tasks))
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, tasks[i], r.Task)
		assert.Equal(t, tasks[i].Path, r.Path)
	}
}

func TestPool_FailedSeedDoesNotStopBatch(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, task Task) (string, error) {
		if task.Seed == 12 {
			return "", errors.New("disk full")
		}
		return task.Path, nil
	})

	var last Tally
	pool := New(Config{
		Workers:    2,
		Generator:  gen,
		OnProgress: func(t Tally) { last = t },
	})
	results := pool.Run(context.Background(), SeedTasks("maps", 10, 4))

	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.EqualError(t, results[2].Err, "disk full")
	assert.False(t, results[2].Cancelled())
	assert.Empty(t, results[2].Path)
	assert.NoError(t, results[3].Err)

	assert.Equal(t, Tally{Done: 4, Total: 4, Failed: 1}, last)
	assert.Equal(t, 3, last.Rendered())
}

func TestPool_CancelledMapsKeepTheirTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	gen := generatorFunc(func(_ context.Context, task Task) (string, error) {
		calls.Add(1)
		cancel()
		return task.Path, nil
	})

	tasks := SeedTasks("maps", 7, 4)
	progress := NewProgress(len(tasks), false)
	results := New(Config{
		Workers:    1,
		Generator:  gen,
		OnProgress: progress.Callback(),
	}).Run(ctx, tasks)

	require.Len(t, results, 4)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, results[0].Err)
	assert.Equal(t, filepath.Join("maps", "noise_7.png"), results[0].Path)

	for i, r := range results[1:] {
		task := tasks[i+1]
		assert.True(t, r.Cancelled(), "seed %d", task.Seed)
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Equal(t, task.Seed, r.Task.Seed)
		assert.Equal(t, task.Path, r.Task.Path)
		assert.Empty(t, r.Path)
		assert.Zero(t, r.Elapsed)
	}

	summary := progress.Summary()
	assert.True(t, strings.HasPrefix(summary, "Rendered 1/4 maps (0 failed, 3 cancelled)"), summary)
}

func TestPool_CancelledBeforeRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	gen := generatorFunc(func(ctx context.Context, task Task) (string, error) {
		calls.Add(1)
		return task.Path, nil
	})

	results := New(Config{Workers: 4, Generator: gen}).Run(ctx, SeedTasks("maps", 0, 5))

	require.Len(t, results, 5)
	assert.Zero(t, calls.Load())
	for _, r := range results {
		assert.True(t, r.Cancelled())
	}
}

func TestPool_WorkerLimit(t *testing.T) {
	tests := []struct {
		workers int
		want    int32
	}{
		{workers: 0, want: 1},
		{workers: 2, want: 2},
		{workers: 16, want: 6},
	}

	for _, tt := range tests {
		var inFlight, peak atomic.Int32
		gen := generatorFunc(func(ctx context.Context, task Task) (string, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			return task.Path, nil
		})

		New(Config{Workers: tt.workers, Generator: gen}).Run(context.Background(), SeedTasks("maps", 1, 6))
		assert.LessOrEqual(t, peak.Load(), tt.want, "workers=%d", tt.workers)
	}
}

func TestPool_ProgressCountsEveryMap(t *testing.T) {
	var done []int
	pool := New(Config{
		Workers:   3,
		Generator: generatorFunc(writePath),
		OnProgress: func(t Tally) {
			done = append(done, t.Done)
		},
	})

	pool.Run(context.Background(), SeedTasks("maps", 1, 5))

	assert.Equal(t, []int{1, 2, 3, 4, 5}, done)
}

func TestPool_EmptyTasks(t *testing.T) {
	var calls atomic.Int32
	gen := generatorFunc(func(ctx context.Context, task Task) (string, error) {
		calls.Add(1)
		return "", nil
	})

	assert.Empty(t, New(Config{Generator: gen}).Run(context.Background(), nil))
	assert.Zero(t, calls.Load())
}

func TestSeedTasks(t *testing.T) {
	tasks := SeedTasks("out", -1, 3)

	require.Len(t, tasks, 3)
	assert.Equal(t, Task{Seed: -1, Path: filepath.Join("out", "noise_-1.png")}, tasks[0])
	assert.Equal(t, Task{Seed: 0, Path: filepath.Join("out", "noise_0.png")}, tasks[1])
	assert.Equal(t, Task{Seed: 1, Path: filepath.Join("out", "noise_1.png")}, tasks[2])

	assert.Empty(t, SeedTasks("out", 5, 0))
}
