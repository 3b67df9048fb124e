package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	counter *atomic.Int64
	fail    bool
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return &countResult{err: errors.New("job failed")}
	}
	return &countResult{}
}

// submitAll feeds jobs from a goroutine and marks the stream done, the
// way callers are expected to drive the pool.
func submitAll(pool *Pool, jobs []Job) {
	go func() {
		for _, job := range jobs {
			pool.Submit(job)
		}
		pool.Done()
	}()
}

// drainWithDeadline fails the test if Wait does not return in time.
func drainWithDeadline(t *testing.T, pool *Pool) []Result {
	t.Helper()

	done := make(chan []Result, 1)
	go func() { done <- pool.Wait() }()

	select {
	case results := <-done:
		return results
	case <-time.After(10 * time.Second):
		t.Fatal("pool did not drain; results backed up behind submission")
		return nil
	}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(context.Background(), 4)
	pool.Start()

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = &countJob{counter: &counter}
	}
	submitAll(pool, jobs)

	results := drainWithDeadline(t, pool)

	if len(results) != 20 {
		t.Errorf("expected 20 results, got %d", len(results))
	}
	if counter.Load() != 20 {
		t.Errorf("expected 20 executions, got %d", counter.Load())
	}
}

func TestPool_ManyMoreJobsThanWorkers(t *testing.T) {
	var counter atomic.Int64

	// 30 jobs on 2 workers overflows both channel buffers; the pool must
	// still complete because results drain while jobs queue.
	pool := NewPool(context.Background(), 2)
	pool.Start()

	jobs := make([]Job, 30)
	for i := range jobs {
		jobs[i] = &countJob{counter: &counter}
	}
	submitAll(pool, jobs)

	results := drainWithDeadline(t, pool)

	if len(results) != 30 {
		t.Errorf("expected 30 results, got %d", len(results))
	}
	if counter.Load() != 30 {
		t.Errorf("expected 30 executions, got %d", counter.Load())
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	pool := NewPool(context.Background(), 0)
	if pool.workers != 1 {
		t.Errorf("expected 1 worker, got %d", pool.workers)
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(context.Background(), 2)
	pool.Start()

	submitAll(pool, []Job{
		&countJob{counter: &counter, fail: true},
		&countJob{counter: &counter},
	})

	results := drainWithDeadline(t, pool)

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
}

func TestPool_ContextCancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var counter atomic.Int64
	pool := NewPool(ctx, 2)
	pool.Start()

	submitAll(pool, []Job{&countJob{counter: &counter}})

	// Workers exit on the canceled context; Wait must still return.
	// The single job may or may not have slipped through before the
	// cancellation was observed.
	results := drainWithDeadline(t, pool)
	if len(results) > 1 {
		t.Errorf("expected at most 1 result after cancellation, got %d", len(results))
	}
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	// Submitting after shutdown must not block or panic.
	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})
	if counter.Load() != 0 {
		t.Error("job must not run after shutdown")
	}
}
