package analyzer

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// PoolStats is a snapshot of the pool counters
type PoolStats struct {
	TotalJobs     int64 `json:"total_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	ActiveWorkers int64 `json:"active_workers"`
}

// WorkerPool bounds how many evaluations run at once
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once
	mu       sync.RWMutex
	closed   bool
	done     chan struct{}

	// submitters counts Submit calls that may still send on jobQueue
	submitters sync.WaitGroup

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	activeWorkers atomic.Int64
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
		done:     make(chan struct{}),
	}
}

// Workers returns the number of workers
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start initializes and starts all workers in the pool
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

// worker processes jobs from the job queue
func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		wp.run(job)
	}
}

func (wp *WorkerPool) run(job func()) {
	wp.activeWorkers.Add(1)
	defer func() {
		wp.activeWorkers.Add(-1)
		wp.completedJobs.Add(1)
		wp.wg.Done()
	}()
	job()
}

// Submit queues job, blocking while the queue is full. It reports false
// if ctx ends first or the pool is closed, including while it waits.
func (wp *WorkerPool) Submit(ctx context.Context, job func()) bool {
	wp.mu.RLock()
	if wp.closed {
		wp.mu.RUnlock()
		return false
	}
	wp.submitters.Add(1)
	wp.wg.Add(1)
	wp.mu.RUnlock()
	defer wp.submitters.Done()

	select {
	case wp.jobQueue <- job:
		wp.totalJobs.Add(1)
		return true
	case <-wp.done:
		wp.wg.Done()
		return false
	case <-ctx.Done():
		wp.wg.Done()
		return false
	}
}

// GetStats returns the current counters
func (wp *WorkerPool) GetStats() PoolStats {
	return PoolStats{
		TotalJobs:     wp.totalJobs.Load(),
		CompletedJobs: wp.completedJobs.Load(),
		ActiveWorkers: wp.activeWorkers.Load(),
	}
}

// Wait waits for all submitted jobs to complete
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close stops accepting jobs and releases blocked submitters. Queued jobs
// still run.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.done)
	wp.mu.Unlock()

	// jobQueue is closed only once no submitter can send on it
	wp.submitters.Wait()
	close(wp.jobQueue)
}
