// Package concurrent provides a worker pool for fanning a batch CLI
// command out over many image files concurrently. It is a distinct
// concern from pkg/engine's per-image row partitioning: this pool
// dispatches whole files to goroutines, each of which submits one job to
// a shared *engine.Engine and lets the engine partition the rows.
package concurrent

import (
	"context"
	"sync"

	"github.com/MBatuhanOzer/filter/pkg/logger"
)

// Task represents one file-level unit of work to be processed.
type Task interface {
	Process(ctx context.Context) error
	ID() string
}

// Result wraps the outcome of one task's execution.
type Result struct {
	TaskID string
	Error  error
}

// WorkerPool fans a stream of Tasks out across a fixed number of
// goroutines.
type WorkerPool struct {
	workers   int
	taskQueue chan Task
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewWorkerPool creates a pool with the given number of workers (clamped
// to at least 1) and a queue buffered for workers*2 pending tasks.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workers:   workers,
		taskQueue: make(chan Task, workers*2),
		results:   make(chan Result, workers*2),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start spawns the pool's worker goroutines.
func (p *WorkerPool) Start() {
	logger.Debugf("starting batch worker pool: workers=%d", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			err := task.Process(p.ctx)
			if err != nil {
				logger.Errorf("batch task %s failed: %v", task.ID(), err)
			}
			p.results <- Result{TaskID: task.ID(), Error: err}
		case <-p.ctx.Done():
			return
		}
	}
}

// Submit enqueues a task, or drops it if the pool is shutting down.
func (p *WorkerPool) Submit(task Task) {
	select {
	case p.taskQueue <- task:
	case <-p.ctx.Done():
		logger.Warnf("batch pool shutting down, dropping task %s", task.ID())
	}
}

// Results returns the channel of completed task outcomes.
func (p *WorkerPool) Results() <-chan Result {
	return p.results
}

// Wait closes the task queue, waits for every worker to drain it, then
// closes the results channel so a `for range Results()` loop terminates.
func (p *WorkerPool) Wait() {
	close(p.taskQueue)
	p.wg.Wait()
	close(p.results)
}

// Shutdown cancels outstanding work immediately instead of draining the
// queue, then waits for workers to observe the cancellation and exit.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	close(p.taskQueue)
	p.wg.Wait()
	close(p.results)
}

// RunBatch submits every task to a pool sized to min(workers, len(tasks)),
// waits for them all, and returns their results in completion order (not
// submission order — callers that need per-task outcomes should read
// Result.TaskID).
func RunBatch(tasks []Task, workers int) []Result {
	if len(tasks) == 0 {
		return nil
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	pool := NewWorkerPool(workers)
	pool.Start()

	go func() {
		for _, t := range tasks {
			pool.Submit(t)
		}
		pool.Wait()
	}()

	results := make([]Result, 0, len(tasks))
	for r := range pool.Results() {
		results = append(results, r)
	}
	return results
}
