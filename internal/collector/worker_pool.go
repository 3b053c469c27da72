package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ppiankov/xlspectre/internal/models"
)

// fileResult carries everything one workbook produced.
type fileResult struct {
	file    FileRef
	records []models.ConnectionRecord
	errors  []models.ErrorRecord
}

// processFunc does the per-file work: extract, normalize, classify.
type processFunc func(ctx context.Context, file FileRef) fileResult

// WorkerPool manages concurrent processing of workbook files.
type WorkerPool struct {
	workers int
	process processFunc
	jobs    chan FileRef
	results chan fileResult
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(workers int, process processFunc) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		process: process,
		jobs:    make(chan FileRef, workers*2),
		results: make(chan fileResult, workers*2),
	}
}

// Start starts the worker pool.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker processes jobs from the job queue.
func (p *WorkerPool) worker(id int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker panic recovered",
				slog.Int("worker_id", id),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
		p.wg.Done()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.results <- p.process(p.ctx, job)
		}
	}
}

// Submit submits a file to the worker pool. Returns false once the pool's
// context is cancelled; callers stop scheduling new files then.
func (p *WorkerPool) Submit(file FileRef) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- file:
		return true
	}
}

// Results returns the results channel.
func (p *WorkerPool) Results() <-chan fileResult {
	return p.results
}

// Stop stops the worker pool and waits for all workers to finish.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	close(p.results)

	if p.cancel != nil {
		p.cancel()
	}

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
}
