package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tim-richter/spinne/pkg/extractor"
	"github.com/tim-richter/spinne/pkg/util"
)

// FileJob is a file submitted to the worker pool for extraction.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileOutcome is the extraction result for a file.
type FileOutcome struct {
	FilePath string
	Result   *extractor.FileResult
	JobID    int
}

// FileError is a per-file failure surfaced through the errors channel.
type FileError struct {
	FilePath string
	Err      error
}

// WorkerPool processes files in parallel through the extractor.
//
//   - Goroutine workers fed by a buffered jobs channel
//   - Separate result and error channels
//   - Worker count matches the parser pool size so workers never block
//     waiting for a parser
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan FileOutcome
	errors     chan FileError
	wg         sync.WaitGroup
	extract    *extractor.Extractor
	files      *util.FileCache
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool
}

// NewWorkerPool creates a worker pool. numWorkers = 0 auto-detects the size
// shared with the parser pools.
func NewWorkerPool(numWorkers int, extract *extractor.Extractor, files *util.FileCache, logger *slog.Logger) *WorkerPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileOutcome, numWorkers),
		errors:     make(chan FileError, numWorkers),
		extract:    extract,
		files:      files,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	content, err := wp.files.Read(job.FilePath)
	if err != nil {
		wp.sendError(FileError{
			FilePath: job.FilePath,
			Err:      fmt.Errorf("failed to read file: %w", err),
		})
		return
	}

	result, err := wp.extract.ExtractFile(job.FilePath, content)
	if err != nil {
		wp.sendError(FileError{FilePath: job.FilePath, Err: err})
		return
	}

	wp.logger.Debug("extracted file",
		"worker_id", workerID,
		"file", job.FilePath,
		"usages", len(result.Usages))

	// Sends race against cancellation: once the collector is gone nobody
	// drains the channels, so a plain send would wedge Stop.
	select {
	case wp.results <- FileOutcome{FilePath: job.FilePath, Result: result, JobID: job.JobID}:
	case <-wp.ctx.Done():
	}
}

func (wp *WorkerPool) sendError(fileErr FileError) {
	select {
	case wp.errors <- fileErr:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues a job. Blocks if the jobs channel is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan FileOutcome {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel so workers exit when it drains.
// Idempotent.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Stop shuts the pool down: closes the jobs channel if needed, waits for
// in-flight jobs, then closes the result and error channels. Idempotent.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}

	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)
	wp.cancel()
}
