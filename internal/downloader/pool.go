package downloader

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"gammascope/pkg/logger"
	"gammascope/pkg/models"
	"gammascope/pkg/ratelimit"
	"gammascope/pkg/retry"
	"gammascope/pkg/storage"
)

// ImageJob is one image to fetch into the tree
type ImageJob struct {
	PaintSeed int
	Side      models.Side
	URL       string
}

// Key returns the storage key for the job
func (j ImageJob) Key() storage.Key {
	return storage.Key{PaintSeed: j.PaintSeed, Side: j.Side}
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      ImageJob
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int
	Attempts int
}

// ImageDownloader fetches image bytes
type ImageDownloader interface {
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// PoolOptions tunes a WorkerPool
type PoolOptions struct {
	RetryAttempts int
	Backoff       retry.BackoffStrategy
	Sleep         retry.SleepFunc
	Overwrite     bool
}

// WorkerPool manages concurrent download workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan ImageJob
	resultQueue chan DownloadResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      ImageDownloader
	store       *storage.Manager
	rateLimiter ratelimit.Limiter
	opts        PoolOptions
	logger      logger.Logger
}

// NewWorkerPool creates a new download worker pool bound to ctx
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	client ImageDownloader,
	store *storage.Manager,
	rateLimiter ratelimit.Limiter,
	opts PoolOptions,
	log logger.Logger,
) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if rateLimiter == nil {
		rateLimiter = ratelimit.Unlimited{}
	}
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	if opts.Backoff == nil {
		opts.Backoff = retry.DefaultExponentialBackoff()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan ImageJob, numWorkers*2),
		resultQueue: make(chan DownloadResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		store:       store,
		rateLimiter: rateLimiter,
		opts:        opts,
		logger:      log.WithField("component", "downloader"),
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue, waits for the workers and closes Results
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Submit adds a job to the queue
func (wp *WorkerPool) Submit(job ImageJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the result channel for consuming download results
func (wp *WorkerPool) Results() <-chan DownloadResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			// drain so Stop does not block on a cancelled run
			for range wp.jobQueue {
			}
			return
		}
	}
}

func (wp *WorkerPool) processJob(job ImageJob, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}

	if err := wp.ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	if !wp.opts.Overwrite && wp.store.IsDownloaded(job.Key()) {
		result.Success = true
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	data, err := retry.DoWithResult(func() ([]byte, error) {
		result.Attempts++
		if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
			return nil, err
		}
		return wp.client.DownloadImage(wp.ctx, job.URL)
	}, &retry.Config{
		MaxAttempts: wp.opts.RetryAttempts,
		Backoff:     wp.opts.Backoff,
		RetryIf:     retry.DefaultRetryIf,
		Context:     wp.ctx,
		Logger:      wp.logger,
		Sleep:       wp.opts.Sleep,
	})
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.WithError(err).WarnWithFields("Image download failed", map[string]interface{}{
			"worker_id":  workerID,
			"paint_seed": job.PaintSeed,
			"side":       job.Side,
			"attempts":   result.Attempts,
		})
		return result
	}

	result.Size = len(data)

	if err := wp.store.SaveImage(bytes.NewReader(data), job.Key()); err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.WithError(err).ErrorWithFields("Failed to save image", map[string]interface{}{
			"worker_id":  workerID,
			"paint_seed": job.PaintSeed,
			"side":       job.Side,
			"size":       result.Size,
		})
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("Image saved", map[string]interface{}{
		"worker_id":  workerID,
		"paint_seed": job.PaintSeed,
		"side":       job.Side,
		"size":       result.Size,
		"duration":   result.Duration,
	})

	return result
}

// GetQueueSize returns the current number of jobs in the queue
func (wp *WorkerPool) GetQueueSize() int {
	return len(wp.jobQueue)
}
