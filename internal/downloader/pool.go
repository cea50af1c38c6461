package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"photowall/pkg/hd"
	"photowall/pkg/logger"
	"photowall/pkg/metadata"
	"photowall/pkg/models"
	"photowall/pkg/ratelimit"
)

// DownloadJob is one HD photo to fetch
type DownloadJob struct {
	Photo models.Photo
	// URL is the HD source; NewJob fills it from the photo
	URL   string
	Query string
}

// NewJob builds the job that downloads photo in high resolution
func NewJob(photo models.Photo, query string) DownloadJob {
	return DownloadJob{Photo: photo, URL: hd.URL(photo), Query: query}
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Skipped  bool
	Path     string
	Error    error
	Duration time.Duration
	Size     int64
}

// PhotoDownloader fetches raw bytes
type PhotoDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// PhotoStorage stores photos by id
type PhotoStorage interface {
	IsDownloaded(photoID string) bool
	SavePhoto(r io.Reader, photoID string) (string, int64, error)
}

// WorkerPool manages concurrent download workers
type WorkerPool struct {
	numWorkers     int
	jobQueue       chan DownloadJob
	resultQueue    chan DownloadResult
	wg             sync.WaitGroup
	mu             sync.RWMutex
	stopped        bool
	ctx            context.Context
	cancel         context.CancelFunc
	client         PhotoDownloader
	storageManager PhotoStorage
	rateLimiter    ratelimit.Limiter
	now            func() time.Time
	onResult       func(DownloadResult)
	logger         logger.Logger
}

// NewWorkerPool creates a new download worker pool. rateLimiter may be nil.
func NewWorkerPool(
	numWorkers int,
	client PhotoDownloader,
	storageManager PhotoStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &WorkerPool{
		numWorkers:     numWorkers,
		jobQueue:       make(chan DownloadJob, numWorkers*2),
		resultQueue:    make(chan DownloadResult, numWorkers),
		ctx:            ctx,
		cancel:         cancel,
		client:         client,
		storageManager: storageManager,
		rateLimiter:    rateLimiter,
		now:            time.Now,
		logger:         log.WithField("component", "downloader"),
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

// Stop lets queued jobs finish, then closes Results. Calling it twice is safe.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Info("Worker pool stopped")
}

// Abort cancels in-flight downloads and stops the pool
func (wp *WorkerPool) Abort() {
	wp.cancel()
	wp.Stop()
}

// Submit adds a new download job to the queue
func (wp *WorkerPool) Submit(job DownloadJob) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.stopped {
		return fmt.Errorf("worker pool is shutting down")
	}

	select {
	case wp.jobQueue <- job:
		wp.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
			"photo_id": job.Photo.ID,
		})
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
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
			wp.logger.DebugWithFields("Worker stopping - context cancelled while sending result", map[string]interface{}{
				"worker_id": id,
			})
			return
		}
	}
}

func (wp *WorkerPool) processJob(job DownloadJob, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}
	id := job.Photo.ID

	finish := func(err error) DownloadResult {
		result.Error = err
		result.Success = err == nil
		result.Duration = time.Since(start)
		logger.LogDownload(id, result.Path, err)
		return result
	}

	if wp.ctx.Err() != nil {
		return finish(fmt.Errorf("download cancelled: %w", wp.ctx.Err()))
	}

	if wp.storageManager.IsDownloaded(id) {
		wp.logger.DebugWithFields("Photo already downloaded", map[string]interface{}{
			"worker_id": workerID,
			"photo_id":  id,
		})
		result.Skipped = true
		return finish(nil)
	}

	if wp.rateLimiter != nil && !wp.rateLimiter.Allow() {
		if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
			return finish(fmt.Errorf("download cancelled: %w", err))
		}
	}

	url := job.URL
	if url == "" {
		url = hd.URL(job.Photo)
	}
	data, err := wp.client.Download(wp.ctx, url)
	if err != nil {
		return finish(fmt.Errorf("download failed: %w", err))
	}

	path, size, err := wp.storageManager.SavePhoto(bytes.NewReader(data), id)
	if err != nil {
		return finish(fmt.Errorf("save failed: %w", err))
	}
	result.Path = path
	result.Size = size

	if path != "" {
		meta := metadata.FromPhoto(job.Photo, url, size, wp.now())
		meta.Query = job.Query
		if err := meta.Save(path); err != nil {
			wp.logger.WarnWithFields("Failed to write sidecar", map[string]interface{}{
				"photo_id": id,
				"error":    err.Error(),
			})
		}
	}

	return finish(nil)
}

// DownloadAll runs jobs for photos through a started pool, then stops it.
// Results come back in completion order.
func (wp *WorkerPool) DownloadAll(photos []models.Photo, query string) []DownloadResult {
	go func() {
		defer wp.Stop()
		for _, p := range photos {
			if err := wp.Submit(NewJob(p, query)); err != nil {
				return
			}
		}
	}()

	results := make([]DownloadResult, 0, len(photos))
	for r := range wp.Results() {
		if wp.onResult != nil {
			wp.onResult(r)
		}
		results = append(results, r)
	}
	return results
}

// OnResult registers fn to observe each result collected by DownloadAll.
// It must be set before DownloadAll is called.
func (wp *WorkerPool) OnResult(fn func(DownloadResult)) {
	wp.onResult = fn
}

// GetQueueSize returns the current number of jobs in the queue
func (wp *WorkerPool) GetQueueSize() int {
	return len(wp.jobQueue)
}
