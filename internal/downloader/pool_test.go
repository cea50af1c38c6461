package downloader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photowall/pkg/generative"
	"photowall/pkg/logger"
	"photowall/pkg/metadata"
	"photowall/pkg/models"
	"photowall/pkg/ratelimit"
	"photowall/pkg/storage"
)

// MockClient records which URLs were fetched
type MockClient struct {
	downloadDelay   time.Duration
	downloadError   error
	downloadCounter int32
	mu              sync.Mutex
	urls            []string
}

func (m *MockClient) Download(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&m.downloadCounter, 1)
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()
	if m.downloadDelay > 0 {
		select {
		case <-time.After(m.downloadDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.downloadError != nil {
		return nil, m.downloadError
	}
	return []byte("mock photo data"), nil
}

func (m *MockClient) GetDownloadCount() int {
	return int(atomic.LoadInt32(&m.downloadCounter))
}

// MockStorageManager keeps saved ids in memory
type MockStorageManager struct {
	savedPhotos map[string]bool
	saveError   error
	mu          sync.Mutex
}

func NewMockStorageManager() *MockStorageManager {
	return &MockStorageManager{
		savedPhotos: make(map[string]bool),
	}
}

func (m *MockStorageManager) IsDownloaded(photoID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.savedPhotos[photoID]
}

func (m *MockStorageManager) SavePhoto(r io.Reader, photoID string) (string, int64, error) {
	if m.saveError != nil {
		return "", 0, m.saveError
	}
	n, _ := io.Copy(io.Discard, r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedPhotos[photoID] = true
	return "", n, nil
}

func (m *MockStorageManager) GetSavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.savedPhotos)
}

func testPhoto(i int) models.Photo {
	return models.Photo{
		ID:     fmt.Sprintf("photo-%d", i),
		Src:    fmt.Sprintf("https://example.com/photo%d.jpg", i),
		Aspect: models.AspectSquare,
	}
}

func collect(pool *WorkerPool) (*[]DownloadResult, *sync.WaitGroup) {
	var results []DownloadResult
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			results = append(results, result)
		}
	}()
	return &results, &wg
}

func TestWorkerPoolBasicFunctionality(t *testing.T) {
	mockClient := &MockClient{downloadDelay: 10 * time.Millisecond}
	mockStorage := NewMockStorageManager()
	rateLimiter := ratelimit.NewTokenBucket(100, 100)

	pool := NewWorkerPool(3, mockClient, mockStorage, rateLimiter, logger.NewNopLogger())
	pool.Start()
	results, wg := collect(pool)

	numJobs := 10
	for i := 0; i < numJobs; i++ {
		if err := pool.Submit(NewJob(testPhoto(i), "test")); err != nil {
			t.Errorf("Failed to submit job %d: %v", i, err)
		}
	}

	pool.Stop()
	wg.Wait()

	if len(*results) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(*results))
	}
	for _, result := range *results {
		if !result.Success || result.Skipped {
			t.Errorf("Expected %s to download, got %+v", result.Job.Photo.ID, result)
		}
		if result.Size != int64(len("mock photo data")) {
			t.Errorf("Expected size %d, got %d", len("mock photo data"), result.Size)
		}
	}
	if mockClient.GetDownloadCount() != numJobs {
		t.Errorf("Expected %d download calls, got %d", numJobs, mockClient.GetDownloadCount())
	}
	if mockStorage.GetSavedCount() != numJobs {
		t.Errorf("Expected %d saved photos, got %d", numJobs, mockStorage.GetSavedCount())
	}
}

func TestWorkerPoolWithErrors(t *testing.T) {
	mockClient := &MockClient{downloadError: fmt.Errorf("download error")}
	pool := NewWorkerPool(2, mockClient, NewMockStorageManager(), nil, logger.NewNopLogger())
	pool.Start()
	results, wg := collect(pool)

	numJobs := 5
	for i := 0; i < numJobs; i++ {
		require.NoError(t, pool.Submit(NewJob(testPhoto(i), "")))
	}

	pool.Stop()
	wg.Wait()

	require.Len(t, *results, numJobs)
	for _, result := range *results {
		assert.False(t, result.Success)
		assert.ErrorContains(t, result.Error, "download failed")
	}
}

func TestWorkerPoolSaveError(t *testing.T) {
	mockStorage := NewMockStorageManager()
	mockStorage.saveError = fmt.Errorf("disk full")
	pool := NewWorkerPool(1, &MockClient{}, mockStorage, nil, logger.NewNopLogger())
	pool.Start()

	results := pool.DownloadAll([]models.Photo{testPhoto(1)}, "")
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Error, "save failed")
}

func TestWorkerPoolConcurrency(t *testing.T) {
	mockClient := &MockClient{downloadDelay: 100 * time.Millisecond}
	pool := NewWorkerPool(5, mockClient, NewMockStorageManager(), ratelimit.NewTokenBucket(100, 100), logger.NewNopLogger())
	pool.Start()
	results, wg := collect(pool)

	numJobs := 10
	startTime := time.Now()
	for i := 0; i < numJobs; i++ {
		require.NoError(t, pool.Submit(NewJob(testPhoto(i), "")))
	}

	pool.Stop()
	wg.Wait()

	// 5 workers, 10 jobs of 100ms each
	elapsed := time.Since(startTime)
	expectedTime := 600 * time.Millisecond
	if elapsed > expectedTime {
		t.Errorf("Downloads took too long: %v (expected < %v)", elapsed, expectedTime)
	}
	if len(*results) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(*results))
	}
}

func TestWorkerPoolDuplicateDetection(t *testing.T) {
	mockClient := &MockClient{}
	mockStorage := NewMockStorageManager()
	mockStorage.savedPhotos["photo-1"] = true
	mockStorage.savedPhotos["photo-3"] = true

	pool := NewWorkerPool(2, mockClient, mockStorage, nil, logger.NewNopLogger())
	pool.Start()

	photos := []models.Photo{testPhoto(0), testPhoto(1), testPhoto(2), testPhoto(3)}
	results := pool.DownloadAll(photos, "")

	require.Len(t, results, len(photos))
	skipped := 0
	for _, r := range results {
		assert.True(t, r.Success)
		if r.Skipped {
			skipped++
		}
	}
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 2, mockClient.GetDownloadCount())
	assert.Equal(t, 4, mockStorage.GetSavedCount())
}

func TestJobsFetchHDSource(t *testing.T) {
	mockClient := &MockClient{}
	pool := NewWorkerPool(1, mockClient, NewMockStorageManager(), nil, logger.NewNopLogger())
	pool.Start()

	photo := generative.Generate("nature")[1]
	pool.DownloadAll([]models.Photo{photo}, "nature")

	require.Len(t, mockClient.urls, 1)
	assert.Equal(t, "https://picsum.photos/seed/nature-1/1800/1200", mockClient.urls[0])
}

func TestWorkerPoolWritesSidecar(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewManager(dir)
	require.NoError(t, err)

	pool := NewWorkerPool(2, &MockClient{}, store, nil, logger.NewNopLogger())
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	pool.now = func() time.Time { return fixed }
	pool.Start()

	photo := generative.Generate("ocean view")[0]
	results := pool.DownloadAll([]models.Photo{photo}, "ocean view")
	require.Len(t, results, 1)
	require.NoError(t, results[0].Error)

	path := filepath.Join(dir, "ocean-view-0.jpg")
	assert.Equal(t, path, results[0].Path)
	assert.True(t, store.IsDownloaded(photo.ID))

	meta, err := metadata.Load(path)
	require.NoError(t, err)
	assert.Equal(t, photo.ID, meta.ID)
	assert.Equal(t, "ocean view", meta.Query)
	assert.Equal(t, "https://picsum.photos/seed/ocean-view-0/1200/1800", meta.HDURL)
	assert.True(t, meta.DownloadedAt.Equal(fixed))
}

func TestSubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(1, &MockClient{}, NewMockStorageManager(), nil, logger.NewNopLogger())
	pool.Start()
	pool.Stop()
	pool.Stop()

	assert.Error(t, pool.Submit(NewJob(testPhoto(0), "")))
}

func TestAbortCancelsInFlight(t *testing.T) {
	mockClient := &MockClient{downloadDelay: time.Hour}
	pool := NewWorkerPool(1, mockClient, NewMockStorageManager(), nil, logger.NewNopLogger())
	pool.Start()
	require.NoError(t, pool.Submit(NewJob(testPhoto(0), "")))

	done := make(chan struct{})
	go func() {
		for range pool.Results() {
		}
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	pool.Abort()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("abort did not stop the pool")
	}
}
