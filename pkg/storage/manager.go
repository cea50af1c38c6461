package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Ext is the extension given to saved photos
const Ext = ".jpg"

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Manager handles file storage operations and duplicate detection
type Manager struct {
	outputDir  string
	downloaded map[string]bool
	mu         sync.RWMutex
}

// NewManager creates a new storage manager
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir:  outputDir,
		downloaded: make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// FileName maps a photo id to its file name inside the output directory
func FileName(photoID string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(photoID, "_"), "_")
	if name == "" {
		name = "photo"
	}
	return name + Ext
}

func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == Ext {
			m.downloaded[entry.Name()] = true
		}
	}

	return nil
}

// Path returns where the photo with the given id is stored
func (m *Manager) Path(photoID string) string {
	return filepath.Join(m.outputDir, FileName(photoID))
}

// IsDownloaded checks if a photo with the given id has already been saved
func (m *Manager) IsDownloaded(photoID string) bool {
	name := FileName(photoID)

	m.mu.RLock()
	known := m.downloaded[name]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(filepath.Join(m.outputDir, name)); err != nil {
		return false
	}
	m.mu.Lock()
	m.downloaded[name] = true
	m.mu.Unlock()
	return true
}

// SavePhoto writes r to the photo's file through a temporary file and a
// rename, so a partial download never shows up under the final name.
func (m *Manager) SavePhoto(r io.Reader, photoID string) (string, int64, error) {
	filename := m.Path(photoID)

	out, err := os.CreateTemp(m.outputDir, filepath.Base(filename)+".*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", 0, fmt.Errorf("failed to save photo data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.downloaded[filepath.Base(filename)] = true
	m.mu.Unlock()

	return filename, n, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetDownloadedCount returns the number of saved photos
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloaded)
}
