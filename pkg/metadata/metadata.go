package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"photowall/pkg/models"
)

// PhotoMetadata is the JSON sidecar written next to a downloaded photo
type PhotoMetadata struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Alt    string        `json:"alt"`
	Aspect models.Aspect `json:"aspectRatio"`

	// Src is the URL shown on the wall, HDURL the one actually downloaded
	Src   string `json:"src"`
	HDURL string `json:"hd_url"`

	FileSize     int64     `json:"file_size"`
	DownloadedAt time.Time `json:"downloaded_at"`
	Query        string    `json:"query,omitempty"`
}

// FromPhoto builds the sidecar for a photo saved from hdURL
func FromPhoto(photo models.Photo, hdURL string, fileSize int64, downloadedAt time.Time) *PhotoMetadata {
	return &PhotoMetadata{
		ID:           photo.ID,
		Title:        photo.Title,
		Alt:          photo.Alt,
		Aspect:       photo.Aspect,
		Src:          photo.Src,
		HDURL:        hdURL,
		FileSize:     fileSize,
		DownloadedAt: downloadedAt,
	}
}

// Photo returns the wall record the sidecar was written for
func (m *PhotoMetadata) Photo() models.Photo {
	return models.Photo{ID: m.ID, Src: m.Src, Alt: m.Alt, Title: m.Title, Aspect: m.Aspect}
}

// Save writes the metadata to photoPath + ".json"
func (m *PhotoMetadata) Save(photoPath string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(photoPath+".json", data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}

// Load reads metadata from a JSON file
func Load(photoPath string) (*PhotoMetadata, error) {
	data, err := os.ReadFile(photoPath + ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta PhotoMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &meta, nil
}

// MetadataExists checks if metadata file exists for a photo
func MetadataExists(photoPath string) bool {
	_, err := os.Stat(photoPath + ".json")
	return err == nil
}

// CleanOrphanedMetadata removes sidecars whose photo is gone and returns
// how many were removed.
func CleanOrphanedMetadata(directory string) (int, error) {
	removed := 0
	err := filepath.WalkDir(directory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		photoPath := path[:len(path)-len(".json")]
		if _, err := os.Stat(photoPath); os.IsNotExist(err) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove orphaned metadata %s: %w", path, err)
			}
			removed++
		}
		return nil
	})
	return removed, err
}
