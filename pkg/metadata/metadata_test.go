package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photowall/pkg/models"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	photoPath := filepath.Join(dir, "unsplash-abc.jpg")
	require.NoError(t, os.WriteFile(photoPath, []byte("jpeg"), 0644))

	photo := models.Photo{
		ID:     "unsplash-abc",
		Src:    "https://images.unsplash.com/photo-abc?w=800&q=85",
		Alt:    "A lake",
		Title:  "A lake",
		Aspect: models.AspectLandscape,
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	meta := FromPhoto(photo, "https://images.unsplash.com/photo-abc?w=1920&q=90", 4, at)

	assert.False(t, MetadataExists(photoPath))
	require.NoError(t, meta.Save(photoPath))
	assert.True(t, MetadataExists(photoPath))

	loaded, err := Load(photoPath)
	require.NoError(t, err)
	assert.Equal(t, photo, loaded.Photo())
	assert.Equal(t, int64(4), loaded.FileSize)
	assert.True(t, loaded.DownloadedAt.Equal(at))
	assert.Contains(t, loaded.HDURL, "w=1920")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestCleanOrphanedMetadata(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0644))
	require.NoError(t, FromPhoto(models.Photo{ID: "a"}, "", 1, time.Now()).Save(kept))
	require.NoError(t, FromPhoto(models.Photo{ID: "b"}, "", 1, time.Now()).Save(filepath.Join(dir, "b.jpg")))

	removed, err := CleanOrphanedMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, MetadataExists(kept))
	assert.False(t, MetadataExists(filepath.Join(dir, "b.jpg")))
}
