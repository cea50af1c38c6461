package extract

import (
	"encoding/json"
	"fmt"
)

// SnapshotScript runs in the page and serialises every candidate image.
// The selector is passed as the first argument.
const SnapshotScript = `(selector) => JSON.stringify(
	Array.from(document.querySelectorAll(selector)).map((img) => ({
		src: img.getAttribute('src') || '',
		alt: img.getAttribute('alt') || '',
		hasAlt: img.hasAttribute('alt'),
		width: img.naturalWidth || img.width || 0,
		height: img.naturalHeight || img.height || 0,
	}))
)`

// DecodeSnapshot parses the output of SnapshotScript.
func DecodeSnapshot(raw string) (Images, error) {
	var images Images
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return images, nil
}
