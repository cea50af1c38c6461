package extract

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"photowall/pkg/config"
	"photowall/pkg/models"
)

const (
	defaultAlt = "Unsplash photo"
	fallbackID = "scraped-%d"
)

// Options controls one extraction run.
type Options struct {
	// Host is the substring an image src must contain to be considered.
	Host          string
	MaxPhotos     int
	TargetWidth   int
	TargetQuality int
	// MinWidth rejects sources requesting w<=MinWidth.
	MinWidth int
	IDPrefix string
}

// DefaultOptions matches the stock Unsplash search page.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig().Scrape)
}

func OptionsFromConfig(cfg config.ScrapeConfig) Options {
	return Options{
		Host:          cfg.Host,
		MaxPhotos:     cfg.MaxPhotos,
		TargetWidth:   cfg.TargetWidth,
		TargetQuality: cfg.TargetQuality,
		MinWidth:      cfg.MinWidth,
		IDPrefix:      cfg.IDPrefix,
	}
}

var strictPolicy = bluemonday.StrictPolicy()

// Extract turns the images of doc into photo records, in document order.
//
// Thumbnails are skipped, repeated sources keep their first occurrence, and
// the result is capped at opts.MaxPhotos. A document without qualifying
// images yields an empty slice.
func Extract(doc Document, opts Options) []models.Photo {
	photos := make([]models.Photo, 0, opts.MaxPhotos)
	seen := make(map[string]struct{})

	index := -1
	for _, el := range doc.Images() {
		src, _ := el.Attr("src")
		if opts.Host != "" && !strings.Contains(src, opts.Host) {
			continue
		}
		index++
		if src == "" || IsThumbnail(src, opts.MinWidth) {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}

		if opts.MaxPhotos > 0 && len(photos) >= opts.MaxPhotos {
			break
		}

		src = RewriteQuality(src, opts.TargetWidth, opts.TargetQuality)
		width, height := el.NaturalSize()

		token, ok := PhotoToken(src)
		if !ok {
			token = fmt.Sprintf(fallbackID, index)
		}

		alt, _ := el.Attr("alt")
		alt = cleanText(alt)
		title := alt
		if title == "" {
			title = fmt.Sprintf("Photo %d", index+1)
		}
		if alt == "" {
			alt = defaultAlt
		}

		photos = append(photos, models.Photo{
			ID:     opts.IDPrefix + token,
			Src:    src,
			Alt:    alt,
			Title:  title,
			Aspect: ClassifyAspect(width, height),
		})
	}
	return photos
}

// cleanText strips markup from scraped attribute text.
func cleanText(s string) string {
	s = strictPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(s))
}
