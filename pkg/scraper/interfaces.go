package scraper

import (
	"context"

	"photowall/pkg/extract"
	"photowall/pkg/models"
)

// Renderer renders a page and returns the images matching selector.
// browser.Manager implements it.
type Renderer interface {
	Snapshot(ctx context.Context, pageURL, selector string) (extract.Document, error)
}

// Source produces photos for a trimmed, non-empty query.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]models.Photo, error)
}

// Searcher answers raw user queries. Service and client.Client implement it.
type Searcher interface {
	Search(ctx context.Context, query string) (*models.SearchResponse, error)
}
