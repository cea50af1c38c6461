package scraper

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"photowall/pkg/config"
	"photowall/pkg/errors"
	"photowall/pkg/extract"
	"photowall/pkg/logger"
	"photowall/pkg/models"
)

// ErrEmptyQuery is returned for blank queries before any work is done.
var ErrEmptyQuery = errors.NewPrecondition("Query parameter is required")

// BrowserSource scrapes the search page of the configured site.
type BrowserSource struct {
	renderer Renderer
	cfg      config.ScrapeConfig
	opts     extract.Options
}

// NewBrowserSource creates a source that renders pages with r.
func NewBrowserSource(r Renderer, cfg config.ScrapeConfig) *BrowserSource {
	return &BrowserSource{
		renderer: r,
		cfg:      cfg,
		opts:     extract.OptionsFromConfig(cfg),
	}
}

func (s *BrowserSource) Name() string { return "browser" }

// SearchURL returns the search page for query.
func (s *BrowserSource) SearchURL(query string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/s/photos/" + url.PathEscape(query)
}

// Search renders the search page and extracts its photos.
func (s *BrowserSource) Search(ctx context.Context, query string) ([]models.Photo, error) {
	doc, err := s.renderer.Snapshot(ctx, s.SearchURL(query), s.cfg.Selector)
	if err != nil {
		return nil, asIngestion(err)
	}
	return extract.Extract(doc, s.opts), nil
}

// Service answers searches from a primary source, an optional fallback and
// a result cache. Concurrent searches for the same query share one fetch.
type Service struct {
	primary  Source
	fallback Source
	cache    *cache.Cache
	ttl      time.Duration
	timeout  time.Duration
	group    singleflight.Group
	log      logger.Logger
}

// DefaultTimeout bounds a shared fetch when no timeout option is given.
const DefaultTimeout = 2 * time.Minute

// Option configures a Service.
type Option func(*Service)

// WithFallback answers from src when the primary source fails.
func WithFallback(src Source) Option {
	return func(s *Service) { s.fallback = src }
}

// WithCacheTTL caches primary results for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithTimeout bounds each fetch. A fetch outlives the callers waiting on it
// but never this timeout. Zero keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a search service over primary.
func NewService(primary Source, opts ...Option) *Service {
	s := &Service{
		primary: primary,
		timeout: DefaultTimeout,
		log:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl > 0 {
		s.cache = cache.New(s.ttl, 2*s.ttl)
	}
	s.log = s.log.WithField("component", "search")
	return s
}

type outcome struct {
	photos []models.Photo
	source string
}

// Search validates query and returns its photos. A blank query is a
// precondition error; source failures without a fallback are ingestion
// errors. Nothing is retried.
func (s *Service) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	key := strings.ToLower(q)

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			photos := v.([]models.Photo)
			s.log.WithField("query", q).Debug("Search served from cache")
			return respond(q, photos), nil
		}
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.fetch(fctx, q)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.log.WithField("query", q).Debug("Search shared with concurrent request")
		}
		return respond(q, res.Val.(outcome).photos), nil
	case <-ctx.Done():
		s.log.WithField("query", q).Debug("Search abandoned by caller")
		return nil, asIngestion(ctx.Err())
	}
}

// fetch runs detached from any single caller, so only its own timeout ends it.
func (s *Service) fetch(ctx context.Context, q string) (outcome, error) {
	photos, err := s.primary.Search(ctx, q)
	if err == nil {
		logger.LogSearchTo(s.log, q, s.primary.Name(), len(photos), nil)
		if s.cache != nil && len(photos) > 0 {
			s.cache.SetDefault(strings.ToLower(q), photos)
		}
		return outcome{photos: photos, source: s.primary.Name()}, nil
	}

	logger.LogSearchTo(s.log, q, s.primary.Name(), 0, err)
	if s.fallback == nil {
		return outcome{}, asIngestion(err)
	}

	photos, ferr := s.fallback.Search(ctx, q)
	if ferr != nil {
		return outcome{}, asIngestion(stderrors.Join(err, ferr))
	}
	logger.LogSearchTo(s.log, q, s.fallback.Name(), len(photos), nil)
	return outcome{photos: photos, source: s.fallback.Name()}, nil
}

// Flush drops cached results.
func (s *Service) Flush() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

func respond(q string, photos []models.Photo) *models.SearchResponse {
	if photos == nil {
		photos = []models.Photo{}
	}
	return &models.SearchResponse{Query: q, Count: len(photos), Photos: photos}
}

// asIngestion keeps typed errors and wraps anything else as a network
// failure. Cancellation is never retryable.
func asIngestion(err error) error {
	var typed *errors.Error
	if stderrors.As(err, &typed) {
		return err
	}
	code := errors.CodeNetwork
	switch {
	case stderrors.Is(err, context.Canceled):
		code = errors.CodeCanceled
	case stderrors.Is(err, context.DeadlineExceeded):
		code = errors.CodeTimeout
	}
	return errors.NewIngestion(code, "search source failed", err)
}
