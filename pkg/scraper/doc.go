// Package scraper turns search queries into photo sets.
//
// A BrowserSource renders the site's search page through a Renderer (the
// headless browser in production) and runs the extraction pipeline over the
// snapshot. Service wraps a source with query validation, an optional
// generative fallback, a go-cache result cache and request coalescing.
//
//	svc := scraper.NewService(
//	    scraper.NewBrowserSource(manager, cfg.Scrape),
//	    scraper.WithCacheTTL(cfg.Scrape.CacheTTL),
//	)
//	resp, err := svc.Search(ctx, "ocean")
package scraper
