// Package retry re-issues failed operations with backoff.
//
// Nothing in photowall retries on its own. The remote search client wraps
// its request in Do when the config asks for more than one attempt:
//
//	cfg := retry.FromConfig(appCfg.Retry)
//	resp, err := retry.DoWithResult(ctx, func(ctx context.Context) (*models.SearchResponse, error) {
//		return c.searchOnce(ctx, query)
//	}, cfg)
//
// Only ingestion failures coded network or timeout, and rate limiting, are
// considered transient by DefaultRetryIf.
package retry
