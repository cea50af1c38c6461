package browser

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"photowall/pkg/errors"
	"photowall/pkg/extract"
)

// scrollScript scrolls by step every interval ms until the page end or past
// limit px, so lazily loaded images get requested.
const scrollScript = `(step, interval, limit) => new Promise((resolve) => {
	let total = 0;
	const timer = setInterval(() => {
		const scrollHeight = document.body.scrollHeight;
		window.scrollBy(0, step);
		total += step;
		if (total >= scrollHeight || total > limit) {
			clearInterval(timer);
			resolve(total);
		}
	}, interval);
})`

// Snapshot renders pageURL in a fresh stealth tab, scrolls it, and returns
// every image matching selector. All failures are ingestion errors.
func (m *Manager) Snapshot(ctx context.Context, pageURL, selector string) (extract.Document, error) {
	b := m.Browser()
	if b == nil {
		return nil, errors.NewIngestion(errors.CodeNetwork, "browser is not running", nil)
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, errors.NewIngestion(errors.CodeNavigation, "failed to open tab", err)
	}
	defer page.Close()

	cfg := m.cfg
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, errors.NewIngestion(errors.CodeNavigation, "failed to set viewport", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
	}); err != nil {
		return nil, errors.NewIngestion(errors.CodeNavigation, "failed to set user agent", err)
	}
	if cfg.AcceptLanguage != "" {
		cleanup, err := page.SetExtraHeaders([]string{"Accept-Language", cfg.AcceptLanguage})
		if err != nil {
			return nil, errors.NewIngestion(errors.CodeNavigation, "failed to set headers", err)
		}
		defer cleanup()
	}

	log := m.log.WithField("url", pageURL)
	started := time.Now()

	navCtx, cancel := context.WithTimeout(ctx, cfg.NavigationTimeout)
	defer cancel()
	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, classify(errors.CodeNavigation, "failed to load search page", err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		log.WithError(err).Warn("Page load wait ended early")
	}

	if _, err := page.Context(ctx).Timeout(cfg.SelectorTimeout).Element(selector); err != nil {
		return nil, classify(errors.CodeSelector, "no photos appeared on the page", err)
	}

	if _, err := page.Context(ctx).Eval(scrollScript, cfg.ScrollStep, cfg.ScrollInterval.Milliseconds(), cfg.ScrollLimit); err != nil {
		return nil, classify(errors.CodeNavigation, "failed to scroll page", err)
	}

	if err := sleep(ctx, cfg.LazyLoadWait); err != nil {
		return nil, classify(errors.CodeCanceled, "search cancelled", err)
	}

	res, err := page.Context(ctx).Eval(extract.SnapshotScript, selector)
	if err != nil {
		return nil, classify(errors.CodeNavigation, "failed to read images", err)
	}
	images, err := extract.DecodeSnapshot(res.Value.Str())
	if err != nil {
		return nil, errors.NewIngestion(errors.CodeDecode, "failed to decode page snapshot", err)
	}

	log.InfoWithFields("Page snapshot taken", map[string]interface{}{
		"images":   len(images),
		"duration": time.Since(started),
	})
	return images, nil
}

// classify turns deadline failures into timeout errors, cancellation into
// canceled errors and keeps code otherwise.
func classify(code, message string, err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		code = errors.CodeTimeout
	case stderrors.Is(err, context.Canceled):
		code = errors.CodeCanceled
	}
	return errors.NewIngestion(code, message, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
