package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"photowall/pkg/browser"
	"photowall/pkg/config"
	"photowall/pkg/generative"
	"photowall/pkg/logger"
	"photowall/pkg/scraper"
	"photowall/pkg/server"
	"photowall/pkg/ui"
)

var (
	serveHost     string
	servePort     int
	serveFallback bool
	serveHeadless bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the photo search API",
	Long: `Run the HTTP search API used by the wall.

  GET /api/search?query=<term>   photos extracted from the rendered search page
  GET /api/health                liveness

Every search renders the configured photo site in headless Chrome, so requests
are throttled per client address. With --fallback, a failed render is answered
with generated placeholder photos instead of an error.`,
	Example: `  # Serve on the default address (127.0.0.1:3001)
  photowall serve

  # Listen on all interfaces and never fail a search
  photowall serve --host 0.0.0.0 --port 8080 --fallback

  # Watch the browser work
  photowall serve --headless=false --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default 127.0.0.1)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default 3001)")
	addBrowserFlags(serveCmd)
}

// addBrowserFlags registers the flags of commands that drive Chrome.
func addBrowserFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&serveFallback, "fallback", false, "answer with generated photos when the browser fails")
	cmd.Flags().BoolVar(&serveHeadless, "headless", true, "run Chrome without a window")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, logger.Options{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintLogo()

	svc, closeBrowser, err := startSearchService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBrowser()

	ui.PrintInfo("Listening", "http://"+cfg.Server.Addr())
	ui.PrintInfo("Source", cfg.Scrape.BaseURL)

	if err := server.New(cfg.Server, cfg.RateLimit, svc).Run(ctx); err != nil {
		return err
	}
	ui.PrintSuccess("Server stopped")
	return nil
}

// startSearchService launches Chrome and builds the search service over it.
// When Chrome cannot start and fallback is enabled, searches are answered
// from the generative source alone.
func startSearchService(ctx context.Context, cfg *config.Config) (*scraper.Service, func(), error) {
	mgr := browser.NewManager(cfg.Browser)
	closeBrowser := func() {
		if err := mgr.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close browser")
		}
	}

	if cfg.Scrape.Fallback {
		checkPlaceholderService(ctx, nil, generative.BaseURL)
	}

	if err := mgr.Start(ctx); err != nil {
		closeBrowser()
		if !cfg.Scrape.Fallback {
			return nil, nil, err
		}
		logger.WithError(err).Warn("Browser unavailable, serving generated photos")
		ui.PrintWarning("Browser unavailable, serving generated photos", err)
		return scraper.NewService(generative.Source{}), func() {}, nil
	}

	opts := []scraper.Option{
		scraper.WithCacheTTL(cfg.Scrape.CacheTTL),
		scraper.WithTimeout(cfg.Browser.SearchBudget()),
	}
	if cfg.Scrape.Fallback {
		opts = append(opts, scraper.WithFallback(generative.Source{}))
	}
	return scraper.NewService(scraper.NewBrowserSource(mgr, cfg.Scrape), opts...), closeBrowser, nil
}

// checkPlaceholderService warns when the image service behind generated
// photos does not answer. Generated records still work; their images won't load.
func checkPlaceholderService(ctx context.Context, hc *http.Client, base string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if generative.Reachable(ctx, hc, base) {
		return true
	}
	logger.WithField("url", base).Warn("Placeholder image service is not answering")
	ui.PrintWarning("Placeholder image service is not answering, generated photos may not load", base)
	return false
}
