package main

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"photowall/internal/downloader"
	"photowall/pkg/client"
	"photowall/pkg/config"
	"photowall/pkg/fetch"
	"photowall/pkg/logger"
	"photowall/pkg/ratelimit"
	"photowall/pkg/storage"
	"photowall/pkg/ui/tui"
)

var (
	outputDir  string
	concurrent int
	retries    int
)

// wallCmd represents the wall command
var wallCmd = &cobra.Command{
	Use:   "wall",
	Short: "Show the scrolling photo wall",
	Long: `Show the photo wall in the terminal.

Without --api the wall searches the built-in generated photo set; with --api it
asks a running 'photowall serve' for real photos.

Keys:
  /       search (typing searches after a short pause, enter searches now)
  d       download the hovered photo in HD
  ?       help
  q       quit

Logs never go to the screen; use --log-file to keep them.`,
	Example: `  # Generated photos, no server needed
  photowall wall

  # Real photos from a local server
  photowall wall --api http://127.0.0.1:3001 --log-file wall.log`,
	Args: cobra.NoArgs,
	RunE: runWall,
}

func init() {
	rootCmd.AddCommand(wallCmd)

	addDownloadFlags(wallCmd)
	wallCmd.Flags().IntVar(&retries, "retries", 1, "attempts per search against --api")
}

// addDownloadFlags registers the flags of commands that save HD photos.
func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for HD downloads (default ./downloads)")
	cmd.Flags().IntVar(&concurrent, "concurrent", 3, "number of concurrent downloads")
}

func runWall(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("the wall needs an interactive terminal")
	}

	cfg, err := loadConfig(cmd, logger.Options{Quiet: true})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := tui.Options{Config: cfg.Wall, Logger: logger.GetLogger()}
	if cfg.Wall.APIURL != "" {
		remote := newRemote(cfg)
		if err := remote.Health(ctx); err != nil {
			logger.WithError(err).Warn("Search server is not answering; searches may fail")
		}
		opts.Searcher = remote
	}

	store, err := storage.NewManager(cfg.Download.OutputDir)
	if err != nil {
		return err
	}
	pool := newDownloadPool(cfg, store)
	pool.Start()
	defer pool.Abort()
	opts.Downloads = pool

	return tui.Run(ctx, opts)
}

func newRemote(cfg *config.Config) *client.Remote {
	return client.New(cfg.Wall.APIURL, cfg.Server.WriteTimeout, cfg.Retry, logger.GetLogger())
}

func newDownloadPool(cfg *config.Config, store *storage.Manager) *downloader.WorkerPool {
	log := logger.GetLogger()
	return downloader.NewWorkerPool(
		cfg.Download.Concurrent,
		newPhotoClient(cfg, log),
		store,
		ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		log,
	)
}

// newPhotoClient fetches photo bytes with the same browser profile the
// scraper presents to the photo site.
func newPhotoClient(cfg *config.Config, log logger.Logger) *fetch.Client {
	c := fetch.NewClient(cfg.Download.Timeout, log)
	if cfg.Browser.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.Browser.UserAgent)
	}
	if cfg.Browser.AcceptLanguage != "" {
		c.SetHeader("Accept-Language", cfg.Browser.AcceptLanguage)
	}
	if cfg.Scrape.BaseURL != "" {
		c.SetHeader("Referer", strings.TrimRight(cfg.Scrape.BaseURL, "/")+"/")
	}
	return c
}
