package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"photowall/internal/downloader"
	"photowall/pkg/logger"
	"photowall/pkg/metadata"
	"photowall/pkg/storage"
	"photowall/pkg/ui"
)

var downloadLimit int

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <query>",
	Short: "Download HD versions of a search result",
	Long: `Search once and download the HD version of every photo found.

Photos are saved as <id>.jpg next to a <id>.jpg.json metadata file. Photos
already in the output directory are skipped, so an interrupted run can simply
be started again.`,
	Example: `  # Download everything for a query
  photowall download "ocean view"

  # First 10 photos, 5 at a time, into ./wallpapers
  photowall download mountains --limit 10 --concurrent 5 --output ./wallpapers`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	addDownloadFlags(downloadCmd)
	addBrowserFlags(downloadCmd)
	downloadCmd.Flags().IntVarP(&downloadLimit, "limit", "n", 0, "download at most this many photos (0 for all)")
	downloadCmd.Flags().IntVar(&retries, "retries", 1, "attempts per search against --api")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, logger.Options{Quiet: !verbose})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintLogo()
	query := strings.Join(args, " ")
	ui.PrintInfo("Query", query)

	resp, err := searchOnce(ctx, cfg, query)
	if err != nil {
		return err
	}
	photos := resp.Photos
	if downloadLimit > 0 && len(photos) > downloadLimit {
		photos = photos[:downloadLimit]
	}
	if len(photos) == 0 {
		ui.PrintWarning(fmt.Sprintf("No photos found for %q", resp.Query))
		return nil
	}

	store, err := storage.NewManager(cfg.Download.OutputDir)
	if err != nil {
		return err
	}
	if n, err := metadata.CleanOrphanedMetadata(store.GetOutputDir()); err != nil {
		logger.WithError(err).Warn("Failed to clean orphaned metadata")
	} else if n > 0 {
		logger.WithField("removed", n).Info("Removed orphaned metadata")
	}
	ui.PrintInfo("Output", store.GetOutputDir())

	progress := ui.NewProgressDisplay(resp.Query, len(photos), verbose)
	pool := newDownloadPool(cfg, store)
	pool.OnResult(func(r downloader.DownloadResult) {
		switch {
		case r.Error != nil:
			progress.FailDownload(r.Job.Photo.Title, r.Error)
		case r.Skipped:
			progress.SkipDownload(r.Job.Photo.Title)
		default:
			progress.CompleteDownload(r.Job.Photo.Title, r.Size)
		}
	})

	go func() {
		<-ctx.Done()
		pool.Abort()
	}()

	pool.Start()
	results := pool.DownloadAll(photos, resp.Query)
	progress.Complete()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("download interrupted after %d of %d photos", len(results), len(photos))
	}
	if failed == len(photos) {
		return fmt.Errorf("all %d downloads failed", failed)
	}
	return nil
}
