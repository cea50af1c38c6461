package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"photowall/pkg/config"
	"photowall/pkg/extract"
	"photowall/pkg/logger"
	"photowall/pkg/models"
	"photowall/pkg/ui"
)

var (
	htmlFile   string
	jsonOutput bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search photos once and print them",
	Long: `Search photos once and print the result.

The search runs against --api when set, otherwise a local headless Chrome
renders the search page. With --html the photos are extracted from a saved
search page instead and nothing is fetched.`,
	Example: `  # Search with a local browser
  photowall search "ocean view"

  # Ask a running server and print the JSON response
  photowall search cats --api http://127.0.0.1:3001 --json

  # Extract from a page saved earlier
  photowall search mountains --html ./mountains.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&htmlFile, "html", "", "extract from a saved search page")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the response as JSON")
	searchCmd.Flags().IntVar(&retries, "retries", 1, "attempts per search against --api")
	addBrowserFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	// keep stdout clean for JSON
	cfg, err := loadConfig(cmd, logger.Options{Quiet: jsonOutput})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := strings.Join(args, " ")
	var resp *models.SearchResponse
	if htmlFile != "" {
		resp, err = searchHTML(cfg, query, htmlFile)
	} else {
		resp, err = searchOnce(ctx, cfg, query)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printPhotos(resp)
	return nil
}

// searchOnce runs one search against the remote server or a local browser.
func searchOnce(ctx context.Context, cfg *config.Config, query string) (*models.SearchResponse, error) {
	if cfg.Wall.APIURL != "" {
		return newRemote(cfg).Search(ctx, query)
	}

	svc, closeBrowser, err := startSearchService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeBrowser()
	return svc.Search(ctx, query)
}

func searchHTML(cfg *config.Config, query, path string) (*models.SearchResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := extract.ParseHTML(f)
	if err != nil {
		return nil, err
	}
	photos := extract.Extract(doc, extract.OptionsFromConfig(cfg.Scrape))
	logger.LogSearch(query, "html", len(photos), nil)
	return &models.SearchResponse{Query: strings.TrimSpace(query), Count: len(photos), Photos: photos}, nil
}

func printPhotos(resp *models.SearchResponse) {
	ui.PrintInfo("Query", resp.Query)
	ui.PrintInfo("Photos", fmt.Sprintf("%d", resp.Count))
	if resp.Count == 0 {
		return
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tASPECT\tTITLE")
	for _, p := range resp.Photos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Aspect, p.Title)
	}
	w.Flush()
}
