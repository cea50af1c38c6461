package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"photowall/pkg/config"
	"photowall/pkg/logger"
	"photowall/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
	apiURL     string
	noColor    bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photowall",
	Short: "An endlessly scrolling photo wall with a search server behind it",
	Long: `Photowall shows search results as an auto-scrolling waterfall of photo cards.

Each column scrolls at its own speed and loops forever. Hovering a photo pauses
its column and shows its title; the wall pauses while the terminal is hidden.

Photos come from a search server that renders a photo site in headless Chrome
and extracts its images, or from a built-in generated set when no server is
configured.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetNoColor(noColor)
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./photowall.yaml or ~/.config/photowall/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "search server base URL, e.g. http://127.0.0.1:3001")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print one line per photo")

	rootCmd.SetVersionTemplate(`Photowall {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// commandFlags collects the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects.
func commandFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = value
		}
	}

	set("log-level", logLevel)
	set("log-file", logFile)
	set("api", apiURL)
	set("host", serveHost)
	set("port", servePort)
	set("fallback", serveFallback)
	set("headless", serveHeadless)
	set("output", outputDir)
	set("concurrent", concurrent)
	set("retries", retries)
	return flags
}

// loadConfig loads the configuration for cmd and installs the global logger.
func loadConfig(cmd *cobra.Command, opts logger.Options) (*config.Config, error) {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(&cfg.Logging, opts); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithFields(map[string]interface{}{
		"version": version,
		"command": cmd.Name(),
	}).Debug("Photowall starting")
	return cfg, nil
}
