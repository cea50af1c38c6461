package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"photowall/pkg/config"
	"photowall/pkg/generative"
	"photowall/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage photowall configuration files.

Configuration is merged from, lowest priority first:
  - Default values
  - Configuration file
  - .env files
  - Environment variables (PHOTOWALL_*)
  - Command line flags`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a file",
	Long: `Write every option with its default value to a YAML file.

The file is created as 'photowall.yaml' in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Validate the effective configuration.

This command checks:
  - YAML syntax
  - Value ranges
  - Output and log directories can be created`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = "photowall.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		ui.PrintError("Configuration file already exists", path)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", path)
		return fmt.Errorf("refusing to overwrite %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the file, e.g. wall.default_query or server.port")
	fmt.Println("2. Run 'photowall config validate' to check it")
	fmt.Println("3. Start the server with 'photowall serve' and the wall with 'photowall wall --api http://" + config.DefaultConfig().Server.Addr() + "'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		ui.PrintError("Configuration validation failed", err)
		return err
	}

	var problems, warnings []string

	if err := os.MkdirAll(cfg.Download.OutputDir, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	if !cfg.Scrape.Fallback {
		warnings = append(warnings, "scrape.fallback is off: searches fail whenever the browser does")
	}
	if cfg.Wall.APIURL == "" {
		warnings = append(warnings, "wall.api_url is empty: the wall shows generated photos from "+generative.BaseURL)
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return fmt.Errorf("%d configuration errors", len(problems))
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Server: %s\n", cfg.Server.Addr())
	fmt.Printf("  Search source: %s\n", cfg.Scrape.BaseURL)
	fmt.Printf("  Output directory: %s\n", cfg.Download.OutputDir)
	fmt.Printf("  Concurrent downloads: %d\n", cfg.Download.Concurrent)
	fmt.Printf("  Rate limit: %.1f requests/second (burst %d)\n", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	fmt.Printf("  Retry attempts: %d\n", cfg.Retry.MaxAttempts)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
