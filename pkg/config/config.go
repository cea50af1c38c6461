package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "PHOTOWALL_"

// Config holds all configuration options for the photo wall and its search server
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Browser   BrowserConfig   `yaml:"browser" json:"browser"`
	Scrape    ScrapeConfig    `yaml:"scrape" json:"scrape"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Wall      WallConfig      `yaml:"wall" json:"wall"`
	Download  DownloadConfig  `yaml:"download" json:"download"`
	Retry     RetryConfig     `yaml:"retry" json:"retry"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	AllowedOrigin   string        `yaml:"allowed_origin" json:"allowed_origin"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// Addr returns host:port for net/http
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BrowserConfig controls the headless browser and the page walk before extraction
type BrowserConfig struct {
	Headless          bool          `yaml:"headless" json:"headless"`
	RemoteURL         string        `yaml:"remote_url" json:"remote_url"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	AcceptLanguage    string        `yaml:"accept_language" json:"accept_language"`
	ViewportWidth     int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height" json:"viewport_height"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	SelectorTimeout   time.Duration `yaml:"selector_timeout" json:"selector_timeout"`
	ScrollStep        int           `yaml:"scroll_step" json:"scroll_step"`
	ScrollInterval    time.Duration `yaml:"scroll_interval" json:"scroll_interval"`
	ScrollLimit       int           `yaml:"scroll_limit" json:"scroll_limit"`
	LazyLoadWait      time.Duration `yaml:"lazy_load_wait" json:"lazy_load_wait"`
}

// SearchBudget is the longest one page walk can take: navigation, waiting for
// the selector, scrolling to the limit and the lazy-load pause.
func (b BrowserConfig) SearchBudget() time.Duration {
	d := b.NavigationTimeout + b.SelectorTimeout + b.LazyLoadWait
	if b.ScrollStep > 0 && b.ScrollLimit > 0 {
		steps := (b.ScrollLimit + b.ScrollStep - 1) / b.ScrollStep
		d += time.Duration(steps) * b.ScrollInterval
	}
	return d
}

// ScrapeConfig holds the search source and extraction settings
type ScrapeConfig struct {
	BaseURL       string        `yaml:"base_url" json:"base_url"`
	Host          string        `yaml:"host" json:"host"`
	Selector      string        `yaml:"selector" json:"selector"`
	MaxPhotos     int           `yaml:"max_photos" json:"max_photos"`
	TargetWidth   int           `yaml:"target_width" json:"target_width"`
	TargetQuality int           `yaml:"target_quality" json:"target_quality"`
	MinWidth      int           `yaml:"min_width" json:"min_width"`
	IDPrefix      string        `yaml:"id_prefix" json:"id_prefix"`
	CacheTTL      time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	Fallback      bool          `yaml:"fallback" json:"fallback"`
}

// RateLimitConfig holds per-client request throttling for the API
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// WallConfig holds the animation and interaction settings of the terminal wall
type WallConfig struct {
	APIURL         string        `yaml:"api_url" json:"api_url"`
	Speeds         []float64     `yaml:"speeds" json:"speeds"`
	FrameInterval  time.Duration `yaml:"frame_interval" json:"frame_interval"`
	SettleDelay    time.Duration `yaml:"settle_delay" json:"settle_delay"`
	ReadyDelay     time.Duration `yaml:"ready_delay" json:"ready_delay"`
	SearchDebounce time.Duration `yaml:"search_debounce" json:"search_debounce"`
	RowHeightPx    float64       `yaml:"row_height_px" json:"row_height_px"`
	CellWidthPx    float64       `yaml:"cell_width_px" json:"cell_width_px"`
	DefaultQuery   string        `yaml:"default_query" json:"default_query"`
}

// DownloadConfig holds HD download settings
type DownloadConfig struct {
	OutputDir  string        `yaml:"output_dir" json:"output_dir"`
	Concurrent int           `yaml:"concurrent" json:"concurrent"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// RetryConfig holds caller-side retry settings for the remote search client.
// MaxAttempts of 1 means no retry.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            3001,
			AllowedOrigin:   "*",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Browser: BrowserConfig{
			Headless:          true,
			UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			AcceptLanguage:    "en-US,en;q=0.9",
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			NavigationTimeout: 30 * time.Second,
			SelectorTimeout:   10 * time.Second,
			ScrollStep:        300,
			ScrollInterval:    100 * time.Millisecond,
			ScrollLimit:       3000,
			LazyLoadWait:      2 * time.Second,
		},
		Scrape: ScrapeConfig{
			BaseURL:       "https://unsplash.com",
			Host:          "images.unsplash.com",
			Selector:      `img[src*="images.unsplash.com"]`,
			MaxPhotos:     30,
			TargetWidth:   800,
			TargetQuality: 85,
			MinWidth:      50,
			IDPrefix:      "unsplash-",
			CacheTTL:      10 * time.Minute,
			Fallback:      false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             5,
		},
		Wall: WallConfig{
			APIURL:         "",
			Speeds:         []float64{35, 45, 40, 50, 38, 42},
			FrameInterval:  16 * time.Millisecond,
			SettleDelay:    500 * time.Millisecond,
			ReadyDelay:     100 * time.Millisecond,
			SearchDebounce: 500 * time.Millisecond,
			RowHeightPx:    16,
			CellWidthPx:    8,
			DefaultQuery:   "nature",
		},
		Download: DownloadConfig{
			OutputDir:  "./downloads",
			Concurrent: 3,
			Timeout:    60 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from PHOTOWALL_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(key string, dst *string) {
		if v := os.Getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(envPrefix + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(envPrefix + key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(envPrefix + key); v != "" {
			*dst = strings.ToLower(v) == "true" || v == "1"
		}
	}

	setString("HOST", &c.Server.Host)
	setInt("PORT", &c.Server.Port)
	setString("ALLOWED_ORIGIN", &c.Server.AllowedOrigin)

	setBool("HEADLESS", &c.Browser.Headless)
	setString("BROWSER_URL", &c.Browser.RemoteURL)
	setString("USER_AGENT", &c.Browser.UserAgent)
	setDuration("NAVIGATION_TIMEOUT", &c.Browser.NavigationTimeout)

	setString("BASE_URL", &c.Scrape.BaseURL)
	setDuration("CACHE_TTL", &c.Scrape.CacheTTL)
	setBool("FALLBACK", &c.Scrape.Fallback)

	setString("API_URL", &c.Wall.APIURL)
	setString("DEFAULT_QUERY", &c.Wall.DefaultQuery)

	setString("OUTPUT_DIR", &c.Download.OutputDir)
	setInt("CONCURRENT_DOWNLOADS", &c.Download.Concurrent)

	setInt("RETRY_ATTEMPTS", &c.Retry.MaxAttempts)

	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"photowall.yaml",
		".photowall.yaml",
		filepath.Join(home, ".config", "photowall", "config.yaml"),
		filepath.Join(home, ".photowall.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("server port must be between 1 and 65535"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}

	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		errs = append(errs, errors.New("browser viewport must be positive"))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}
	if c.Browser.ScrollStep <= 0 {
		errs = append(errs, errors.New("scroll step must be positive"))
	}

	if c.Scrape.BaseURL == "" {
		errs = append(errs, errors.New("scrape base URL is required"))
	}
	if c.Scrape.MaxPhotos <= 0 {
		errs = append(errs, errors.New("max photos must be positive"))
	}
	if c.Scrape.MinWidth < 0 {
		errs = append(errs, errors.New("min width cannot be negative"))
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("requests per second must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("burst must be positive"))
	}

	if len(c.Wall.Speeds) == 0 {
		errs = append(errs, errors.New("at least one column speed is required"))
	}
	for i, s := range c.Wall.Speeds {
		if s <= 0 {
			errs = append(errs, fmt.Errorf("column speed %d must be positive", i))
		}
	}
	if c.Wall.FrameInterval <= 0 {
		errs = append(errs, errors.New("frame interval must be positive"))
	}
	if c.Wall.RowHeightPx <= 0 || c.Wall.CellWidthPx <= 0 {
		errs = append(errs, errors.New("cell dimensions must be positive"))
	}

	if c.Download.Concurrent <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.Concurrent > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry max attempts must be at least 1"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set should be present in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if host, ok := flags["host"].(string); ok && host != "" {
		c.Server.Host = host
	}
	if port, ok := flags["port"].(int); ok && port > 0 {
		c.Server.Port = port
	}
	if api, ok := flags["api"].(string); ok && api != "" {
		c.Wall.APIURL = api
	}
	if fallback, ok := flags["fallback"].(bool); ok {
		c.Scrape.Fallback = fallback
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Download.OutputDir = outputDir
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Download.Concurrent = concurrent
	}
	if attempts, ok := flags["retries"].(int); ok && attempts > 0 {
		c.Retry.MaxAttempts = attempts
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".photowall.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
