package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by LoadFromEnv
const EnvPrefix = "GAMMASCOPE_"

// Config holds all configuration options for gammascope
type Config struct {
	// Remote lookup service
	API APIConfig `yaml:"api" json:"api"`

	// Cache-and-retry loop
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Static HTML output
	Gallery GalleryConfig `yaml:"gallery" json:"gallery"`

	// Image tree download
	Download DownloadConfig `yaml:"download" json:"download"`

	// Color-ratio scan
	Rank RankConfig `yaml:"rank" json:"rank"`

	// Interactive browser
	Viewer ViewerConfig `yaml:"viewer" json:"viewer"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`

	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// APIConfig holds lookup service configuration
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" json:"base_url"`
	ImageBaseURL string        `yaml:"image_base_url" json:"image_base_url"`
	ImageQuery   string        `yaml:"image_query_suffix" json:"image_query_suffix"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	// APIKey is never written by Save; it comes from the keyring or the environment
	APIKey  string `yaml:"-" json:"-"`
	Profile string `yaml:"profile" json:"profile"`
}

// FetchConfig holds fetcher configuration
type FetchConfig struct {
	InputDir     string        `yaml:"input_dir" json:"input_dir"`
	FirstFile    int           `yaml:"first_file" json:"first_file"`
	LastFile     int           `yaml:"last_file" json:"last_file"`
	CacheFile    string        `yaml:"cache_file" json:"cache_file"`
	FailedFile   string        `yaml:"failed_file" json:"failed_file"`
	MaxRetries   int           `yaml:"max_retries" json:"max_retries"`
	BaseDelay    time.Duration `yaml:"base_delay" json:"base_delay"`
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`
}

// GalleryConfig holds HTML gallery configuration
type GalleryConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	OutputDir  string `yaml:"output_dir" json:"output_dir"`
	FilePrefix string `yaml:"file_prefix" json:"file_prefix"`
	Title      string `yaml:"title" json:"title"`
}

// DownloadConfig holds image download configuration
type DownloadConfig struct {
	ImageDir          string        `yaml:"image_dir" json:"image_dir"`
	Concurrent        int           `yaml:"concurrent" json:"concurrent"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	RetryAttempts     int           `yaml:"retry_attempts" json:"retry_attempts"`
	Sides             []string      `yaml:"sides" json:"sides"`
	Overwrite         bool          `yaml:"overwrite" json:"overwrite"`
}

// RankConfig holds ranker configuration. Images are read from Download.ImageDir.
type RankConfig struct {
	Subdirs    []string `yaml:"subdirs" json:"subdirs"`
	SideMarker string   `yaml:"side_marker" json:"side_marker"`
	Workers    int      `yaml:"workers" json:"workers"`
	OutputFile string   `yaml:"output_file" json:"output_file"`
}

// ViewerConfig holds viewer configuration
type ViewerConfig struct {
	FavoritesFile  string `yaml:"favorites_file" json:"favorites_file"`
	StartMode      string `yaml:"start_mode" json:"start_mode"`
	ThumbnailWidth int    `yaml:"thumbnail_width" json:"thumbnail_width"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	Format  string `yaml:"format" json:"format"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// MetricsConfig holds batch metrics configuration
type MetricsConfig struct {
	// Textfile is written in Prometheus text format when a batch command exits
	Textfile string `yaml:"textfile" json:"textfile"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "https://s-api.csfloat.com",
			ImageBaseURL: "https://csfloat.pics/",
			ImageQuery:   "?v=3",
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			Timeout:      10 * time.Second,
			Profile:      "default",
		},
		Fetch: FetchConfig{
			InputDir:     ".",
			FirstFile:    1,
			LastFile:     47,
			CacheFile:    "success_cache.json",
			FailedFile:   "failed_paint_seeds.json",
			MaxRetries:   5,
			BaseDelay:    time.Second,
			RequestDelay: time.Second,
		},
		Gallery: GalleryConfig{
			Enabled:    true,
			OutputDir:  ".",
			FilePrefix: "G3_gallery",
			Title:      "Gamma Doppler Phase 3 PaintSeed Gallery",
		},
		Download: DownloadConfig{
			ImageDir:          "images",
			Concurrent:        3,
			RequestsPerSecond: 2,
			Timeout:           30 * time.Second,
			RetryAttempts:     3,
			Sides:             []string{"playside", "backside"},
		},
		Rank: RankConfig{
			Subdirs:    []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
			SideMarker: "playside",
			Workers:    8,
			OutputFile: "color_ratio_ranking.csv",
		},
		Viewer: ViewerConfig{
			FavoritesFile:  "favorites.json",
			StartMode:      "default",
			ThumbnailWidth: 48,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromEnv loads configuration from GAMMASCOPE_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	str := func(name string, dst *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("API_KEY", &c.API.APIKey)
	str("API_BASE_URL", &c.API.BaseURL)
	str("USER_AGENT", &c.API.UserAgent)
	str("PROFILE", &c.API.Profile)

	str("INPUT_DIR", &c.Fetch.InputDir)
	str("CACHE_FILE", &c.Fetch.CacheFile)
	str("FAILED_FILE", &c.Fetch.FailedFile)
	num("MAX_RETRIES", &c.Fetch.MaxRetries)
	dur("BASE_DELAY", &c.Fetch.BaseDelay)
	dur("REQUEST_DELAY", &c.Fetch.RequestDelay)

	str("GALLERY_DIR", &c.Gallery.OutputDir)
	str("IMAGE_DIR", &c.Download.ImageDir)
	num("CONCURRENT_DOWNLOADS", &c.Download.Concurrent)
	num("RANK_WORKERS", &c.Rank.Workers)
	str("RANKING_FILE", &c.Rank.OutputFile)
	str("FAVORITES_FILE", &c.Viewer.FavoritesFile)

	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FILE", &c.Logging.File)
	str("METRICS_TEXTFILE", &c.Metrics.Textfile)

	if v := os.Getenv(EnvPrefix + "NO_COLOR"); v != "" {
		c.Logging.NoColor = strings.EqualFold(v, "true") || v == "1"
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
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
		".gammascope.yaml",
		".gammascope.yml",
		filepath.Join(home, ".config", "gammascope", "config.yaml"),
		filepath.Join(home, ".config", "gammascope", "config.yml"),
		filepath.Join(home, ".gammascope.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks the configuration and reports every problem found
func (c *Config) Validate() error {
	var errs []error

	for name, raw := range map[string]string{"api base url": c.API.BaseURL, "image base url": c.API.ImageBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", name, raw))
		}
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}

	if c.Fetch.FirstFile < 1 {
		errs = append(errs, errors.New("first input file number must be at least 1"))
	}
	if c.Fetch.LastFile < c.Fetch.FirstFile {
		errs = append(errs, errors.New("last input file number must not be below the first"))
	}
	if c.Fetch.CacheFile == "" {
		errs = append(errs, errors.New("cache file is required"))
	}
	if c.Fetch.FailedFile == "" {
		errs = append(errs, errors.New("failed file is required"))
	}
	if c.Fetch.MaxRetries < 1 {
		errs = append(errs, errors.New("max retries must be at least 1"))
	}
	if c.Fetch.BaseDelay < 0 || c.Fetch.RequestDelay < 0 {
		errs = append(errs, errors.New("fetch delays cannot be negative"))
	}

	if c.Gallery.Enabled && c.Gallery.FilePrefix == "" {
		errs = append(errs, errors.New("gallery file prefix is required"))
	}

	if c.Download.ImageDir == "" {
		errs = append(errs, errors.New("image directory is required"))
	}
	if c.Download.Concurrent <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.Concurrent > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("download requests per second must be positive"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.RetryAttempts < 1 {
		errs = append(errs, errors.New("download retry attempts must be at least 1"))
	}
	for _, side := range c.Download.Sides {
		if side != "playside" && side != "backside" {
			errs = append(errs, fmt.Errorf("unknown image side %q", side))
		}
	}

	if len(c.Rank.Subdirs) == 0 {
		errs = append(errs, errors.New("at least one rank subdirectory is required"))
	}
	if c.Rank.SideMarker == "" {
		errs = append(errs, errors.New("rank side marker is required"))
	}
	if c.Rank.Workers <= 0 {
		errs = append(errs, errors.New("rank workers must be positive"))
	}
	if c.Rank.OutputFile == "" {
		errs = append(errs, errors.New("ranking output file is required"))
	}

	if c.Viewer.FavoritesFile == "" {
		errs = append(errs, errors.New("favorites file is required"))
	}
	switch c.Viewer.StartMode {
	case "default", "green", "blue":
	default:
		errs = append(errs, fmt.Errorf("invalid viewer start mode %q", c.Viewer.StartMode))
	}
	if c.Viewer.ThumbnailWidth < 8 {
		errs = append(errs, errors.New("thumbnail width must be at least 8"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys are flag names; zero values and values of the wrong type are ignored.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	setStr := func(key string, dst *string) {
		if v, ok := flags[key].(string); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := flags[key].(int); ok && v > 0 {
			*dst = v
		}
	}
	setDur := func(key string, dst *time.Duration) {
		if v, ok := flags[key].(time.Duration); ok && v >= 0 {
			*dst = v
		}
	}

	setStr("input-dir", &c.Fetch.InputDir)
	setInt("first-file", &c.Fetch.FirstFile)
	setInt("last-file", &c.Fetch.LastFile)
	setStr("cache-file", &c.Fetch.CacheFile)
	setStr("failed-file", &c.Fetch.FailedFile)
	setInt("max-retries", &c.Fetch.MaxRetries)
	setDur("base-delay", &c.Fetch.BaseDelay)
	setDur("request-delay", &c.Fetch.RequestDelay)

	setStr("gallery-dir", &c.Gallery.OutputDir)
	if v, ok := flags["no-gallery"].(bool); ok && v {
		c.Gallery.Enabled = false
	}

	setStr("image-dir", &c.Download.ImageDir)
	setInt("concurrent", &c.Download.Concurrent)
	if v, ok := flags["overwrite"].(bool); ok && v {
		c.Download.Overwrite = true
	}

	setInt("workers", &c.Rank.Workers)
	setStr("output", &c.Rank.OutputFile)

	setStr("favorites-file", &c.Viewer.FavoritesFile)
	setStr("mode", &c.Viewer.StartMode)

	setStr("profile", &c.API.Profile)
	setStr("log-level", &c.Logging.Level)
	setStr("log-file", &c.Logging.File)
	if v, ok := flags["no-color"].(bool); ok && v {
		c.Logging.NoColor = true
	}
	setStr("metrics-textfile", &c.Metrics.Textfile)
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env values never override variables already set in the environment
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".gammascope.env"))

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
