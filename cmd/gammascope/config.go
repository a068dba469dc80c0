package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gammascope/pkg/auth"
	"gammascope/pkg/config"
	"gammascope/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage gammascope configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (GAMMASCOPE_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.gammascope.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the configuration that commands would run with, after merging
every source. The API key is never printed, only whether one is set.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate the configuration for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value ranges
  - Input and output path accessibility`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# gammascope configuration file
#
# Every option can also be set with a GAMMASCOPE_ environment variable,
# for example GAMMASCOPE_CACHE_FILE or GAMMASCOPE_LOG_LEVEL.

# Screenshot lookup service
api:
  base_url: "https://s-api.csfloat.com"
  image_base_url: "https://csfloat.pics/"
  image_query_suffix: "?v=3"
  # Per-request timeout
  timeout: 10s
  # Credential profile used for the optional API key
  # Store a key with 'gammascope auth login'
  profile: "default"

# Cache-and-retry loop
fetch:
  # Directory holding <n>.json input files
  input_dir: "."
  first_file: 1
  last_file: 47
  cache_file: "success_cache.json"
  failed_file: "failed_paint_seeds.json"
  # Attempts per descriptor
  max_retries: 5
  # First backoff delay, doubled after every failed attempt
  base_delay: 1s
  # Minimum spacing between lookups
  request_delay: 1s

# One HTML page per hundred paint seeds
gallery:
  enabled: true
  output_dir: "."
  file_prefix: "G3_gallery"
  title: "Gamma Doppler Phase 3 PaintSeed Gallery"

# Image tree shared by download, rank and view
download:
  image_dir: "images"
  # Range: 1-10
  concurrent: 3
  requests_per_second: 2
  timeout: 30s
  retry_attempts: 3
  sides: ["playside", "backside"]
  overwrite: false

# Color ratio ranking
rank:
  subdirs: ["0", "1", "2", "3", "4", "5", "6", "7", "8", "9"]
  # Only files whose name contains the marker are scanned
  side_marker: "playside"
  workers: 8
  output_file: "color_ratio_ranking.csv"

# Terminal viewer
viewer:
  favorites_file: "favorites.json"
  # default, green or blue
  start_mode: "default"
  thumbnail_width: 48

# Logging configuration
logging:
  # debug, info, warn, error
  level: "info"
  # console or json
  format: "console"
  # Optional log file, written in addition to the console
  file: ""
  no_color: false

# Batch metrics
metrics:
  # Prometheus text file written when a batch command exits
  textfile: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".gammascope.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		ui.PrintError("Configuration file already exists", path)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", path)
		return fmt.Errorf("refusing to overwrite %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Point fetch.input_dir at your numbered input files")
	fmt.Println("2. Run 'gammascope config validate' to check the configuration")
	fmt.Println("3. Run 'gammascope fetch', then 'download', 'rank' and 'view'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	resolveAPIKey(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
	fmt.Println()

	if cfg.API.APIKey != "" {
		ui.PrintInfo("API key", auth.MaskKey(cfg.API.APIKey))
	} else {
		ui.PrintInfo("API key", "(none)")
	}

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (" + config.EnvPrefix + "*)")
	fmt.Println("3. .env files")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched in standard locations)")
	}
	fmt.Println("5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err)
		return err
	}

	warnings, problems := checkPaths(cfg)

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
	fmt.Printf("  Input files: %s/{%d..%d}.json\n", cfg.Fetch.InputDir, cfg.Fetch.FirstFile, cfg.Fetch.LastFile)
	fmt.Printf("  Cache file: %s\n", cfg.Fetch.CacheFile)
	fmt.Printf("  Max retries: %d (base delay %s)\n", cfg.Fetch.MaxRetries, cfg.Fetch.BaseDelay)
	fmt.Printf("  Image tree: %s\n", cfg.Download.ImageDir)
	fmt.Printf("  Ranking file: %s\n", cfg.Rank.OutputFile)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}

// checkPaths reports inputs that are missing and outputs that cannot be created
func checkPaths(cfg *config.Config) (warnings, problems []string) {
	if info, err := os.Stat(cfg.Fetch.InputDir); err != nil || !info.IsDir() {
		warnings = append(warnings, fmt.Sprintf("input directory %s does not exist", cfg.Fetch.InputDir))
	}
	if _, err := os.Stat(cfg.Fetch.CacheFile); err != nil {
		warnings = append(warnings, fmt.Sprintf("cache file %s does not exist yet, run 'gammascope fetch'", cfg.Fetch.CacheFile))
	}

	dirs := []string{cfg.Download.ImageDir}
	if cfg.Gallery.Enabled {
		dirs = append(dirs, cfg.Gallery.OutputDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create directory %s: %v", dir, err))
		}
	}
	return warnings, problems
}
