package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"gammascope/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile      string
	logLevel        string
	logFile         string
	noColor         bool
	notifications   bool
	quiet           bool
	verbose         bool
	metricsTextfile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gammascope",
	Short: "Fetch, rank and browse Gamma Doppler paint seed screenshots",
	Long: `gammascope collects screenshot metadata for every paint seed of a skin,
downloads the rendered images, ranks them by how green or blue they are and
lets you browse the result in the terminal.

The commands share files on disk:
  fetch     input descriptors -> success cache, failed list, HTML gallery
  download  success cache -> image tree
  rank      image tree -> color ratio ranking CSV
  view      cache, ranking, image tree and favorites -> interactive browser`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetNoColor(noColor)
		if quiet {
			ui.SetQuiet(true)
		}

		// The viewer owns the screen
		switch cmd.Name() {
		case "version", "help", "completion", "view":
		default:
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .gammascope.yaml or $HOME/.config/gammascope/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", false, "send a desktop notification when a batch command finishes")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logs and one line per item instead of a progress bar")
	rootCmd.PersistentFlags().StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file when a batch command exits")

	rootCmd.SetVersionTemplate(`gammascope {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
