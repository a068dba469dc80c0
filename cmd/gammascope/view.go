package main

import (
	"github.com/spf13/cobra"

	"gammascope/pkg/logger"
	"gammascope/pkg/ui/tui"
	"gammascope/pkg/viewer"
)

var (
	// View command flags
	favoritesFile string
	startMode     string
	rankingFile   string
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the cached paint seeds in the terminal",
	Long: `Browse every cached paint seed with its float, ranks and color ratios.

Keys:
  ←/→        previous / next
  i          show or hide the playside image
  s          search by paint seed (enter jumps, esc closes)
  f          toggle favorite (saved immediately)
  d / g / b  sort by id, green ratio or blue ratio
  q          quit`,
	Example: `  # Start sorted by green ratio
  gammascope view --mode green`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&cacheFile, "cache-file", "", "success cache file")
	viewCmd.Flags().StringVar(&rankingFile, "ranking", "", "ranking CSV file")
	viewCmd.Flags().StringVar(&imageDir, "image-dir", "", "root of the image tree")
	viewCmd.Flags().StringVar(&favoritesFile, "favorites-file", "", "favorites file")
	viewCmd.Flags().StringVarP(&startMode, "mode", "m", "", "initial sort mode (default, green, blue)")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{
		"cache-file":     cacheFile,
		"output":         rankingFile,
		"image-dir":      imageDir,
		"favorites-file": favoritesFile,
		"mode":           startMode,
	})
	if err != nil {
		return err
	}

	session, err := viewer.Load(cfg, logger.GetLogger())
	if err != nil {
		return err
	}
	return tui.Run(session, tui.Options{ThumbnailWidth: cfg.Viewer.ThumbnailWidth})
}
