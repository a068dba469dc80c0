package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gammascope/pkg/logger"
	"gammascope/pkg/metrics"
	"gammascope/pkg/ranker"
	"gammascope/pkg/ui"
)

var (
	// Rank command flags
	workers    int
	rankOutput string
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the downloaded screenshots by green and blue pixel ratio",
	Long: `Scan the playside image of every paint seed in the image tree, measure the
share of pixels inside the green and blue HSV bands and write a CSV with
both ratios and both ranks, ordered by green rank.

Unreadable images score zero on both colors and are reported as warnings.`,
	Example: `  # Rank the default image tree
  gammascope rank

  # Use more workers and another output file
  gammascope rank --workers 16 --output ranking.csv`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&imageDir, "image-dir", "", "root of the image tree")
	rankCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of parallel decoders")
	rankCmd.Flags().StringVarP(&rankOutput, "output", "o", "", "ranking CSV file")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{
		"image-dir": imageDir,
		"workers":   workers,
		"output":    rankOutput,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	m := metrics.New()

	ctx, stop := signalContext()
	defer stop()

	progress := ui.NewProgressDisplay("Rank", 0, verbose)
	r := ranker.New(cfg.Download.ImageDir, cfg.Rank, logger.GetLogger())
	r.OnDiscover(progress.SetTotal)
	r.OnScore(func(s ranker.Score) {
		item := s.TemplateID
		if s.Err != nil {
			m.Scored("unreadable")
			progress.Fail(item, s.Err)
			return
		}
		m.Scored("ok")
		progress.Step(item)
	})

	res, runErr := r.Run(ctx)
	if res != nil {
		progress.Complete("images")
	}

	finishBatch(cfg, m, "rank", start, runErr)
	if runErr != nil {
		return runErr
	}

	if len(res.Rows) == 0 {
		ui.PrintWarning("No images found under", cfg.Download.ImageDir)
	} else {
		best := res.Rows[0]
		ui.PrintInfo("Greenest", best.TemplateID+" ("+strconv.FormatFloat(best.GreenRatio*100, 'f', 2, 64)+"%)")
	}
	ui.PrintInfo("Ranking", cfg.Rank.OutputFile)
	ui.PrintSuccess("Rank complete")
	return nil
}
