package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gammascope/internal/downloader"
	"gammascope/pkg/csfloat"
	"gammascope/pkg/logger"
	"gammascope/pkg/metrics"
	"gammascope/pkg/models"
	"gammascope/pkg/ratelimit"
	"gammascope/pkg/retry"
	"gammascope/pkg/storage"
	"gammascope/pkg/store"
	"gammascope/pkg/ui"
)

var (
	// Download command flags
	imageDir   string
	concurrent int
	overwrite  bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the cached screenshots into the image tree",
	Long: `Download the playside and backside screenshot of every cached paint seed
into <image-dir>/<seed/100>/<seed>_<side>.png, the layout read by the rank
and view commands.

Images already on disk are skipped unless --overwrite is given. Downloads
run concurrently behind a shared request rate limit.`,
	Example: `  # Download everything in the cache
  gammascope download

  # Use more workers and a different tree
  gammascope download --image-dir ./shots --concurrent 6`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&imageDir, "image-dir", "", "root of the image tree")
	downloadCmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent downloads")
	downloadCmd.Flags().BoolVar(&overwrite, "overwrite", false, "download images that already exist")
	downloadCmd.Flags().StringVar(&cacheFile, "cache-file", "", "success cache file")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{
		"image-dir":  imageDir,
		"concurrent": concurrent,
		"overwrite":  overwrite,
		"cache-file": cacheFile,
	})
	if err != nil {
		return err
	}
	resolveAPIKey(cfg)

	log := logger.GetLogger()
	start := time.Now()
	m := metrics.New()

	cache, err := store.NewCacheStore(cfg.Fetch.CacheFile, log).Load()
	if err != nil {
		return fmt.Errorf("cannot load cache file %s: %w", cfg.Fetch.CacheFile, err)
	}
	sides := make([]models.Side, 0, len(cfg.Download.Sides))
	for _, s := range cfg.Download.Sides {
		sides = append(sides, models.Side(s))
	}
	jobs := downloader.JobsFor(cache.Items(), sides)
	if len(jobs) == 0 {
		ui.PrintWarning("Nothing to download", cfg.Fetch.CacheFile)
		return nil
	}

	manager, err := storage.NewManager(cfg.Download.ImageDir)
	if err != nil {
		return err
	}
	ui.PrintInfo("Image tree", manager.Root())
	ui.PrintInfo("Images", fmt.Sprintf("%d (%d already on disk)", len(jobs), manager.GetDownloadedCount()))

	ctx, stop := signalContext()
	defer stop()

	api := cfg.API
	api.Timeout = cfg.Download.Timeout
	pool := downloader.NewWorkerPool(ctx,
		cfg.Download.Concurrent,
		csfloat.NewClient(api, log),
		manager,
		ratelimit.NewPerSecond(cfg.Download.RequestsPerSecond),
		downloader.PoolOptions{
			RetryAttempts: cfg.Download.RetryAttempts,
			Backoff:       retry.Doubling(time.Second),
			Overwrite:     cfg.Download.Overwrite,
		},
		log,
	)

	progress := ui.NewProgressDisplay("Download", len(jobs), verbose)
	summary, runErr := downloader.Run(ctx, pool, jobs, downloadObserver(progress, m))
	progress.Complete("images")

	ui.PrintInfo("Downloaded", fmt.Sprintf("%d (%s)", summary.Downloaded, ui.FormatBytes(summary.Bytes)))
	ui.PrintInfo("Already present", strconv.Itoa(summary.Skipped))
	for _, res := range summary.Failed {
		ui.PrintWarning(fmt.Sprintf("#%d %s", res.Job.PaintSeed, res.Job.Side), res.Error)
	}

	finishBatch(cfg, m, "download", start, runErr)
	if runErr != nil {
		return runErr
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d images failed to download", len(summary.Failed), summary.Total)
	}
	ui.PrintSuccess("Download complete")
	return nil
}

// downloadObserver feeds download results to the progress line and the metrics
func downloadObserver(progress *ui.ProgressDisplay, m *metrics.Metrics) func(downloader.DownloadResult) {
	return func(res downloader.DownloadResult) {
		item := fmt.Sprintf("#%d %s", res.Job.PaintSeed, res.Job.Side)
		switch {
		case res.Skipped:
			m.Download("skipped")
			progress.Skip(item)
		case res.Success:
			m.Download("downloaded")
			progress.Step(item)
		default:
			m.Download("failed")
			progress.Fail(item, res.Error)
		}
	}
}
