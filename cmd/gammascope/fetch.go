package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gammascope/pkg/csfloat"
	"gammascope/pkg/fetcher"
	"gammascope/pkg/gallery"
	"gammascope/pkg/logger"
	"gammascope/pkg/metrics"
	"gammascope/pkg/store"
	"gammascope/pkg/ui"
)

var (
	// Fetch command flags
	inputDir     string
	firstFile    int
	lastFile     int
	cacheFile    string
	failedFile   string
	maxRetries   int
	baseDelay    time.Duration
	requestDelay time.Duration
	galleryDir   string
	noGallery    bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Look up screenshot URLs for every input descriptor",
	Long: `Read the numbered input files, look up the screenshot of every paint seed
that is not cached yet and write one HTML gallery page per hundred seeds.

Cached seeds make no network call. Every failed lookup is retried with a
doubling delay; seeds that exhaust their retries are written to the failed
list. The cache and the failed list are rewritten after every lookup, so an
interrupted run loses nothing.`,
	Example: `  # Fetch 1.json through 47.json in the current directory
  gammascope fetch

  # Fetch a subset with a longer base delay
  gammascope fetch --input-dir ./data --first-file 10 --last-file 12 --base-delay 2s

  # Only refresh the cache
  gammascope fetch --no-gallery`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "directory holding the numbered input files")
	fetchCmd.Flags().IntVar(&firstFile, "first-file", 0, "first input file number")
	fetchCmd.Flags().IntVar(&lastFile, "last-file", 0, "last input file number")
	fetchCmd.Flags().StringVar(&cacheFile, "cache-file", "", "success cache file")
	fetchCmd.Flags().StringVar(&failedFile, "failed-file", "", "failed paint seed list")
	fetchCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "lookup attempts per descriptor")
	fetchCmd.Flags().DurationVar(&baseDelay, "base-delay", -1, "first backoff delay, doubled on every retry")
	fetchCmd.Flags().DurationVar(&requestDelay, "request-delay", -1, "minimum spacing between lookups")
	fetchCmd.Flags().StringVar(&galleryDir, "gallery-dir", "", "directory for the HTML gallery pages")
	fetchCmd.Flags().BoolVar(&noGallery, "no-gallery", false, "skip writing the HTML gallery")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{
		"input-dir":     inputDir,
		"first-file":    firstFile,
		"last-file":     lastFile,
		"cache-file":    cacheFile,
		"failed-file":   failedFile,
		"max-retries":   maxRetries,
		"base-delay":    baseDelay,
		"request-delay": requestDelay,
		"gallery-dir":   galleryDir,
		"no-gallery":    noGallery,
	})
	if err != nil {
		return err
	}
	resolveAPIKey(cfg)

	log := logger.GetLogger()
	start := time.Now()
	m := metrics.New()

	descriptors, err := fetcher.LoadDescriptors(cfg.Fetch.InputDir, cfg.Fetch.FirstFile, cfg.Fetch.LastFile, log)
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		ui.PrintWarning("No descriptors found", cfg.Fetch.InputDir)
		return nil
	}
	ui.PrintInfo("Descriptors", strconv.Itoa(len(descriptors)))

	ctx, stop := signalContext()
	defer stop()

	progress := ui.NewProgressDisplay("Fetch", len(descriptors), verbose)
	f := fetcher.New(cfg.Fetch,
		csfloat.NewClient(cfg.API, log),
		store.NewCacheStore(cfg.Fetch.CacheFile, log),
		store.NewFailedStore(cfg.Fetch.FailedFile),
		fetcher.WithLogger(log),
		fetcher.WithObserver(fetchObserver(progress, m)),
	)

	res, runErr := f.Run(ctx, descriptors)
	if res == nil {
		finishBatch(cfg, m, "fetch", start, runErr)
		return runErr
	}
	progress.Complete("items")

	if runErr == nil && cfg.Gallery.Enabled {
		paths, err := gallery.NewWriter(cfg.Gallery, log).WriteAll(res.Items)
		if err != nil {
			runErr = fmt.Errorf("failed to write gallery: %w", err)
		} else {
			ui.PrintInfo("Gallery pages", strconv.Itoa(len(paths)))
		}
	}

	ui.PrintInfo("Fetched", strconv.Itoa(res.Fetched))
	ui.PrintInfo("Reused from cache", strconv.Itoa(res.Reused))
	if res.Skipped > 0 {
		ui.PrintInfo("Duplicate descriptors", strconv.Itoa(res.Skipped))
	}
	if len(res.Failed) > 0 {
		ui.PrintWarning(fmt.Sprintf("%d paint seeds failed, see", len(res.Failed)), cfg.Fetch.FailedFile)
	}

	finishBatch(cfg, m, "fetch", start, runErr)
	if runErr != nil {
		return runErr
	}
	ui.PrintSuccess("Fetch complete")
	return nil
}

// fetchObserver feeds fetch events to the progress line and the metrics
func fetchObserver(progress *ui.ProgressDisplay, m *metrics.Metrics) fetcher.Observer {
	return func(e fetcher.Event) {
		progress.SetTotal(e.Total)
		item := "#" + strconv.Itoa(e.PaintSeed)

		switch e.Status {
		case fetcher.StatusReused:
			m.CacheHit()
			progress.Skip(item)
		case fetcher.StatusFetched:
			m.Lookup("fetched")
			progress.Step(item)
		case fetcher.StatusRetrying:
			m.Lookup("retrying")
			progress.Retry(item, e.Attempt, e.Delay)
		case fetcher.StatusFailed:
			m.Lookup("failed")
			m.Failed()
			progress.Fail(item, e.Err)
		}
	}
}
