package downloader

import (
	"context"
	"fmt"

	"gammascope/pkg/models"
)

// Summary totals a download run
type Summary struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     []DownloadResult
	Bytes      int64
}

// JobsFor builds one job per item and side, skipping sides with no URL
func JobsFor(items []models.Item, sides []models.Side) []ImageJob {
	jobs := make([]ImageJob, 0, len(items)*len(sides))
	for _, it := range items {
		for _, side := range sides {
			url := it.URL(side)
			if url == "" {
				continue
			}
			jobs = append(jobs, ImageJob{PaintSeed: it.PaintSeed, Side: side, URL: url})
		}
	}
	return jobs
}

// Run submits jobs to the pool and collects every result. onResult, when
// set, is called from the collecting goroutine.
func Run(ctx context.Context, wp *WorkerPool, jobs []ImageJob, onResult func(DownloadResult)) (*Summary, error) {
	summary := &Summary{Total: len(jobs)}

	wp.Start()
	go func() {
		defer wp.Stop()
		for _, job := range jobs {
			if err := wp.Submit(job); err != nil {
				return
			}
		}
	}()

	for res := range wp.Results() {
		switch {
		case res.Skipped:
			summary.Skipped++
		case res.Success:
			summary.Downloaded++
			summary.Bytes += int64(res.Size)
		default:
			summary.Failed = append(summary.Failed, res)
		}
		if onResult != nil {
			onResult(res)
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("download interrupted: %w", err)
	}
	return summary, nil
}
