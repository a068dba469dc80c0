package ranker

import (
	"context"
	"time"

	"gammascope/pkg/config"
	"gammascope/pkg/logger"
)

// Result summarizes a ranking run
type Result struct {
	Rows     []Row
	Scored   int
	Failed   int
	Duration time.Duration
}

// Ranker scans an image tree and writes the ranking file
type Ranker struct {
	imageDir string
	cfg      config.RankConfig
	logger   logger.Logger
	onScore    func(Score)
	onDiscover func(total int)
}

// New creates a ranker reading images from imageDir
func New(imageDir string, cfg config.RankConfig, log logger.Logger) *Ranker {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Ranker{
		imageDir: imageDir,
		cfg:      cfg,
		logger:   log.WithField("component", "ranker"),
	}
}

// OnScore sets a callback invoked once per scored image
func (r *Ranker) OnScore(fn func(Score)) {
	r.onScore = fn
}

// OnDiscover sets a callback invoked with the number of images found
// before scanning starts
func (r *Ranker) OnDiscover(fn func(total int)) {
	r.onDiscover = fn
}

// Run discovers, scores, ranks and writes. The output file is only written
// when the scan completes.
func (r *Ranker) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger.LogComponentStart(r.logger, "ranker", map[string]interface{}{
		"image_dir": r.imageDir,
		"workers":   r.cfg.Workers,
	})

	sources, err := Discover(r.imageDir, r.cfg.Subdirs, r.cfg.SideMarker, r.logger)
	if err != nil {
		return nil, err
	}
	if r.onDiscover != nil {
		r.onDiscover(len(sources))
	}

	res := &Result{}
	scores, err := Scan(ctx, sources, r.cfg.Workers, func(s Score) {
		if s.Err != nil {
			res.Failed++
			r.logger.WithError(s.Err).WarnWithFields("Could not read image, scoring as zero", map[string]interface{}{
				"template_id": s.TemplateID,
			})
		}
		res.Scored++
		logger.LogProgress(r.logger, "ranker", res.Scored, len(sources))
		if r.onScore != nil {
			r.onScore(s)
		}
	})
	if err != nil {
		return res, err
	}

	res.Rows = Rank(scores)
	if err := WriteCSV(r.cfg.OutputFile, res.Rows); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)

	logger.LogComponentStop(r.logger, "ranker", map[string]interface{}{
		"scored":   res.Scored,
		"failed":   res.Failed,
		"output":   r.cfg.OutputFile,
		"duration": res.Duration,
	})
	return res, nil
}
