package ranker

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Score holds the band ratios of one template. Err is set when the image
// could not be decoded, in which case both ratios are zero.
type Score struct {
	TemplateID string
	Path       string
	Green      float64
	Blue       float64
	Err        error
}

// ScoreFile decodes path and measures it
func ScoreFile(src Source) Score {
	score := Score{TemplateID: src.TemplateID, Path: src.Path}

	f, err := os.Open(src.Path)
	if err != nil {
		score.Err = err
		return score
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		score.Err = fmt.Errorf("decode %s: %w", src.Path, err)
		return score
	}

	score.Green, score.Blue = Ratios(img)
	return score
}

// Scan scores sources on at most workers goroutines. Results come back in
// completion order. onScore, when set, is called once per result under a
// lock. Only cancellation makes Scan fail.
func Scan(ctx context.Context, sources []Source, workers int, onScore func(Score)) ([]Score, error) {
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	scores := make([]Score, 0, len(sources))

	for _, src := range sources {
		if gctx.Err() != nil {
			break
		}
		src := src // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score := ScoreFile(src)

			mu.Lock()
			scores = append(scores, score)
			if onScore != nil {
				onScore(score)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return scores, fmt.Errorf("scan interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return scores, fmt.Errorf("scan interrupted: %w", err)
	}
	return scores, nil
}
