package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gammascope/pkg/config"
	"gammascope/pkg/csfloat"
	errs "gammascope/pkg/errors"
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
	"gammascope/pkg/ratelimit"
	"gammascope/pkg/retry"
)

// Status is the outcome reported for a descriptor
type Status string

const (
	StatusReused   Status = "reused"
	StatusFetched  Status = "fetched"
	StatusRetrying Status = "retrying"
	StatusFailed   Status = "failed"
)

// Event describes progress on one descriptor
type Event struct {
	PaintSeed int
	Status    Status
	// Attempt and Delay are set for StatusRetrying
	Attempt int
	Delay   time.Duration
	Err     error
	// Done counts resolved descriptors out of Total
	Done  int
	Total int
}

// Observer receives fetch events in order
type Observer func(Event)

// Result summarizes a run
type Result struct {
	// Items holds every resolved item (reused and fetched) in input order
	Items   []models.Item
	Failed  []string
	Fetched int
	Reused  int
	// Skipped counts duplicate descriptors
	Skipped int
}

// Fetcher resolves descriptors one at a time, consulting the cache first
type Fetcher struct {
	client     LookupClient
	cache      CacheStore
	failed     FailedStore
	pacer      ratelimit.Limiter
	maxRetries int
	baseDelay  time.Duration
	sleep      retry.SleepFunc
	observer   Observer
	logger     logger.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithPacer replaces the pacer used before each new lookup
func WithPacer(p ratelimit.Limiter) Option {
	return func(f *Fetcher) { f.pacer = p }
}

// WithSleep replaces the backoff sleeper
func WithSleep(s retry.SleepFunc) Option {
	return func(f *Fetcher) { f.sleep = s }
}

// WithObserver registers a progress observer
func WithObserver(o Observer) Option {
	return func(f *Fetcher) { f.observer = o }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher from the fetch configuration
func New(cfg config.FetchConfig, client LookupClient, cache CacheStore, failed FailedStore, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     client,
		cache:      cache,
		failed:     failed,
		pacer:      ratelimit.NewPacer(cfg.RequestDelay),
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		sleep:      retry.Wait,
		logger:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxRetries < 1 {
		f.maxRetries = 1
	}
	f.logger = f.logger.WithField("component", "fetcher")
	return f
}

// Run processes descriptors sequentially. Cached ids make no network call;
// others are looked up with exponential backoff, and after every looked-up
// descriptor the cache and failed list are rewritten. A failing descriptor
// never stops the batch. When ctx ends, Run persists and returns the partial
// result together with the context error.
func (f *Fetcher) Run(ctx context.Context, descriptors []models.Descriptor) (*Result, error) {
	cache, err := f.cache.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	logger.LogComponentStart(f.logger, "fetcher", map[string]interface{}{
		"descriptors": len(descriptors),
		"cached":      len(cache),
		"max_retries": f.maxRetries,
	})

	res := &Result{Failed: []string{}}
	seen := make(map[int]struct{}, len(descriptors))
	total := countUnique(descriptors)

	for _, d := range descriptors {
		if _, dup := seen[d.PaintSeed]; dup {
			res.Skipped++
			continue
		}
		seen[d.PaintSeed] = struct{}{}
		key := strconv.Itoa(d.PaintSeed)

		if item, ok := cache[key]; ok {
			res.Items = append(res.Items, item)
			res.Reused++
			f.emit(Event{PaintSeed: d.PaintSeed, Status: StatusReused, Done: len(res.Items) + len(res.Failed), Total: total})
			continue
		}

		if err := f.pacer.Wait(ctx); err != nil {
			return res, f.finish(ctx, cache, res, err)
		}

		item, err := f.resolve(ctx, d, total, len(res.Items)+len(res.Failed))
		if err != nil && ctx.Err() != nil {
			return res, f.finish(ctx, cache, res, ctx.Err())
		}

		ev := Event{PaintSeed: d.PaintSeed, Status: StatusFetched, Err: err, Total: total}
		if err != nil {
			res.Failed = append(res.Failed, key)
			ev.Status = StatusFailed
			f.logger.WithError(err).WithField("paint_seed", d.PaintSeed).Warn("Giving up on descriptor")
		} else {
			cache[key] = item
			res.Items = append(res.Items, item)
			res.Fetched++
		}

		if err := f.persist(cache, res.Failed); err != nil {
			return res, err
		}
		ev.Done = len(res.Items) + len(res.Failed)
		f.emit(ev)
	}

	return res, f.finish(ctx, cache, res, nil)
}

// resolve looks up one descriptor, retrying every failure with a doubling delay
func (f *Fetcher) resolve(ctx context.Context, d models.Descriptor, total, done int) (models.Item, error) {
	resp, err := retry.DoWithResult(func() (*csfloat.ScreenshotResponse, error) {
		return f.client.Lookup(ctx, d.ScreenshotSig, d.SerializedInspect)
	}, &retry.Config{
		MaxAttempts: f.maxRetries,
		Backoff:     retry.Doubling(f.baseDelay),
		RetryIf:     retry.RetryAll,
		Context:     ctx,
		Sleep:       f.sleep,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			if errs.IsRateLimit(err) {
				logger.LogRateLimit(f.logger, d.PaintSeed, attempt, delay)
			} else {
				f.logger.WarnWithFields("Lookup failed, backing off", map[string]interface{}{
					"paint_seed": d.PaintSeed,
					"attempt":    attempt,
					"wait":       delay,
					"error":      err.Error(),
				})
			}
			f.emit(Event{PaintSeed: d.PaintSeed, Status: StatusRetrying, Attempt: attempt, Delay: delay, Err: err, Done: done, Total: total})
		},
	})
	if err != nil {
		return models.Item{}, err
	}

	return models.Item{
		PaintSeed: d.PaintSeed,
		Float:     d.FloatValue,
		Playside:  f.client.ImageURL(resp.Sides.Playside.Path),
		Backside:  f.client.ImageURL(resp.Sides.Backside.Path),
	}, nil
}

func (f *Fetcher) persist(cache models.Cache, failed []string) error {
	if err := f.cache.Save(cache); err != nil {
		return fmt.Errorf("failed to save cache: %w", err)
	}
	if err := f.failed.Save(failed); err != nil {
		return fmt.Errorf("failed to save failed list: %w", err)
	}
	return nil
}

// finish persists the final state and joins it with cause
func (f *Fetcher) finish(ctx context.Context, cache models.Cache, res *Result, cause error) error {
	saveErr := f.persist(cache, res.Failed)

	logger.LogComponentStop(f.logger, "fetcher", map[string]interface{}{
		"fetched":     res.Fetched,
		"reused":      res.Reused,
		"failed":      len(res.Failed),
		"duplicates":  res.Skipped,
		"interrupted": ctx.Err() != nil,
	})

	if cause != nil && (errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded)) {
		cause = fmt.Errorf("fetch interrupted: %w", cause)
	}
	return errors.Join(cause, saveErr)
}

func (f *Fetcher) emit(e Event) {
	if f.observer != nil {
		f.observer(e)
	}
}

func countUnique(ds []models.Descriptor) int {
	seen := make(map[int]struct{}, len(ds))
	for _, d := range ds {
		seen[d.PaintSeed] = struct{}{}
	}
	return len(seen)
}
