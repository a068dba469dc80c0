package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gammascope/pkg/config"
	"gammascope/pkg/csfloat"
	errs "gammascope/pkg/errors"
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
	"gammascope/pkg/ratelimit"
	"gammascope/pkg/store"
)

// mockClient answers lookups from a per-sig script of errors; nil means success
type mockClient struct {
	script map[string][]error
	calls  int32
	onCall func(sig string)
}

func (m *mockClient) Lookup(ctx context.Context, sig, inspect string) (*csfloat.ScreenshotResponse, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.onCall != nil {
		m.onCall(sig)
	}
	steps := m.script[sig]
	if len(steps) > 0 {
		next := steps[0]
		m.script[sig] = steps[1:]
		if next != nil {
			return nil, next
		}
	}
	return &csfloat.ScreenshotResponse{Sides: csfloat.Sides{
		Playside: csfloat.Side{Path: sig + "/play.png"},
		Backside: csfloat.Side{Path: sig + "/back.png"},
	}}, nil
}

func (m *mockClient) ImageURL(path string) string {
	return "https://img.test/" + path + "?v=3"
}

type harness struct {
	dir    string
	cache  *store.CacheStore
	failed *store.FailedStore
	waits  []time.Duration
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		dir:    dir,
		cache:  store.NewCacheStore(filepath.Join(dir, "success_cache.json"), logger.NewNopLogger()),
		failed: store.NewFailedStore(filepath.Join(dir, "failed_paint_seeds.json")),
	}
}

func (h *harness) fetcher(client LookupClient, base time.Duration, maxRetries int, opts ...Option) *Fetcher {
	cfg := config.DefaultConfig().Fetch
	cfg.BaseDelay = base
	cfg.MaxRetries = maxRetries
	all := append([]Option{
		WithPacer(ratelimit.Unlimited{}),
		WithLogger(logger.NewNopLogger()),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			h.waits = append(h.waits, d)
			return ctx.Err()
		}),
	}, opts...)
	return New(cfg, client, h.cache, h.failed, all...)
}

func desc(id int, sig string) models.Descriptor {
	return models.Descriptor{PaintSeed: id, ScreenshotSig: sig, SerializedInspect: "inspect-" + sig, FloatValue: float64(id) / 1000}
}

func TestCachedDescriptorMakesNoCalls(t *testing.T) {
	h := newHarness(t)
	cached := models.Item{PaintSeed: 7, Float: 0.5, Playside: "old-p", Backside: "old-b"}
	require.NoError(t, h.cache.Save(models.Cache{"7": cached}))

	client := &mockClient{script: map[string][]error{}}
	res, err := h.fetcher(client, time.Second, 5).Run(context.Background(), []models.Descriptor{desc(7, "s7")})
	require.NoError(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&client.calls))
	assert.Equal(t, []models.Item{cached}, res.Items)
	assert.Equal(t, 1, res.Reused)
	assert.Empty(t, h.waits)
}

func TestRateLimitBackoffIsGeometric(t *testing.T) {
	h := newHarness(t)
	rl := errs.FromStatus(http.StatusTooManyRequests)
	client := &mockClient{script: map[string][]error{"s1": {rl, rl, rl, nil}}}

	res, err := h.fetcher(client, 100*time.Millisecond, 5).Run(context.Background(), []models.Descriptor{desc(1, "s1")})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}, h.waits)
	assert.Equal(t, int32(4), atomic.LoadInt32(&client.calls))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "https://img.test/s1/play.png?v=3", res.Items[0].Playside)
	assert.Equal(t, 0.001, res.Items[0].Float)
	assert.Empty(t, res.Failed)

	cache, err := h.cache.Load()
	require.NoError(t, err)
	assert.Contains(t, cache, "1")
}

func TestEveryFailureKindBacksOff(t *testing.T) {
	h := newHarness(t)
	client := &mockClient{script: map[string][]error{"s2": {
		errs.FromStatus(http.StatusBadGateway),
		errs.New(errs.ErrorTypeNetwork, 0, "reset"),
		errs.New(errs.ErrorTypeParsing, 200, "bad body"),
		nil,
	}}}

	res, err := h.fetcher(client, time.Second, 5).Run(context.Background(), []models.Descriptor{desc(2, "s2")})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, h.waits)
	assert.Equal(t, 1, res.Fetched)
}

func TestExhaustedRetriesRecordFailureOnce(t *testing.T) {
	h := newHarness(t)
	nf := errs.FromStatus(http.StatusNotFound)
	client := &mockClient{script: map[string][]error{
		"bad": {nf, nf, nf, nf, nf, nf},
	}}

	res, err := h.fetcher(client, time.Second, 5).Run(context.Background(), []models.Descriptor{
		desc(3, "bad"),
		desc(4, "good"),
	})
	require.NoError(t, err)

	assert.Equal(t, int32(6), atomic.LoadInt32(&client.calls))
	// four waits for five attempts, none after the last
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}, h.waits)
	assert.Equal(t, []string{"3"}, res.Failed)
	assert.Equal(t, 1, res.Fetched)

	failed, err := h.failed.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, failed)

	cache, err := h.cache.Load()
	require.NoError(t, err)
	assert.NotContains(t, cache, "3")
	assert.Contains(t, cache, "4")
}

func TestDuplicateDescriptorsProcessedOnce(t *testing.T) {
	h := newHarness(t)
	client := &mockClient{script: map[string][]error{}}

	res, err := h.fetcher(client, time.Second, 5).Run(context.Background(), []models.Descriptor{
		desc(5, "a"), desc(5, "a"), desc(6, "b"),
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&client.calls))
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 1, res.Skipped)
}

func TestPersistsBeforeEachEvent(t *testing.T) {
	h := newHarness(t)
	client := &mockClient{script: map[string][]error{}}

	var sizes []int
	f := h.fetcher(client, time.Second, 5, WithObserver(func(e Event) {
		if e.Status != StatusFetched {
			return
		}
		cache, err := h.cache.Load()
		require.NoError(t, err)
		sizes = append(sizes, len(cache))
	}))

	_, err := f.Run(context.Background(), []models.Descriptor{desc(1, "x"), desc(2, "y"), desc(3, "z")})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, sizes)
}

func TestCancellationPersistsResolvedItems(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	client := &mockClient{
		script: map[string][]error{},
		onCall: func(sig string) {
			if sig == "second" {
				cancel()
			}
		},
	}

	res, err := h.fetcher(client, time.Second, 5).Run(ctx, []models.Descriptor{
		desc(1, "first"), desc(2, "second"), desc(3, "third"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// the lookup for "second" succeeded before the context was observed
	assert.LessOrEqual(t, res.Fetched, 2)
	assert.GreaterOrEqual(t, res.Fetched, 1)

	cache, err := h.cache.Load()
	require.NoError(t, err)
	assert.Contains(t, cache, "1")
	assert.NotContains(t, cache, "3")
	_, err = os.Stat(filepath.Join(h.dir, "failed_paint_seeds.json"))
	assert.NoError(t, err)
}

func TestRunWithHTTPClient(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"sides":{"playside":{"path":"a.png"},"backside":{"path":"b.png"}}}`))
	}))
	defer server.Close()

	apiCfg := config.DefaultConfig().API
	apiCfg.BaseURL = server.URL
	client := csfloat.NewClient(apiCfg, logger.NewNopLogger())

	h := newHarness(t)
	res, err := h.fetcher(client, 10*time.Millisecond, 3).Run(context.Background(), []models.Descriptor{desc(305, "sig")})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "https://csfloat.pics/a.png?v=3", res.Items[0].Playside)
	assert.Equal(t, "https://csfloat.pics/b.png?v=3", res.Items[0].Backside)
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, h.waits)
}

func TestLoadDescriptors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(InputPath(dir, 1), []byte(`{"results":[{"paint_seed":1,"screenshot_sig":"a","serialized_inspect":"i","float_value":0.1}]}`), 0644))
	require.NoError(t, os.WriteFile(InputPath(dir, 3), []byte(`{"results":[{"paint_seed":3,"screenshot_sig":"c","serialized_inspect":"k","float_value":0.3}]}`), 0644))

	tl := logger.NewTestLogger()
	ds, err := LoadDescriptors(dir, 1, 3, tl)
	require.NoError(t, err)

	require.Len(t, ds, 2)
	assert.Equal(t, 1, ds[0].PaintSeed)
	assert.Equal(t, "k", ds[1].SerializedInspect)
	assert.True(t, tl.HasMessage("Skipping missing input file"))
}

func TestLoadDescriptorsMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(InputPath(dir, 1), []byte(`{"results": [`), 0644))

	_, err := LoadDescriptors(dir, 1, 1, logger.NewNopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1.json")
}
