package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gammascope"

// Metrics holds the batch counters for one command run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	lookups   *prometheus.CounterVec
	cacheHits prometheus.Counter
	failed    prometheus.Counter
	downloads *prometheus.CounterVec
	scored    *prometheus.CounterVec
	duration  *prometheus.GaugeVec
}

// New registers the counters on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Screenshot lookups by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Descriptors answered from the success cache.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_items_total",
			Help:      "Descriptors that exhausted their retries.",
		}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_downloads_total",
			Help:      "Image downloads by result.",
		}, []string{"result"}),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_scored_total",
			Help:      "Images scored by the ranker by result.",
		}, []string{"result"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall time of the last run of each command.",
		}, []string{"command"}),
	}

	m.registry.MustRegister(m.lookups, m.cacheHits, m.failed, m.downloads, m.scored, m.duration)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Lookup counts a screenshot lookup attempt outcome (fetched, retrying, failed)
func (m *Metrics) Lookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

// CacheHit counts a descriptor served from cache
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// Failed counts a descriptor that gave up
func (m *Metrics) Failed() {
	if m == nil {
		return
	}
	m.failed.Inc()
}

// Download counts an image download result (downloaded, skipped, failed)
func (m *Metrics) Download(result string) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(result).Inc()
}

// Scored counts a ranked image (ok, unreadable)
func (m *Metrics) Scored(result string) {
	if m == nil {
		return
	}
	m.scored.WithLabelValues(result).Inc()
}

// Duration records how long command took, in seconds
func (m *Metrics) Duration(command string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(command).Set(seconds)
}

// WriteTextfile writes the registry in the Prometheus text format for the
// node exporter textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
