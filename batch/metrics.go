package batch

import (
	"time"

	tt "github.com/gnolang/fol/internal/types"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "fol"

// Metrics counts what a batch run did.
//
// Metrics:
//   - fol_files_processed_total: files run through the engine
//   - fol_formulas_total: formulas processed, by status (ok, warning, error)
//   - fol_issues_total: issues reported, by rule
//   - fol_transform_steps_total: transform applications, by transform
//   - fol_cache_requests_total: cache lookups, by result (hit, miss)
//   - fol_file_duration_seconds: time spent per file
//
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	filesTotal    prometheus.Counter
	formulasTotal *prometheus.CounterVec
	issuesTotal   *prometheus.CounterVec
	stepsTotal    *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	fileDuration  prometheus.Histogram
}

// NewMetrics creates and registers the metrics with registry. If registry
// is nil a new one is created.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		filesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_processed_total",
			Help:      "Total number of formula files processed",
		}),
		formulasTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "formulas_total",
			Help:      "Total number of formulas processed by status",
		}, []string{"status"}),
		issuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "issues_total",
			Help:      "Total number of issues by rule",
		}, []string{"rule"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transform_steps_total",
			Help:      "Total number of transform applications by transform",
		}, []string{"transform"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_requests_total",
			Help:      "Total number of result cache lookups by result",
		}, []string{"result"}),
		fileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent processing one formula file",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}

	registry.MustRegister(
		m.filesTotal,
		m.formulasTotal,
		m.issuesTotal,
		m.stepsTotal,
		m.cacheTotal,
		m.fileDuration,
	)

	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFile records one processed file and its results.
func (m *Metrics) ObserveFile(results []tt.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.filesTotal.Inc()
	m.fileDuration.Observe(elapsed.Seconds())
	m.ObserveResults(results)
}

// ObserveResults records formula statuses, issues and transform steps.
func (m *Metrics) ObserveResults(results []tt.Result) {
	if m == nil {
		return
	}
	for _, r := range results {
		status := "ok"
		if r.Issue != nil {
			status = r.Issue.Severity.String()
			m.issuesTotal.WithLabelValues(r.Issue.Rule).Inc()
		}
		m.formulasTotal.WithLabelValues(status).Inc()
		for _, step := range r.Steps {
			m.stepsTotal.WithLabelValues(step.Transform).Inc()
		}
	}
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes the current metric values in the text exposition
// format, suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
