// Package observability exports engine metrics to Prometheus.
//
//	collector, _ := observability.NewPrometheusCollector("strknn", prometheus.DefaultRegisterer)
//	eng, _ := strknn.New(strknn.WithMetricsCollector(collector))
//	http.Handle("/metrics", promhttp.Handler())
package observability

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/strknn"
)

// DefaultNamespace prefixes metric names when no namespace is given.
const DefaultNamespace = "strknn"

// PrometheusCollector implements strknn.MetricsCollector.
type PrometheusCollector struct {
	opLatency       *prometheus.HistogramVec
	opErrors        *prometheus.CounterVec
	uploadedStrings prometheus.Counter
	entriesScanned  *prometheus.CounterVec
	cacheHits       prometheus.Counter
}

var _ strknn.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics
// with reg (prometheus.DefaultRegisterer if nil). Metrics that are already
// registered under the same name are reused, so several engines in one
// process can share them.
func NewPrometheusCollector(namespace string, reg prometheus.Registerer) (*PrometheusCollector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of engine operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"op", "status"}),
		opErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed engine operations.",
		}, []string{"op"}),
		uploadedStrings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_strings_total",
			Help:      "Strings appended to the corpus.",
		}),
		entriesScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_scanned_total",
			Help:      "Corpus entries visited by queries, by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Queries answered from the result cache.",
		}),
	}

	var err error
	if c.opLatency, err = register(reg, c.opLatency); err != nil {
		return nil, fmt.Errorf("register latency histogram: %w", err)
	}
	if c.opErrors, err = register(reg, c.opErrors); err != nil {
		return nil, fmt.Errorf("register error counter: %w", err)
	}
	if c.uploadedStrings, err = register(reg, c.uploadedStrings); err != nil {
		return nil, fmt.Errorf("register uploaded strings counter: %w", err)
	}
	if c.entriesScanned, err = register(reg, c.entriesScanned); err != nil {
		return nil, fmt.Errorf("register scanned entries counter: %w", err)
	}
	if c.cacheHits, err = register(reg, c.cacheHits); err != nil {
		return nil, fmt.Errorf("register cache hits counter: %w", err)
	}

	return c, nil
}

// register registers m, or returns the collector already registered under
// the same descriptor.
func register[M prometheus.Collector](reg prometheus.Registerer, m M) (M, error) {
	err := reg.Register(m)
	if err == nil {
		return m, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(M); ok {
			return existing, nil
		}
	}
	return m, err
}

// RecordUpload implements strknn.MetricsCollector.
func (c *PrometheusCollector) RecordUpload(count int, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.observe("upload", duration, err)
	if err == nil {
		c.uploadedStrings.Add(float64(count))
	}
}

// RecordQuery implements strknn.MetricsCollector.
func (c *PrometheusCollector) RecordQuery(k, scored, pruned int, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.observe("query", duration, err)
	if err == nil {
		c.entriesScanned.WithLabelValues("scored").Add(float64(scored))
		c.entriesScanned.WithLabelValues("pruned").Add(float64(pruned))
	}
}

// RecordCacheHit implements strknn.MetricsCollector.
func (c *PrometheusCollector) RecordCacheHit(k int) {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
}

func (c *PrometheusCollector) observe(op string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		c.opErrors.WithLabelValues(op).Inc()
	}
	c.opLatency.WithLabelValues(op, status).Observe(duration.Seconds())
}
