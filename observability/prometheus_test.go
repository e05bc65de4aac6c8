package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/strknn"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector("", reg)
	require.NoError(t, err)

	c.RecordUpload(3, time.Millisecond, nil)
	c.RecordUpload(2, time.Millisecond, errors.New("boom"))
	c.RecordQuery(5, 10, 90, time.Millisecond, nil)
	c.RecordCacheHit(5)
	c.RecordCacheHit(5)

	assert.Equal(t, 3.0, promtest.ToFloat64(c.uploadedStrings))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.opErrors.WithLabelValues("upload")))
	assert.Equal(t, 0.0, promtest.ToFloat64(c.opErrors.WithLabelValues("query")))
	assert.Equal(t, 10.0, promtest.ToFloat64(c.entriesScanned.WithLabelValues("scored")))
	assert.Equal(t, 90.0, promtest.ToFloat64(c.entriesScanned.WithLabelValues("pruned")))
	assert.Equal(t, 2.0, promtest.ToFloat64(c.cacheHits))

	// upload/success, upload/error, query/success
	assert.Equal(t, 3, promtest.CollectAndCount(c.opLatency))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "strknn_uploaded_strings_total")
	assert.Contains(t, names, "strknn_operation_duration_seconds")
}

func TestPrometheusCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()

	a, err := NewPrometheusCollector("shared", reg)
	require.NoError(t, err)
	b, err := NewPrometheusCollector("shared", reg)
	require.NoError(t, err)

	a.RecordCacheHit(1)
	b.RecordCacheHit(1)

	assert.Equal(t, 2.0, promtest.ToFloat64(a.cacheHits))
	assert.Same(t, a.cacheHits, b.cacheHits)
}

func TestPrometheusCollectorConflict(t *testing.T) {
	reg := prometheus.NewRegistry()

	// Same name, different help text.
	require.NoError(t, reg.Register(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "conflict",
		Name:      "cache_hits_total",
		Help:      "Something else entirely.",
	})))

	_, err := NewPrometheusCollector("conflict", reg)
	require.Error(t, err)
}

func TestPrometheusCollectorWithEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector("engine", reg)
	require.NoError(t, err)

	eng, err := strknn.New(strknn.WithMetricsCollector(c))
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()
	require.NoError(t, eng.Upload(ctx, []string{"apple", "banana", "orange"}))
	_, err = eng.Query(ctx, "aple", 1, true)
	require.NoError(t, err)
	_, err = eng.Query(ctx, "aple", 1, true)
	require.NoError(t, err)
	_, err = eng.Query(ctx, "aple", 0, true)
	require.Error(t, err)

	assert.Equal(t, 3.0, promtest.ToFloat64(c.uploadedStrings))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.cacheHits))

	scored := promtest.ToFloat64(c.entriesScanned.WithLabelValues("scored"))
	pruned := promtest.ToFloat64(c.entriesScanned.WithLabelValues("pruned"))
	assert.Equal(t, 3.0, scored+pruned)
}

func TestNilPrometheusCollector(t *testing.T) {
	var c *PrometheusCollector
	c.RecordUpload(1, time.Millisecond, nil)
	c.RecordQuery(1, 1, 1, time.Millisecond, nil)
	c.RecordCacheHit(1)
}
