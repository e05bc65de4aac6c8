package strknn

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// observability package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordUpload is called after each upload.
	// count is the number of strings in the batch, err is nil if successful.
	RecordUpload(count int, duration time.Duration, err error)

	// RecordQuery is called after each query that was not served from cache.
	// k is the number of neighbors requested, scored and pruned describe
	// how many corpus entries were compared or skipped.
	RecordQuery(k, scored, pruned int, duration time.Duration, err error)

	// RecordCacheHit is called when a query is answered from the result cache.
	RecordCacheHit(k int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordUpload(int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordQuery(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheHit(int)                              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	UploadCount     atomic.Int64
	UploadErrors    atomic.Int64
	UploadedStrings atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	EntriesScored   atomic.Int64
	EntriesPruned   atomic.Int64
	CacheHits       atomic.Int64
}

// RecordUpload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpload(count int, duration time.Duration, err error) {
	b.UploadCount.Add(1)
	if err != nil {
		b.UploadErrors.Add(1)
		return
	}
	b.UploadedStrings.Add(int64(count))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(k, scored, pruned int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.EntriesScored.Add(int64(scored))
	b.EntriesPruned.Add(int64(pruned))
}

// RecordCacheHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheHit(k int) {
	b.CacheHits.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		UploadCount:     b.UploadCount.Load(),
		UploadErrors:    b.UploadErrors.Load(),
		UploadedStrings: b.UploadedStrings.Load(),
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryAvgNanos:   b.getAvgQueryNanos(),
		EntriesScored:   b.EntriesScored.Load(),
		EntriesPruned:   b.EntriesPruned.Load(),
		CacheHits:       b.CacheHits.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	UploadCount     int64
	UploadErrors    int64
	UploadedStrings int64
	QueryCount      int64
	QueryErrors     int64
	QueryAvgNanos   int64
	EntriesScored   int64
	EntriesPruned   int64
	CacheHits       int64
}
