package strknn

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/hupe1980/strknn/matcher"
	"github.com/hupe1980/strknn/resource"
)

// DefaultCacheSize is the number of query results cached by default.
const DefaultCacheSize = 1024

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	parallelism      int
	cacheSize        int
	queryTimeout     time.Duration
	maxEntries       int
	setStrategy      matcher.SetStrategy
	normalization    norm.Form
	keepPunctuation  bool
	resourceConfig   *resource.Config
}

// Option configures an Engine.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &strknn.BasicMetricsCollector{}
//	eng, _ := strknn.New(strknn.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := strknn.NewJSONLogger(slog.LevelInfo)
//	eng, _ := strknn.New(strknn.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithParallelism caps the number of goroutines scanning the corpus for a
// single query. Zero (the default) uses runtime.GOMAXPROCS(0); 1 scans
// sequentially.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithCacheSize sets the number of query results kept in the LRU result cache.
// Zero disables caching.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithQueryTimeout bounds the duration of a single corpus scan.
// Zero means no deadline beyond the caller's context.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		o.queryTimeout = d
	}
}

// WithMaxEntries caps the corpus size. Uploads that would exceed it fail with
// ErrCapacityExceeded. Zero means unlimited.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// WithSetStrategy selects the solver used for order-independent queries.
// matcher.SetExact (the default) computes the optimal token assignment;
// matcher.SetApproximate matches greedily and may overestimate distances.
func WithSetStrategy(s matcher.SetStrategy) Option {
	return func(o *options) {
		o.setStrategy = s
	}
}

// WithNormalization sets the Unicode normalization form applied to uploaded
// strings and queries before tokenization. The default is norm.NFC; norm.NFKC
// additionally folds compatibility characters such as ligatures.
func WithNormalization(form norm.Form) Option {
	return func(o *options) {
		o.normalization = form
	}
}

// WithKeepPunctuation keeps every punctuation rune in tokens. By default
// opening quotes and brackets are trimmed from the start of a token and
// sentence punctuation, closing quotes and brackets from its end.
func WithKeepPunctuation(keep bool) Option {
	return func(o *options) {
		o.keepPunctuation = keep
	}
}

// WithResourceConfig enables admission control for queries and uploads.
//
// Example:
//
//	eng, _ := strknn.New(strknn.WithResourceConfig(resource.Config{
//	    MaxConcurrentQueries: 8,
//	    QueriesPerSecond:     200,
//	}))
func WithResourceConfig(cfg resource.Config) Option {
	return func(o *options) {
		o.resourceConfig = &cfg
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		cacheSize:        DefaultCacheSize,
		setStrategy:      matcher.SetExact,
		normalization:    norm.NFC,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	switch {
	case o.parallelism < 0:
		return fmt.Errorf("%w: parallelism must be >= 0, got %d", ErrInvalidOption, o.parallelism)
	case o.cacheSize < 0:
		return fmt.Errorf("%w: cache size must be >= 0, got %d", ErrInvalidOption, o.cacheSize)
	case o.queryTimeout < 0:
		return fmt.Errorf("%w: query timeout must be >= 0, got %s", ErrInvalidOption, o.queryTimeout)
	case o.maxEntries < 0:
		return fmt.Errorf("%w: max entries must be >= 0, got %d", ErrInvalidOption, o.maxEntries)
	}

	if o.setStrategy != matcher.SetExact && o.setStrategy != matcher.SetApproximate {
		return fmt.Errorf("%w: %w: %s", ErrInvalidOption, matcher.ErrUnknownStrategy, o.setStrategy)
	}

	switch o.normalization {
	case norm.NFC, norm.NFD, norm.NFKC, norm.NFKD:
	default:
		return fmt.Errorf("%w: unknown normalization form %d", ErrInvalidOption, o.normalization)
	}

	if rc := o.resourceConfig; rc != nil {
		if rc.MaxConcurrentQueries < 0 || rc.QueriesPerSecond < 0 || rc.QueryBurst < 0 ||
			rc.UploadStringsPerSecond < 0 || rc.UploadBurst < 0 {
			return fmt.Errorf("%w: resource limits must be >= 0", ErrInvalidOption)
		}
	}

	return nil
}
