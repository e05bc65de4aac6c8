package strknn

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/strknn/cache"
	"github.com/hupe1980/strknn/corpus"
	"github.com/hupe1980/strknn/matcher"
	"github.com/hupe1980/strknn/resource"
	"github.com/hupe1980/strknn/searcher"
	"github.com/hupe1980/strknn/token"
)

// Entry is a stored corpus entry.
type Entry = corpus.Entry

// Result is a ranked match.
type Result struct {
	// ID is the entry's insertion ID. IDs start at 0 and increase by one per
	// uploaded string.
	ID uint64
	// Text is the string as it was uploaded.
	Text string
	// Distance is the edit cost between the query and the entry. Zero means
	// the normalized token sequences (or multisets) are identical.
	Distance float64
}

// Stats describes the state of an Engine.
type Stats struct {
	Size            int
	Version         uint64
	QueriesInFlight int64
	Cache           cache.Stats
	// Limits are the admission limits; zero when none are configured.
	Limits resource.Config
}

// Engine is an in-memory fuzzy top-k string search engine.
//
// An Engine is safe for concurrent use. Uploads are serialized; queries run
// against the corpus snapshot current when they start and never block
// uploads.
type Engine struct {
	opts    options
	store   *corpus.Store
	cache   *cache.ResultCache[searcher.Candidate]
	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// New creates an empty Engine.
func New(optFns ...Option) (*Engine, error) {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}

	tokenizer := token.New(func(o *token.Options) {
		o.Form = opts.normalization
		o.KeepPunctuation = opts.keepPunctuation
	})

	store := corpus.New(func(o *corpus.Options) {
		o.MaxEntries = opts.maxEntries
		o.Tokenizer = tokenizer
	})

	results, err := cache.New[searcher.Candidate](opts.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	var ctrl *resource.Controller
	if opts.resourceConfig != nil {
		ctrl = resource.NewController(*opts.resourceConfig)
	}

	return &Engine{
		opts:    opts,
		store:   store,
		cache:   results,
		rc:      ctrl,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}, nil
}

// Upload appends strs to the corpus. Either every string is appended or, on
// error, none is. An empty batch is a no-op.
func (e *Engine) Upload(ctx context.Context, strs []string) error {
	_, err := e.Add(ctx, strs)
	return err
}

// Add is Upload returning the IDs assigned to strs, in order.
func (e *Engine) Add(ctx context.Context, strs []string) ([]uint64, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	ids, err := e.add(ctx, strs)

	e.metrics.RecordUpload(len(strs), time.Since(start), err)
	e.logger.LogUpload(ctx, len(strs), e.store.Size(), err)

	return ids, err
}

func (e *Engine) add(ctx context.Context, strs []string) ([]uint64, error) {
	if len(strs) == 0 {
		return nil, nil
	}
	if err := corpus.Validate(strs); err != nil {
		return nil, translateError(err)
	}
	if err := e.rc.AcquireUpload(ctx, len(strs)); err != nil {
		return nil, fmt.Errorf("strknn: upload not admitted: %w", err)
	}

	ids, err := e.store.Append(strs)
	if err != nil {
		return nil, translateError(err)
	}

	// Older versions are unreachable through their keys; drop them eagerly.
	e.cache.Purge()

	return ids, nil
}

// Query returns up to k uploaded strings closest to text, closest first.
// Ties are broken by upload order. orderSensitive selects phrase alignment;
// false compares the token multisets.
func (e *Engine) Query(ctx context.Context, text string, k int, orderSensitive bool) ([]string, error) {
	results, err := e.Search(ctx, text, k, orderSensitive)
	if err != nil {
		return nil, err
	}
	return texts(results), nil
}

// Search is Query returning IDs and distances.
func (e *Engine) Search(ctx context.Context, text string, k int, orderSensitive bool) ([]Result, error) {
	return e.search(ctx, request{
		text:     text,
		k:        k,
		mode:     matcher.ModeOf(orderSensitive),
		strategy: e.opts.setStrategy,
	})
}

// Size returns the number of entries.
func (e *Engine) Size() int {
	return e.store.Size()
}

// Entries returns all entries in upload order. The slice must not be modified.
func (e *Engine) Entries() []Entry {
	return e.store.Entries()
}

// Stats returns a snapshot of the engine state.
func (e *Engine) Stats() Stats {
	snap := e.store.Snapshot()
	return Stats{
		Size:            snap.Len(),
		Version:         snap.Version(),
		QueriesInFlight: e.rc.QueriesInFlight(),
		Cache:           e.cache.Stats(),
		Limits:          e.rc.Config(),
	}
}

type request struct {
	text     string
	k        int
	mode     matcher.Mode
	strategy matcher.SetStrategy
	filter   *roaring64.Bitmap
}

func (r request) cacheKey(q token.Sequence, version uint64) cache.Key {
	key := cache.Key{
		Query:   q.String(),
		K:       r.k,
		Mode:    r.mode,
		Version: version,
	}
	if r.mode == matcher.OrderIndependent {
		key.Strategy = r.strategy
	}
	return key
}

func (e *Engine) search(ctx context.Context, req request) ([]Result, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if req.k < 1 {
		return nil, invalidInput("k", "must be >= 1, got %d", req.k)
	}
	if !utf8.ValidString(req.text) {
		return nil, invalidInput("text", "not valid UTF-8")
	}

	distance, err := matcher.Provider(req.mode, req.strategy)
	if err != nil {
		return nil, translateError(err)
	}

	if err := e.rc.AcquireQuery(ctx); err != nil {
		return nil, fmt.Errorf("strknn: query not admitted: %w", err)
	}
	defer e.rc.ReleaseQuery()

	snap := e.store.Snapshot()
	q := e.store.Tokenizer().Tokenize(req.text)
	orderSensitive := req.mode == matcher.OrderSensitive

	var key cache.Key
	if req.filter == nil {
		key = req.cacheKey(q, snap.Version())
		if cands, ok := e.cache.Get(key); ok {
			e.metrics.RecordCacheHit(req.k)
			e.logger.LogCacheHit(ctx, req.k, orderSensitive, len(cands))
			return materialize(snap, cands), nil
		}
	}

	if e.opts.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := searcher.Search(ctx, snap, q, searcher.Options{
		K:           req.k,
		Distance:    distance,
		Parallelism: e.opts.parallelism,
		Filter:      req.filter,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("strknn: query aborted: %w", err)
		} else {
			err = translateError(err)
		}
		e.metrics.RecordQuery(req.k, 0, 0, time.Since(start), err)
		e.logger.LogQuery(ctx, req.k, orderSensitive, 0, 0, 0, err)
		return nil, err
	}

	e.metrics.RecordQuery(req.k, res.Scored, res.Pruned, time.Since(start), nil)
	e.logger.LogQuery(ctx, req.k, orderSensitive, len(res.Candidates), res.Scored, res.Pruned, nil)

	if req.filter == nil {
		e.cache.Add(key, res.Candidates)
	}

	return materialize(snap, res.Candidates), nil
}

func materialize(snap *corpus.Snapshot, cands []searcher.Candidate) []Result {
	results := make([]Result, len(cands))
	for i, c := range cands {
		results[i] = Result{
			ID:       c.ID,
			Text:     snap.At(int(c.ID)).Original,
			Distance: c.Distance,
		}
	}
	return results
}

func texts(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Text
	}
	return out
}
