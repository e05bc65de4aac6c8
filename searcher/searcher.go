// Package searcher implements exhaustive top-k selection over a corpus snapshot.
//
// Every entry is scored with a matcher.Func and the k closest are kept in a
// bounded max-heap. Ties in distance are broken by ascending ID, so results are
// deterministic for a given snapshot and query. Large snapshots are split into
// contiguous partitions that are scanned in parallel and merged.
package searcher

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/strknn/corpus"
	"github.com/hupe1980/strknn/matcher"
	"github.com/hupe1980/strknn/token"
)

// ErrNoDistance is returned when Options.Distance is nil.
var ErrNoDistance = errors.New("searcher: distance function is required")

const (
	// DefaultMinPartitionSize is the smallest number of entries worth a goroutine.
	DefaultMinPartitionSize = 512

	// ctxCheckInterval is how many entries are scored between context checks.
	ctxCheckInterval = 64
)

// Options configures a search.
type Options struct {
	// K is the number of results. Values < 1 yield no results.
	K int

	// Distance scores the query against an entry.
	Distance matcher.Func

	// Parallelism caps the number of scanning goroutines.
	// Zero means runtime.GOMAXPROCS(0).
	Parallelism int

	// MinPartitionSize is the minimum number of entries per goroutine.
	// Zero means DefaultMinPartitionSize.
	MinPartitionSize int

	// Filter restricts the search to entries whose ID is in the bitmap.
	// A nil filter admits every entry.
	Filter *roaring64.Bitmap

	// DisablePruning scores every entry even when its length lower bound
	// already excludes it from the result.
	DisablePruning bool
}

// Result holds the ranked candidates and scan statistics.
type Result struct {
	// Candidates are ordered best first.
	Candidates []Candidate
	// Scored is the number of entries for which the distance was computed.
	Scored int
	// Pruned is the number of entries skipped by the lower bound.
	Pruned int
}

var queuePool = sync.Pool{
	New: func() any {
		return NewPriorityQueue(16)
	},
}

// Search returns the K entries of snap closest to query.
// The scan aborts with the context error if ctx is done.
func Search(ctx context.Context, snap *corpus.Snapshot, query token.Sequence, opts Options) (*Result, error) {
	if opts.Distance == nil {
		return nil, ErrNoDistance
	}
	if opts.K < 1 || snap.Len() == 0 {
		return &Result{}, nil
	}

	s := scanner{
		query:  query,
		qRunes: query.Runes(),
		opts:   opts,
	}

	if opts.Filter != nil && opts.Filter.GetCardinality() < uint64(snap.Len())/4 {
		return s.scanFiltered(ctx, snap)
	}

	parts := partitions(snap.Len(), opts.Parallelism, opts.MinPartitionSize)
	if len(parts) == 1 {
		return s.scanSingle(ctx, snap)
	}
	return s.scanParallel(ctx, snap, parts)
}

type span struct {
	start, end int
}

// partitions splits [0, n) into contiguous spans.
func partitions(n, parallelism, minSize int) []span {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	if minSize <= 0 {
		minSize = DefaultMinPartitionSize
	}

	count := min(parallelism, max(1, n/minSize))
	size := (n + count - 1) / count

	parts := make([]span, 0, count)
	for start := 0; start < n; start += size {
		parts = append(parts, span{start: start, end: min(start+size, n)})
	}
	return parts
}

type scanner struct {
	query  token.Sequence
	qRunes int
	opts   Options
}

type stats struct {
	scored, pruned int
}

// visit scores one entry into pq.
func (s *scanner) visit(pq *PriorityQueue, e corpus.Entry, st *stats) {
	if !s.opts.DisablePruning && pq.Len() >= s.opts.K {
		worst, _ := pq.Top()
		if matcher.LowerBound(s.qRunes, e.Runes) > worst.Distance {
			st.pruned++
			return
		}
	}

	st.scored++
	pq.PushBounded(Candidate{ID: e.ID, Distance: s.opts.Distance(s.query, e.Tokens)}, s.opts.K)
}

func (s *scanner) scanRange(ctx context.Context, snap *corpus.Snapshot, sp span, pq *PriorityQueue, st *stats) error {
	for i := sp.start; i < sp.end; i++ {
		if (i-sp.start)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		e := snap.At(i)
		if s.opts.Filter != nil && !s.opts.Filter.Contains(e.ID) {
			continue
		}
		s.visit(pq, e, st)
	}
	return nil
}

func (s *scanner) scanSingle(ctx context.Context, snap *corpus.Snapshot) (*Result, error) {
	pq := acquireQueue()
	defer releaseQueue(pq)

	var st stats
	if err := s.scanRange(ctx, snap, span{start: 0, end: snap.Len()}, pq, &st); err != nil {
		return nil, err
	}

	return &Result{Candidates: pq.Sorted(), Scored: st.scored, Pruned: st.pruned}, nil
}

// scanFiltered walks the filter bitmap instead of the whole snapshot.
func (s *scanner) scanFiltered(ctx context.Context, snap *corpus.Snapshot) (*Result, error) {
	pq := acquireQueue()
	defer releaseQueue(pq)

	var st stats
	n := uint64(snap.Len())
	it := s.opts.Filter.Iterator()
	for visited := 0; it.HasNext(); visited++ {
		if visited%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		id := it.Next()
		if id >= n {
			// IDs are ascending; the rest are not in this snapshot.
			break
		}
		s.visit(pq, snap.At(int(id)), &st)
	}

	return &Result{Candidates: pq.Sorted(), Scored: st.scored, Pruned: st.pruned}, nil
}

func (s *scanner) scanParallel(ctx context.Context, snap *corpus.Snapshot, parts []span) (*Result, error) {
	partials := make([][]Candidate, len(parts))
	partStats := make([]stats, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	for i, sp := range parts {
		g.Go(func() error {
			pq := acquireQueue()
			defer releaseQueue(pq)

			if err := s.scanRange(gctx, snap, sp, pq, &partStats[i]); err != nil {
				return err
			}
			partials[i] = slices.Clone(pq.items)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := NewPriorityQueue(min(s.opts.K, snap.Len()))
	res := &Result{}
	for i, part := range partials {
		for _, c := range part {
			merged.PushBounded(c, s.opts.K)
		}
		res.Scored += partStats[i].scored
		res.Pruned += partStats[i].pruned
	}
	res.Candidates = merged.Sorted()
	return res, nil
}

func acquireQueue() *PriorityQueue {
	return queuePool.Get().(*PriorityQueue)
}

func releaseQueue(pq *PriorityQueue) {
	pq.Reset()
	queuePool.Put(pq)
}
