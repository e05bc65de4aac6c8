package strknn

import (
	"context"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/strknn/matcher"
)

// DefaultK is the number of results a SearchBuilder returns unless K is set.
const DefaultK = 10

// Find creates a new fluent search builder for the given query text.
// The builder defaults to DefaultK order-sensitive results.
//
// Example:
//
//	results, err := eng.Find("premium techno device").
//	    K(3).
//	    Unordered().
//	    Execute(ctx)
//
//	// Or with streaming:
//	for result, err := range eng.Find("aple").K(100).Stream(ctx) {
//	    if err != nil { break }
//	    if result.Distance > 2 { break }
//	    process(result)
//	}
func (e *Engine) Find(text string) *SearchBuilder {
	return &SearchBuilder{
		e:        e,
		text:     text,
		k:        DefaultK,
		mode:     matcher.OrderSensitive,
		strategy: e.opts.setStrategy,
	}
}

// SearchBuilder is a fluent builder for constructing search queries.
type SearchBuilder struct {
	e        *Engine
	text     string
	k        int
	mode     matcher.Mode
	strategy matcher.SetStrategy
	filter   *roaring64.Bitmap
}

// K sets the maximum number of results.
func (sb *SearchBuilder) K(k int) *SearchBuilder {
	sb.k = k
	return sb
}

// Ordered compares token sequences by alignment. This is the default.
func (sb *SearchBuilder) Ordered() *SearchBuilder {
	sb.mode = matcher.OrderSensitive
	return sb
}

// Unordered compares token multisets, ignoring word order.
func (sb *SearchBuilder) Unordered() *SearchBuilder {
	sb.mode = matcher.OrderIndependent
	return sb
}

// Greedy is Unordered with greedy token matching. It is faster than the
// exact assignment but may overestimate distances.
func (sb *SearchBuilder) Greedy() *SearchBuilder {
	sb.mode = matcher.OrderIndependent
	sb.strategy = matcher.SetApproximate
	return sb
}

// Within restricts the search to the entry IDs in ids.
// Filtered searches bypass the result cache.
func (sb *SearchBuilder) Within(ids *roaring64.Bitmap) *SearchBuilder {
	sb.filter = ids
	return sb
}

// Execute runs the search and returns the results.
func (sb *SearchBuilder) Execute(ctx context.Context) ([]Result, error) {
	return sb.e.search(ctx, request{
		text:     sb.text,
		k:        sb.k,
		mode:     sb.mode,
		strategy: sb.strategy,
		filter:   sb.filter,
	})
}

// MustExecute runs the search, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (sb *SearchBuilder) MustExecute(ctx context.Context) []Result {
	results, err := sb.Execute(ctx)
	if err != nil {
		panic(err)
	}
	return results
}

// Strings runs the search and returns the matched strings.
func (sb *SearchBuilder) Strings(ctx context.Context) ([]string, error) {
	results, err := sb.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return texts(results), nil
}

// Stream returns an iterator over search results, nearest first.
// The iterator supports early termination by breaking from the loop.
// An error is yielded once, with a zero Result.
func (sb *SearchBuilder) Stream(ctx context.Context) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		results, err := sb.Execute(ctx)
		if err != nil {
			yield(Result{}, err)
			return
		}
		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// First returns only the nearest result, or ErrNotFound if the corpus (or
// the Within filter) is empty.
func (sb *SearchBuilder) First(ctx context.Context) (Result, error) {
	sb.k = 1
	results, err := sb.Execute(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return Result{}, ErrNotFound
	}
	return results[0], nil
}
