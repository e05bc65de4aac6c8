// Package strknn provides an in-memory fuzzy top-k search engine for short
// strings such as words, product names or phrases.
//
// Strings are uploaded into an append-only corpus and queried for the k
// entries closest to an input text. Closeness is an edit distance over
// word tokens, so character-level typos ("aple" for "apple") are tolerated.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng, _ := strknn.New()
//	defer eng.Close()
//
//	_ = eng.Upload(ctx, []string{"apple", "banana", "orange"})
//	top, _ := eng.Query(ctx, "aple", 1, true) // ["apple"]
//
// # Word Order
//
// Queries run in one of two modes:
//
//	// Order-sensitive: tokens are aligned like characters in an edit
//	// distance. Skipping a token costs its length, so reordered phrases
//	// score worse than in-order near matches.
//	eng.Query(ctx, "premium techno device", 3, true)
//
//	// Order-independent: tokens are matched as a multiset with a minimum
//	// cost assignment. Reorderings of the same words have distance 0.
//	eng.Query(ctx, "premium techno device", 3, false)
//
// Order-independent matching uses the Hungarian algorithm by default.
// WithSetStrategy(matcher.SetApproximate) switches to a greedy matching that
// is cheaper but may overestimate distances.
//
// # Ranking
//
// Results are ordered by ascending distance. Ties are broken by upload
// order, so identical corpora and queries always produce identical results.
// Asking for more results than the corpus holds returns the whole corpus.
//
// # Fluent Search
//
//	results, err := eng.Find("aple").
//	    K(5).
//	    Unordered().
//	    Within(ids). // *roaring64.Bitmap of entry IDs
//	    Execute(ctx)
//
// # Concurrency
//
// An Engine is safe for concurrent use. Uploads are serialized and publish a
// new immutable snapshot; queries scan the snapshot current at their start,
// in parallel partitions for large corpora, and never block uploads.
//
// # Errors
//
// Invalid arguments return an error matching ErrInvalidInput. A failed upload
// leaves the corpus unchanged.
//
//	if errors.Is(err, strknn.ErrInvalidInput) {
//	    var iie *strknn.InvalidInputError
//	    errors.As(err, &iie)
//	    log.Printf("bad %s: %s", iie.Field, iie.Reason)
//	}
package strknn
