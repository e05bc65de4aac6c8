// Package testutil provides testing utilities for strknn.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random words and phrases, injecting
// typos, and computing exact top-k results by brute force.
//
// # Random Corpora
//
//	rng := testutil.NewRNG(seed)
//	word := rng.Word(3, 8)        // lower-case ASCII word
//	phrase := rng.Phrase(3, 3, 8) // three words
//	typo := rng.Typo(word)        // one random edit away
//
// # Exact Search (Ground Truth)
//
//	results := testutil.ExactTopK(query, corpus, k, matcher.Sequence)
package testutil
