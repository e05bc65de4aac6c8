package testutil

import (
	"cmp"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/strknn/token"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// SearchResult represents a search result.
type SearchResult struct {
	ID       uint64
	Distance float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Word returns a random lower-case ASCII word with a length in [minLen, maxLen].
func (r *RNG) Word(minLen, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wordLocked(minLen, maxLen)
}

func (r *RNG) wordLocked(minLen, maxLen int) string {
	n := minLen
	if maxLen > minLen {
		n += r.rand.Intn(maxLen - minLen + 1)
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Words returns num random words.
func (r *RNG) Words(num, minLen, maxLen int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	words := make([]string, num)
	for i := range words {
		words[i] = r.wordLocked(minLen, maxLen)
	}
	return words
}

// Phrase returns numWords random words joined by single spaces.
func (r *RNG) Phrase(numWords, minLen, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	words := make([]string, numWords)
	for i := range words {
		words[i] = r.wordLocked(minLen, maxLen)
	}
	return strings.Join(words, " ")
}

// Typo applies one random insertion, deletion or substitution to an ASCII word.
// The result is at most one edit away from w.
func (r *RNG) Typo(w string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := []byte(w)
	op := r.rand.Intn(3)
	if len(b) == 0 {
		op = 0
	}

	switch op {
	case 0: // insert
		pos := r.rand.Intn(len(b) + 1)
		c := alphabet[r.rand.Intn(len(alphabet))]
		b = slices.Insert(b, pos, c)
	case 1: // delete
		pos := r.rand.Intn(len(b))
		b = slices.Delete(b, pos, pos+1)
	default: // substitute
		pos := r.rand.Intn(len(b))
		b[pos] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Shuffle returns the words of phrase in random order.
func (r *RNG) Shuffle(phrase string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	words := strings.Fields(phrase)
	r.rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	return strings.Join(words, " ")
}

// ExactTopK computes the k closest sequences to query by brute force.
// IDs are the positions in corpus; ties are broken by ascending ID.
func ExactTopK(query token.Sequence, corpus []token.Sequence, k int, fn func(q, c token.Sequence) float64) []SearchResult {
	results := make([]SearchResult, len(corpus))
	for i, c := range corpus {
		results[i] = SearchResult{ID: uint64(i), Distance: fn(query, c)}
	}

	slices.SortFunc(results, func(a, b SearchResult) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}
