package distance

import (
	"testing"

	"github.com/hupe1980/strknn/testutil"
	"github.com/hupe1980/strknn/token"
	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"Identical", "apple", "apple", 0},
		{"BothEmpty", "", "", 0},
		{"EmptyLeft", "", "apple", 5},
		{"EmptyRight", "apple", "", 5},
		{"Deletion", "apple", "aple", 1},
		{"Insertion", "aple", "apple", 1},
		{"Substitution", "apple", "apply", 1},
		{"Classic", "kitten", "sitting", 3},
		{"NoTransposition", "ab", "ba", 2},
		{"Disjoint", "abc", "xyz", 3},
		{"Unicode", "über", "uber", 1},
		{"UnicodeEmpty", "", "日本語", 3},
		{"InnerChange", "flaw", "lawn", 2},
		{"Long", "intention", "execution", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "not symmetric")
		})
	}
}

func TestToken(t *testing.T) {
	assert.Equal(t, 0, Token("apple", "apple"))
	assert.Equal(t, 1, Token("aple", "apple"))
	assert.Equal(t, 6, Token("banana", token.Token("")))
}

func TestLevenshteinMetricProperties(t *testing.T) {
	rng := testutil.NewRNG(7)

	words := make([]string, 0, 60)
	for range 20 {
		w := rng.Word(1, 8)
		words = append(words, w, rng.Typo(w), rng.Typo(rng.Typo(w)))
	}

	for _, a := range words {
		assert.Equal(t, 0, Levenshtein(a, a))
		for _, b := range words {
			ab := Levenshtein(a, b)
			assert.Equal(t, ab, Levenshtein(b, a))
			assert.GreaterOrEqual(t, ab, LowerBound(len([]rune(a)), len([]rune(b))))
			for _, c := range words {
				assert.LessOrEqual(t, Levenshtein(a, c), ab+Levenshtein(b, c),
					"triangle inequality violated for %q %q %q", a, b, c)
			}
		}
	}
}

func TestLowerBound(t *testing.T) {
	assert.Equal(t, 0, LowerBound(3, 3))
	assert.Equal(t, 2, LowerBound(5, 3))
	assert.Equal(t, 2, LowerBound(3, 5))
}

func BenchmarkLevenshtein(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = Levenshtein("pineapple", "apple")
	}
}
