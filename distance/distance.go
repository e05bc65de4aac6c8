package distance

import (
	"sync"
	"unicode/utf8"

	"github.com/hupe1980/strknn/token"
)

// rowPool holds DP rows so that the steady-state path does not allocate.
var rowPool = sync.Pool{
	New: func() any {
		s := make([]int, 0, 64)
		return &s
	},
}

// runePool holds rune buffers for decoding the two operands.
var runePool = sync.Pool{
	New: func() any {
		s := make([]rune, 0, 64)
		return &s
	},
}

// Token returns the edit distance between two tokens.
func Token(a, b token.Token) int {
	return Levenshtein(string(a), string(b))
}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return utf8.RuneCountInString(b)
	}
	if b == "" {
		return utf8.RuneCountInString(a)
	}

	ra := runePool.Get().(*[]rune)
	rb := runePool.Get().(*[]rune)
	defer runePool.Put(ra)
	defer runePool.Put(rb)

	*ra = appendRunes((*ra)[:0], a)
	*rb = appendRunes((*rb)[:0], b)

	return levenshteinRunes(*ra, *rb)
}

func appendRunes(dst []rune, s string) []rune {
	for _, r := range s {
		dst = append(dst, r)
	}
	return dst
}

func levenshteinRunes(a, b []rune) int {
	// Common prefix and suffix do not contribute to the distance.
	for len(a) > 0 && len(b) > 0 && a[0] == b[0] {
		a, b = a[1:], b[1:]
	}
	for len(a) > 0 && len(b) > 0 && a[len(a)-1] == b[len(b)-1] {
		a, b = a[:len(a)-1], b[:len(b)-1]
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep the row over the shorter operand.
	if len(b) > len(a) {
		a, b = b, a
	}

	rowPtr := rowPool.Get().(*[]int)
	defer rowPool.Put(rowPtr)

	if cap(*rowPtr) < len(b)+1 {
		*rowPtr = make([]int, len(b)+1)
	}
	row := (*rowPtr)[:len(b)+1]
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			up := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			// deletion, insertion, substitution
			row[j] = min(up+1, row[j-1]+1, diag+cost)
			diag = up
		}
	}

	return row[len(b)]
}

// LowerBound returns a lower bound on the edit distance between two strings of
// rune lengths a and b.
func LowerBound(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
