// Package distance provides character-level edit distance between tokens.
//
// Distances are plain Levenshtein distances over runes: the minimum number of
// single-rune insertions, deletions or substitutions (each costing 1) needed to
// turn one string into the other. Transpositions are not a primitive
// operation.
//
// The distance is a metric:
//
//   - Levenshtein(a, a) == 0
//   - Levenshtein(a, b) == Levenshtein(b, a)
//   - Levenshtein(a, c) <= Levenshtein(a, b) + Levenshtein(b, c)
//
// and is bounded below by the length difference, see LowerBound.
//
// # Usage
//
//	d := distance.Levenshtein("aple", "apple") // 1
//	d = distance.Token(token.Token("kitten"), token.Token("sitting")) // 3
package distance
