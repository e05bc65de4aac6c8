// Package matcher computes distances between token sequences.
//
// Two semantics are provided, both built on distance.Token:
//
//   - Sequence: order-sensitive. A token-level alignment where matching two
//     tokens costs their edit distance and skipping a token costs its length.
//     Reordered phrases need two skips where a near match needs one cheap
//     substitution, so they score worse.
//   - Set: order-independent. Both sequences are treated as multisets and a
//     minimum-cost bipartite matching (Hungarian algorithm) pairs their tokens;
//     tokens left over when the sizes differ are charged their length.
//     SetGreedy is a faster approximation that may overestimate.
//
// # Usage
//
//	q := token.Tokenize("premium techno device")
//	c := token.Tokenize("device premium techno")
//	matcher.Set(q, c)      // 0
//	matcher.Sequence(q, c) // > 0
//
//	fn, _ := matcher.Provider(matcher.OrderIndependent, matcher.SetExact)
//	d := fn(q, c)
package matcher
