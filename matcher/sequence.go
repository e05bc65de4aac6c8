package matcher

import (
	"github.com/hupe1980/strknn/distance"
	"github.com/hupe1980/strknn/token"
)

// Sequence returns the order-sensitive distance between q and c.
//
// D[i][j] is the minimal cost of aligning q[:i] with c[:j]:
//
//	D[i][j] = min(D[i-1][j-1] + d(q[i-1], c[j-1]),
//	              D[i-1][j]   + len(q[i-1]),
//	              D[i][j-1]   + len(c[j-1]))
//
// with D[0][0] = 0 and the borders accumulating token lengths.
func Sequence(q, c token.Sequence) float64 {
	if len(q) == 0 || len(c) == 0 {
		return float64(q.Runes() + c.Runes())
	}

	qLen := tokenLengths(q)
	cLen := tokenLengths(c)

	prev := make([]int, len(c)+1)
	curr := make([]int, len(c)+1)

	for j := 1; j <= len(c); j++ {
		prev[j] = prev[j-1] + cLen[j-1]
	}

	for i := 1; i <= len(q); i++ {
		curr[0] = prev[0] + qLen[i-1]
		for j := 1; j <= len(c); j++ {
			curr[j] = min(
				prev[j-1]+distance.Token(q[i-1], c[j-1]),
				prev[j]+qLen[i-1],
				curr[j-1]+cLen[j-1],
			)
		}
		prev, curr = curr, prev
	}

	return float64(prev[len(c)])
}
