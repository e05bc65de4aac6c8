package matcher

import (
	"cmp"
	"math"
	"slices"

	"github.com/hupe1980/strknn/distance"
	"github.com/hupe1980/strknn/token"
)

// Set returns the order-independent distance between q and c: the cost of a
// minimum-cost matching between their tokens plus the length of every token
// left unmatched.
//
// The assignment is solved exactly with the Hungarian algorithm on an n×n
// matrix, n = max(len(q), len(c)). Dummy rows and columns pair a real token
// with "nothing" at the cost of its own length.
func Set(q, c token.Sequence) float64 {
	if len(q) == 0 || len(c) == 0 {
		return float64(q.Runes() + c.Runes())
	}
	if len(q) == 1 && len(c) == 1 {
		return float64(distance.Token(q[0], c[0]))
	}

	n := max(len(q), len(c))
	qLen := tokenLengths(q)
	cLen := tokenLengths(c)

	cost := make([]int, n*n)
	for i := range n {
		for j := range n {
			var v int
			switch {
			case i < len(q) && j < len(c):
				v = distance.Token(q[i], c[j])
			case i < len(q):
				v = qLen[i]
			default:
				v = cLen[j]
			}
			cost[i*n+j] = v
		}
	}

	return float64(hungarian(cost, n))
}

// hungarian returns the minimum total cost of a perfect assignment on the
// n×n row-major cost matrix. It runs in O(n³) using row/column potentials.
func hungarian(cost []int, n int) int {
	const inf = math.MaxInt / 2

	// 1-indexed; column 0 is a virtual start column.
	u := make([]int, n+1)
	v := make([]int, n+1)
	p := make([]int, n+1) // p[j] = row assigned to column j
	way := make([]int, n+1)
	minv := make([]int, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[(i0-1)*n+(j-1)] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the alternating path.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	total := 0
	for j := 1; j <= n; j++ {
		total += cost[(p[j]-1)*n+(j-1)]
	}
	return total
}

type pair struct {
	i, j int
	d    int
}

// SetGreedy approximates Set by repeatedly matching the globally closest pair
// of still-unmatched tokens (ties broken by position). It never returns less
// than Set and can return more in pathological cases, e.g. when taking one
// cheap pair forces two expensive ones.
func SetGreedy(q, c token.Sequence) float64 {
	if len(q) == 0 || len(c) == 0 {
		return float64(q.Runes() + c.Runes())
	}

	pairs := make([]pair, 0, len(q)*len(c))
	for i := range q {
		for j := range c {
			pairs = append(pairs, pair{i: i, j: j, d: distance.Token(q[i], c[j])})
		}
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		if r := cmp.Compare(a.d, b.d); r != 0 {
			return r
		}
		if r := cmp.Compare(a.i, b.i); r != 0 {
			return r
		}
		return cmp.Compare(a.j, b.j)
	})

	qUsed := make([]bool, len(q))
	cUsed := make([]bool, len(c))
	matched := 0
	total := 0
	for _, p := range pairs {
		if qUsed[p.i] || cUsed[p.j] {
			continue
		}
		qUsed[p.i] = true
		cUsed[p.j] = true
		total += p.d
		matched++
		if matched == min(len(q), len(c)) {
			break
		}
	}

	for i, used := range qUsed {
		if !used {
			total += q[i].Len()
		}
	}
	for j, used := range cUsed {
		if !used {
			total += c[j].Len()
		}
	}
	return float64(total)
}
