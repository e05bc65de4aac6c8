package matcher

import (
	"errors"
	"fmt"

	"github.com/hupe1980/strknn/distance"
	"github.com/hupe1980/strknn/token"
)

var (
	// ErrUnknownMode is returned by Provider for an unsupported Mode.
	ErrUnknownMode = errors.New("matcher: unknown mode")

	// ErrUnknownStrategy is returned by Provider for an unsupported SetStrategy.
	ErrUnknownStrategy = errors.New("matcher: unknown set strategy")
)

// Mode selects the distance semantics.
type Mode int

const (
	// OrderSensitive aligns tokens in order (Sequence).
	OrderSensitive Mode = iota
	// OrderIndependent matches tokens as multisets (Set or SetGreedy).
	OrderIndependent
)

func (m Mode) String() string {
	switch m {
	case OrderSensitive:
		return "OrderSensitive"
	case OrderIndependent:
		return "OrderIndependent"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ModeOf maps the boolean order flag used at the API boundary to a Mode.
func ModeOf(orderSensitive bool) Mode {
	if orderSensitive {
		return OrderSensitive
	}
	return OrderIndependent
}

// SetStrategy selects how order-independent matching is solved.
type SetStrategy int

const (
	// SetExact solves the assignment problem exactly.
	SetExact SetStrategy = iota
	// SetApproximate matches greedily by ascending token distance.
	SetApproximate
)

func (s SetStrategy) String() string {
	switch s {
	case SetExact:
		return "Exact"
	case SetApproximate:
		return "Greedy"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Func is a distance function between a query and a candidate sequence.
type Func func(q, c token.Sequence) float64

// Provider returns the distance function for the given mode and strategy.
// The strategy only matters for OrderIndependent.
func Provider(m Mode, s SetStrategy) (Func, error) {
	switch m {
	case OrderSensitive:
		return Sequence, nil
	case OrderIndependent:
		switch s {
		case SetExact:
			return Set, nil
		case SetApproximate:
			return SetGreedy, nil
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, m)
	}
}

// LowerBound returns a lower bound for both Sequence and Set distance between
// sequences whose total rune lengths are qRunes and cRunes. Every alignment or
// matching step costs at least the length change it causes.
func LowerBound(qRunes, cRunes int) float64 {
	return float64(distance.LowerBound(qRunes, cRunes))
}

// tokenLengths returns the rune length of every token.
func tokenLengths(s token.Sequence) []int {
	lens := make([]int, len(s))
	for i, t := range s {
		lens[i] = t.Len()
	}
	return lens
}
