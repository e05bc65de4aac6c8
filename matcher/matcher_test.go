package matcher

import (
	"testing"

	"github.com/hupe1980/strknn/testutil"
	"github.com/hupe1980/strknn/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(s string) token.Sequence {
	return token.Tokenize(s)
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name     string
		q, c     string
		expected float64
	}{
		{"Identical", "premium techno device", "premium techno device", 0},
		{"BothEmpty", "", "", 0},
		{"EmptyQuery", "", "apple pie", 8},
		{"EmptyCandidate", "apple pie", "", 8},
		{"Typo", "aple", "apple", 1},
		{"DroppedToken", "apple pie", "apple", 3},
		{"SingleTokens", "a", "bcd", 3},
		{"SwapTwo", "ab cd", "cd ab", 4},
		{"SwapTail", "premium techno device", "premium device techno", 10},
		{"RotateLeft", "premium techno device", "device premium techno", 12},
		{"RotateRight", "premium techno device", "techno premium device", 12},
		{"Different", "premium techno device", "budget device retro", 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sequence(seq(tt.q), seq(tt.c)))
			assert.Equal(t, tt.expected, Sequence(seq(tt.c), seq(tt.q)), "not symmetric")
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name     string
		q, c     string
		expected float64
	}{
		{"Identical", "premium techno device", "premium techno device", 0},
		{"BothEmpty", "", "", 0},
		{"EmptyQuery", "", "apple pie", 8},
		{"Typo", "aple", "apple", 1},
		{"DroppedToken", "apple pie", "apple", 3},
		{"SwapTwo", "ab cd", "cd ab", 0},
		{"SwapTail", "premium techno device", "premium device techno", 0},
		{"RotateLeft", "premium techno device", "device premium techno", 0},
		{"RotateRight", "premium techno device", "techno premium device", 0},
		{"Different", "premium techno device", "budget device retro", 11},
		{"PartialOverlap", "premium techno device", "luxury premium gadget", 12},
		{"Multiset", "a a b", "a b b", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Set(seq(tt.q), seq(tt.c)))
			assert.Equal(t, tt.expected, Set(seq(tt.c), seq(tt.q)), "not symmetric")
		})
	}
}

func TestSetGreedy(t *testing.T) {
	q := seq("premium techno device")
	assert.Equal(t, 0.0, SetGreedy(q, seq("device premium techno")))
	assert.Equal(t, 11.0, SetGreedy(q, seq("budget device retro")))
	assert.Equal(t, 8.0, SetGreedy(nil, seq("apple pie")))

	// Taking the cheap ba/b pair first forces a worse overall matching.
	pq := token.Sequence{"ba", "aa"}
	pc := token.Sequence{"b", "bab", "bb"}
	assert.Equal(t, 4.0, Set(pq, pc))
	assert.Equal(t, 5.0, SetGreedy(pq, pc))
}

func TestSetNeverWorseThanGreedy(t *testing.T) {
	rng := testutil.NewRNG(42)

	for range 300 {
		q := seq(rng.Phrase(1+rng.Intn(4), 1, 4))
		c := seq(rng.Phrase(1+rng.Intn(4), 1, 4))

		exact := Set(q, c)
		assert.LessOrEqual(t, exact, SetGreedy(q, c), "q=%v c=%v", q, c)
		assert.LessOrEqual(t, exact, Sequence(q, c), "q=%v c=%v", q, c)
		assert.GreaterOrEqual(t, exact, LowerBound(q.Runes(), c.Runes()), "q=%v c=%v", q, c)
	}
}

func TestSetIgnoresOrder(t *testing.T) {
	rng := testutil.NewRNG(99)

	for range 50 {
		phrase := rng.Phrase(4, 2, 6)
		q := seq(phrase)
		c := seq(rng.Shuffle(phrase))
		assert.Equal(t, 0.0, Set(q, c))
		assert.Equal(t, 0.0, SetGreedy(q, c))
	}
}

func TestSequenceLowerBound(t *testing.T) {
	rng := testutil.NewRNG(11)

	for range 300 {
		q := seq(rng.Phrase(1+rng.Intn(4), 1, 6))
		c := seq(rng.Phrase(1+rng.Intn(4), 1, 6))
		assert.GreaterOrEqual(t, Sequence(q, c), LowerBound(q.Runes(), c.Runes()))
	}
}

func TestProvider(t *testing.T) {
	q := seq("ab cd")
	c := seq("cd ab")

	fn, err := Provider(OrderSensitive, SetExact)
	require.NoError(t, err)
	assert.Equal(t, 4.0, fn(q, c))

	fn, err = Provider(OrderIndependent, SetExact)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fn(q, c))

	fn, err = Provider(OrderIndependent, SetApproximate)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fn(q, c))

	_, err = Provider(Mode(42), SetExact)
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = Provider(OrderIndependent, SetStrategy(42))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestModeOf(t *testing.T) {
	assert.Equal(t, OrderSensitive, ModeOf(true))
	assert.Equal(t, OrderIndependent, ModeOf(false))
	assert.Equal(t, "OrderSensitive", OrderSensitive.String())
	assert.Equal(t, "Unknown(7)", Mode(7).String())
	assert.Equal(t, "Greedy", SetApproximate.String())
}

func BenchmarkSet(b *testing.B) {
	q := seq("premium techno device gadget")
	c := seq("luxury premium gadget device retro")

	b.ReportAllocs()
	for b.Loop() {
		_ = Set(q, c)
	}
}

func BenchmarkSequence(b *testing.B) {
	q := seq("premium techno device gadget")
	c := seq("luxury premium gadget device retro")

	b.ReportAllocs()
	for b.Loop() {
		_ = Sequence(q, c)
	}
}
