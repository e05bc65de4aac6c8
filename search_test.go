package strknn_test

import (
	"context"
	"testing"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/strknn"
)

func TestSearchBuilder(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, []string{
		"techno premium device", // 0
		"premium device techno", // 1
		"device premium techno", // 2
		"apple",                 // 3
		"maple",                 // 4
		"b bab bb",              // 5
	})

	t.Run("Defaults", func(t *testing.T) {
		res, err := eng.Find("premium techno device").Execute(ctx)
		require.NoError(t, err)
		require.Len(t, res, 6)
		assert.Equal(t, uint64(1), res[0].ID)
		assert.Equal(t, 10.0, res[0].Distance)
	})

	t.Run("K", func(t *testing.T) {
		res, err := eng.Find("aple").K(2).Strings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "maple"}, res)
	})

	t.Run("Unordered", func(t *testing.T) {
		res, err := eng.Find("premium techno device").K(3).Unordered().Execute(ctx)
		require.NoError(t, err)
		require.Len(t, res, 3)
		for i, r := range res {
			assert.Equal(t, uint64(i), r.ID)
			assert.Zero(t, r.Distance)
		}
	})

	t.Run("OrderedOverridesUnordered", func(t *testing.T) {
		res, err := eng.Find("premium techno device").K(1).Unordered().Ordered().Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), res[0].ID)
		assert.Equal(t, 10.0, res[0].Distance)
	})

	t.Run("Greedy", func(t *testing.T) {
		r, err := eng.Find("ba aa").Greedy().First(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b bab bb", r.Text)
		assert.Equal(t, 5.0, r.Distance)

		r, err = eng.Find("ba aa").Unordered().First(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4.0, r.Distance)
	})

	t.Run("Within", func(t *testing.T) {
		ids := roaring64.BitmapOf(0, 2, 4, 99)

		res, err := eng.Find("aple").K(3).Within(ids).Strings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"maple", "techno premium device", "device premium techno"}, res)
	})

	t.Run("WithinEmpty", func(t *testing.T) {
		_, err := eng.Find("aple").Within(roaring64.New()).First(ctx)
		require.ErrorIs(t, err, strknn.ErrNotFound)
	})

	t.Run("Stream", func(t *testing.T) {
		var got []string
		for r, err := range eng.Find("aple").K(6).Stream(ctx) {
			require.NoError(t, err)
			if r.Distance > 1 {
				break
			}
			got = append(got, r.Text)
		}
		assert.Equal(t, []string{"apple", "maple"}, got)
	})

	t.Run("StreamError", func(t *testing.T) {
		calls := 0
		for _, err := range eng.Find("aple").K(0).Stream(ctx) {
			calls++
			require.ErrorIs(t, err, strknn.ErrInvalidInput)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("MustExecute", func(t *testing.T) {
		assert.Len(t, eng.Find("aple").K(1).MustExecute(ctx), 1)
		assert.Panics(t, func() {
			eng.Find("aple").K(-1).MustExecute(ctx)
		})
	})
}

func TestSearchBuilderEmptyCorpus(t *testing.T) {
	eng := newEngine(t, nil)

	_, err := eng.Find("anything").First(context.Background())
	require.ErrorIs(t, err, strknn.ErrNotFound)
}
