package strknn_test

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/strknn"
	"github.com/hupe1980/strknn/resource"
)

// TestNoGoroutineLeaks verifies that parallel scans and admission control do
// not leave goroutines behind once queries return and the engine is closed.
func TestNoGoroutineLeaks(t *testing.T) {
	tests := []struct {
		name     string
		opts     []strknn.Option
		maxLeaks int // Allow small variance (runtime background goroutines)
	}{
		{
			name:     "Sequential",
			opts:     []strknn.Option{strknn.WithParallelism(1)},
			maxLeaks: 2,
		},
		{
			name:     "Parallel",
			opts:     []strknn.Option{strknn.WithParallelism(8)},
			maxLeaks: 2,
		},
		{
			name: "ParallelWithLimits",
			opts: []strknn.Option{
				strknn.WithParallelism(4),
				strknn.WithQueryTimeout(time.Minute),
				strknn.WithResourceConfig(resource.Config{
					MaxConcurrentQueries: 2,
					QueriesPerSecond:     10_000,
					QueryBurst:           100,
				}),
			},
			maxLeaks: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime.GC()
			time.Sleep(10 * time.Millisecond)
			before := runtime.NumGoroutine()

			ctx := context.Background()
			eng, err := strknn.New(tt.opts...)
			require.NoError(t, err)

			corpus := make([]string, 4096)
			for i := range corpus {
				corpus[i] = fmt.Sprintf("item %d of the corpus", i)
			}
			require.NoError(t, eng.Upload(ctx, corpus))

			for i := range 20 {
				res, err := eng.Query(ctx, fmt.Sprintf("item %d", i*97), 5, i%2 == 0)
				require.NoError(t, err)
				require.Len(t, res, 5)
			}

			require.NoError(t, eng.Close())

			time.Sleep(50 * time.Millisecond)
			runtime.GC()
			after := runtime.NumGoroutine()

			leaked := after - before
			assert.LessOrEqual(t, leaked, tt.maxLeaks,
				"goroutine leak detected: before=%d after=%d leaked=%d", before, after, leaked)
		})
	}
}

// TestCloseDuringQueries verifies that Close does not disturb queries that
// already hold a snapshot and that later calls fail fast.
func TestCloseDuringQueries(t *testing.T) {
	ctx := context.Background()
	eng, err := strknn.New(strknn.WithParallelism(4), strknn.WithCacheSize(0))
	require.NoError(t, err)

	corpus := make([]string, 8192)
	for i := range corpus {
		corpus[i] = fmt.Sprintf("phrase number %d", i)
	}
	require.NoError(t, eng.Upload(ctx, corpus))

	errs := make(chan error, 16)
	for i := range 16 {
		go func() {
			_, err := eng.Query(ctx, fmt.Sprintf("phrase number %d", i), 3, true)
			errs <- err
		}()
	}

	require.NoError(t, eng.Close())

	for range 16 {
		err := <-errs
		if err != nil {
			assert.ErrorIs(t, err, strknn.ErrClosed)
		}
	}

	_, err = eng.Query(ctx, "phrase", 1, true)
	assert.ErrorIs(t, err, strknn.ErrClosed)
}
