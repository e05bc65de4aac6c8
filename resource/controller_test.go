package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Concurrency(t *testing.T) {
	c := NewController(Config{MaxConcurrentQueries: 2})

	require.NoError(t, c.AcquireQuery(context.Background()))
	require.NoError(t, c.AcquireQuery(context.Background()))
	assert.Equal(t, int64(2), c.QueriesInFlight())

	// TryAcquire (should fail)
	assert.False(t, c.TryAcquireQuery())

	// Acquire (should block/timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.AcquireQuery(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(2), c.QueriesInFlight())

	c.ReleaseQuery()
	assert.Equal(t, int64(1), c.QueriesInFlight())

	assert.True(t, c.TryAcquireQuery())
	c.ReleaseQuery()
	c.ReleaseQuery()
	assert.Equal(t, int64(0), c.QueriesInFlight())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})

	for range 100 {
		require.NoError(t, c.AcquireQuery(context.Background()))
	}
	assert.Equal(t, int64(100), c.QueriesInFlight())
	require.NoError(t, c.AcquireUpload(context.Background(), 1_000_000))
}

func TestController_QueryRate(t *testing.T) {
	c := NewController(Config{QueriesPerSecond: 1, QueryBurst: 1})

	assert.True(t, c.TryAcquireQuery())
	assert.False(t, c.TryAcquireQuery())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireQuery(ctx))
}

func TestController_UploadRate(t *testing.T) {
	c := NewController(Config{UploadStringsPerSecond: 1000, UploadBurst: 10})

	// Batches larger than the burst are split instead of rejected.
	require.NoError(t, c.AcquireUpload(context.Background(), 25))

	slow := NewController(Config{UploadStringsPerSecond: 0.1, UploadBurst: 1})
	require.NoError(t, slow.AcquireUpload(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, slow.AcquireUpload(ctx, 1))
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireQuery(context.Background()))
	assert.True(t, c.TryAcquireQuery())
	c.ReleaseQuery()
	assert.Equal(t, int64(0), c.QueriesInFlight())
	require.NoError(t, c.AcquireUpload(context.Background(), 5))
	assert.Equal(t, Config{}, c.Config())
}
