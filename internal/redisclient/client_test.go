package redisclient

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestSetDailyCountMonotonic(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetDailyCount(ctx, "worker-1", "2024-06-01", 5))

	// A slow writer carrying an older count must not roll the cache back.
	require.NoError(t, client.SetDailyCount(ctx, "worker-1", "2024-06-01", 3))

	count, hit, err := client.GetDailyCount(ctx, "worker-1", "2024-06-01")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(5), count)

	require.NoError(t, client.SetDailyCount(ctx, "worker-1", "2024-06-01", 7))

	count, hit, err = client.GetDailyCount(ctx, "worker-1", "2024-06-01")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), count)
}

func TestGetDailyCountMiss(t *testing.T) {
	client, _ := newTestClient(t)

	count, hit, err := client.GetDailyCount(context.Background(), "nobody", "2024-06-01")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(0), count)
}

func TestHubThroughputCounters(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.IncrHubThroughput(ctx, "recycling center", "2024-06-01"))
	require.NoError(t, client.IncrHubThroughput(ctx, "recycling center", "2024-06-01"))

	hubs, err := client.GetHubThroughput(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, int64(2), hubs["recycling center"])

	empty, err := client.GetHubThroughput(ctx, "2024-06-02")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
