package service

import (
	"context"
	"testing"
	"time"

	"returns-service/internal/ledger"
	"returns-service/internal/models"
	"returns-service/internal/redisclient"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisService(t *testing.T) (*ReturnsService, *redisclient.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redisclient.NewClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	svc := NewReturnsService(ledger.NewMemoryLedger(), client, nil, time.Second, 10)
	return svc, client, mr
}

func redisTestItem() models.Item {
	return models.Item{
		SKU:           "ELEC-010",
		Condition:     models.ConditionNew,
		Category:      models.CategoryElectronics,
		OriginalPrice: 2500,
	}
}

func TestDailyCountCacheSurvivesRedisLoss(t *testing.T) {
	svc, _, mr := newRedisService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.ProcessReturn(ctx, redisTestItem(), "worker-9")
		require.NoError(t, err)
	}

	activity, err := svc.GetWorkerActivity(ctx, "worker-9", "", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), activity.DailyCount)

	// Redis loses all keys mid-day.
	mr.FlushAll()

	// The next append must restore the true count, not restart at 1.
	result, err := svc.ProcessReturn(ctx, redisTestItem(), "worker-9")
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.DailyCount)

	activity, err = svc.GetWorkerActivity(ctx, "worker-9", "", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), activity.DailyCount)
	assert.Equal(t, int64(4), activity.TotalProcessed)
}

func TestDailyCountFallsBackToLedgerOnCacheMiss(t *testing.T) {
	svc, _, mr := newRedisService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.ProcessReturn(ctx, redisTestItem(), "worker-8")
		require.NoError(t, err)
	}

	mr.FlushAll()

	// No new appends: the read path must miss the cache and repair it
	// from the ledger.
	activity, err := svc.GetWorkerActivity(ctx, "worker-8", "", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), activity.DailyCount)

	// And the repaired cache serves the same value.
	activity, err = svc.GetWorkerActivity(ctx, "worker-8", "", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), activity.DailyCount)
}

func TestHubThroughput(t *testing.T) {
	svc, client, _ := newRedisService(t)
	ctx := context.Background()

	day := models.DayOf(time.Now())
	require.NoError(t, client.IncrHubThroughput(ctx, "e-waste center", day))
	require.NoError(t, client.IncrHubThroughput(ctx, "e-waste center", day))
	require.NoError(t, client.IncrHubThroughput(ctx, "donation center", day))

	hubs, err := svc.HubThroughput(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), hubs["e-waste center"])
	assert.Equal(t, int64(1), hubs["donation center"])
}

func TestHubThroughputWithoutRedis(t *testing.T) {
	svc := newTestService(nil)

	hubs, err := svc.HubThroughput(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, hubs)
}
