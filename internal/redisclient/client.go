package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Counter cache entries expire after two days; the ledger is the
// authoritative source and the cache only serves hot reads.
const counterTTL = 48 * time.Hour

// setCounterScript overwrites a cached counter only when the new value
// is higher, so concurrent writers landing out of order cannot roll the
// cache backwards. Counters within one day only grow.
const setCounterScript = `
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local new = tonumber(ARGV[1])
if new > cur then
  redis.call('SET', KEYS[1], new, 'EX', ARGV[2])
  return new
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return cur
`

type Client struct {
	rdb        *redis.Client
	setCounter *redis.Script
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:        rdb,
		setCounter: redis.NewScript(setCounterScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func dailyCountKey(workerID, day string) string {
	return fmt.Sprintf("daily_count:%s:%s", workerID, day)
}

// GetDailyCount returns the cached daily counter for a worker. The
// second return value is false on a cache miss.
func (c *Client) GetDailyCount(ctx context.Context, workerID, day string) (int64, bool, error) {
	count, err := c.rdb.Get(ctx, dailyCountKey(workerID, day)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// SetDailyCount writes the authoritative daily counter for a worker.
// Never a relative increment: a lost or evicted key is rebuilt only
// from the ledger's value, and lower values from slow writers are
// ignored.
func (c *Client) SetDailyCount(ctx context.Context, workerID, day string, count int64) error {
	key := dailyCountKey(workerID, day)
	err := c.setCounter.Run(ctx, c.rdb, []string{key}, count, int(counterTTL.Seconds())).Err()
	if err != nil {
		return fmt.Errorf("failed to set daily count: %w", err)
	}
	return nil
}

// IncrHubThroughput increments the per-hub throughput counter for a day.
func (c *Client) IncrHubThroughput(ctx context.Context, hub, day string) error {
	key := fmt.Sprintf("hub_throughput:%s", day)

	pipe := c.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, hub, 1)
	pipe.Expire(ctx, key, counterTTL)

	_, err := pipe.Exec(ctx)
	return err
}

// GetHubThroughput returns per-hub throughput counters for a day.
func (c *Client) GetHubThroughput(ctx context.Context, day string) (map[string]int64, error) {
	result, err := c.rdb.HGetAll(ctx, fmt.Sprintf("hub_throughput:%s", day)).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(result))
	for hub, raw := range result {
		var n int64
		fmt.Sscanf(raw, "%d", &n)
		out[hub] = n
	}
	return out, nil
}
