package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	webhookredis "github.com/scribeline/scribeline/webhook/redis"
)

const (
	heartbeatPrefix = "worker:heartbeat"
	heartbeatTTL    = 30 * time.Second
)

// RedisCollector implements the Collector interface for Redis-backed metrics
type RedisCollector struct {
	client *redis.Client
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(client *redis.Client) *RedisCollector {
	return &RedisCollector{
		client: client,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	queueDepths, err := c.GetQueueDepths(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting queue depths: %w", err)
	}

	delivered, failed, err := c.GetCounters(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting counters: %w", err)
	}

	workers, err := c.GetActiveWorkers(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting active workers: %w", err)
	}

	return Metrics{
		QueueDepths:    queueDepths,
		DeliveredTotal: delivered,
		FailedTotal:    failed,
		Workers:        workers,
		Timestamp:      time.Now(),
	}, nil
}

// GetQueueDepths returns the cardinality of each queue index
func (c *RedisCollector) GetQueueDepths(ctx context.Context) (map[string]int64, error) {
	keys := map[string]string{
		QueueDue:        webhookredis.DueKey,
		QueueProcessing: webhookredis.ProcessingKey,
		QueueDeadLetter: webhookredis.DeadLetterIndex,
	}

	depths := make(map[string]int64, len(keys))
	for name, key := range keys {
		depth, err := c.client.ZCard(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("reading depth of %s: %w", name, err)
		}
		depths[name] = depth
	}

	return depths, nil
}

// GetCounters returns the delivered and failed running totals
func (c *RedisCollector) GetCounters(ctx context.Context) (int64, int64, error) {
	delivered, err := c.client.Get(ctx, webhookredis.DeliveredCounter).Int64()
	if err != nil && err != redis.Nil {
		return 0, 0, fmt.Errorf("reading delivered counter: %w", err)
	}

	failed, err := c.client.Get(ctx, webhookredis.FailedCounter).Int64()
	if err != nil && err != redis.Nil {
		return 0, 0, fmt.Errorf("reading failed counter: %w", err)
	}

	return delivered, failed, nil
}

// RecordHeartbeat writes this worker's heartbeat with a short TTL. A worker
// that stops renewing it disappears from GetActiveWorkers on its own.
func (c *RedisCollector) RecordHeartbeat(ctx context.Context, info WorkerInfo) error {
	info.LastHeartbeat = time.Now()

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling worker info: %w", err)
	}

	key := fmt.Sprintf("%s:%s", heartbeatPrefix, info.WorkerID)
	if err := c.client.Set(ctx, key, data, heartbeatTTL).Err(); err != nil {
		return fmt.Errorf("writing heartbeat: %w", err)
	}
	return nil
}

// GetActiveWorkers returns the workers with an unexpired heartbeat
func (c *RedisCollector) GetActiveWorkers(ctx context.Context) ([]WorkerInfo, error) {
	var workers []WorkerInfo
	var cursor uint64

	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, heartbeatPrefix+":*", 1000).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning worker heartbeat keys: %w", err)
		}

		for _, key := range keys {
			data, err := c.client.Get(ctx, key).Result()
			if err != nil {
				// Expired between SCAN and GET
				continue
			}

			var info WorkerInfo
			if err := json.Unmarshal([]byte(data), &info); err != nil {
				continue
			}
			workers = append(workers, info)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return workers, nil
}
