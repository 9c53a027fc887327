package metrics

import (
	"context"
	"time"
)

// Queue names reported in QueueDepths.
const (
	QueueDue        = "due"
	QueueProcessing = "processing"
	QueueDeadLetter = "dead_letter"
)

// Metrics represents the current state of the delivery pipeline.
type Metrics struct {
	// QueueDepths maps queue name to the number of jobs currently in it
	QueueDepths map[string]int64 `json:"queue_depths"`

	// DeliveredTotal is the number of successfully delivered jobs since
	// the counters were last reset
	DeliveredTotal int64 `json:"delivered_total"`

	// FailedTotal is the number of jobs moved to the dead-letter store
	FailedTotal int64 `json:"failed_total"`

	// Workers lists the workers with a live heartbeat
	Workers []WorkerInfo `json:"workers"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// WorkerInfo represents information about an active worker loop.
type WorkerInfo struct {
	// WorkerID is a unique identifier for the worker process
	WorkerID string `json:"worker_id"`

	// Task is the loop this worker runs (e.g., "delivery", "sweeper", "backfill")
	Task string `json:"task"`

	// Status is the current status of the worker (e.g., "idle", "processing")
	Status string `json:"status"`

	// LastHeartbeat is the timestamp of the last heartbeat
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Collector defines the interface for collecting metrics from the pipeline.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetQueueDepths returns the number of jobs per queue
	GetQueueDepths(ctx context.Context) (map[string]int64, error)

	// GetCounters returns the delivered and failed running totals
	GetCounters(ctx context.Context) (delivered int64, failed int64, err error)

	// GetActiveWorkers returns the workers with a live heartbeat
	GetActiveWorkers(ctx context.Context) ([]WorkerInfo, error)
}
