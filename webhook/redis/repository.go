package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scribeline/scribeline/webhook"
)

/* Redis implementation of webhook.Repository
 * Uses Redis Hashes for job metadata storage and two sorted sets as the
 * queue index: "due" scored by next_retry_at and "processing" scored by
 * claimed_at. Claim atomicity rides on moveJob: only the worker whose ZREM
 * removes the member owns the job, so two sweeps never deliver it twice.
 */

/* moveJob atomically takes a member out of one sorted set and inserts it
 * into another with the given score. Every due<->processing transition goes
 * through this script so a job is always indexed in exactly one of the two
 * sets; a worker crash can never strand an id outside both.
 */
var moveJob = redis.NewScript(`
if redis.call("ZREM", KEYS[1], ARGV[1]) == 1 then
	redis.call("ZADD", KEYS[2], ARGV[2], ARGV[1])
	return 1
end
return 0`)

/* Queue index keys. Exported because the metrics collector reads the same
 * sorted sets and counters; this package stays the single owner of the
 * layout.
 */
const (
	DueKey           = "webhookjobs:due"  // ZSET member=job_id score=next_retry_at
	ProcessingKey    = "webhookjobs:proc" // ZSET member=job_id score=claimed_at
	DeadLetterIndex  = "deadletters:idx"  // ZSET member=entry_id score=created_at
	DeliveredCounter = "webhookjobs:delivered:count"
	FailedCounter    = "webhookjobs:failed:count"
)

const (
	jobPrefix        = "webhookjob" // Hash naming: webhookjob:{job_id}
	deadLetterPrefix = "deadletter" // Hash naming: deadletter:{entry_id}

	// failedJobTTL bounds retention of the job record itself; the dead
	// letter carries the audit trail and never expires.
	failedJobTTL = 24 * time.Hour
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// Enqueue stores the job hash and indexes it in the due set.
func (r *Repository) Enqueue(ctx context.Context, job webhook.Job) (string, error) {
	if err := r.writeJob(ctx, job); err != nil {
		return "", err
	}

	err := r.client.ZAdd(ctx, DueKey, redis.Z{
		Score:  float64(job.NextRetryAt.Unix()),
		Member: job.ID,
	}).Err()
	if err != nil {
		return "", fmt.Errorf("indexing due job: %w", err)
	}

	return job.ID, nil
}

// ClaimDue claims up to limit due jobs, oldest-due first.
func (r *Repository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]webhook.Job, error) {
	ids, err := r.client.ZRangeByScore(ctx, DueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", now.Unix()),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("selecting due jobs: %w", err)
	}

	var claimed []webhook.Job
	for _, id := range ids {
		// Ownership: the due-set removal and the processing-set insert
		// run as one script. Only the worker whose ZREM removes the
		// member may process the job.
		taken, err := moveJob.Run(ctx, r.client, []string{DueKey, ProcessingKey}, id, now.Unix()).Int()
		if err != nil {
			return nil, fmt.Errorf("claiming job %s: %w", id, err)
		}
		if taken == 0 {
			continue
		}

		job, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, webhook.ErrJobNotFound) {
				// Orphaned index entry, the record itself is gone.
				r.client.ZRem(ctx, ProcessingKey, id)
				continue
			}
			// Transient read failure: hand the claim back so the next
			// pass retries immediately. If the move-back itself fails
			// the id is still in the processing set and the sweep
			// recovers it after the lease expires.
			moveJob.Run(ctx, r.client, []string{ProcessingKey, DueKey}, id, now.Unix())
			continue
		}

		claimedAt := now
		job.Status = webhook.Processing
		job.ClaimedAt = &claimedAt
		job.UpdatedAt = now

		err = r.client.HSet(ctx, jobKey(id), map[string]interface{}{
			"status":     job.Status.String(),
			"claimed_at": claimedAt.Unix(),
			"updated_at": now.Unix(),
		}).Err()
		if err != nil {
			// Already in the processing set; the sweep recovers it.
			return nil, fmt.Errorf("marking job %s processing: %w", id, err)
		}

		claimed = append(claimed, job)
	}

	return claimed, nil
}

// Complete marks a claimed job delivered; the record expires after ttl.
func (r *Repository) Complete(ctx context.Context, id string, ttl time.Duration) error {
	if err := r.client.ZRem(ctx, ProcessingKey, id).Err(); err != nil {
		return fmt.Errorf("removing job from processing set: %w", err)
	}

	err := r.client.HSet(ctx, jobKey(id), map[string]interface{}{
		"status":     webhook.Completed.String(),
		"updated_at": time.Now().Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("marking job completed: %w", err)
	}

	if err := r.client.Expire(ctx, jobKey(id), ttl).Err(); err != nil {
		return fmt.Errorf("setting TTL on completed job: %w", err)
	}

	r.client.Incr(ctx, DeliveredCounter)
	return nil
}

// Requeue returns a claimed job to the due set with its updated retry state.
func (r *Repository) Requeue(ctx context.Context, job webhook.Job) error {
	job.Status = webhook.Pending
	job.ClaimedAt = nil
	if err := r.writeJob(ctx, job); err != nil {
		return err
	}
	r.client.HDel(ctx, jobKey(job.ID), "claimed_at")

	// Due insert before the processing removal. A crash between the two
	// leaves the job in both sets and risks one duplicate delivery, which
	// at-least-once permits; the reverse order could lose the job.
	err := r.client.ZAdd(ctx, DueKey, redis.Z{
		Score:  float64(job.NextRetryAt.Unix()),
		Member: job.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("re-indexing due job: %w", err)
	}

	if err := r.client.ZRem(ctx, ProcessingKey, job.ID).Err(); err != nil {
		return fmt.Errorf("removing job from processing set: %w", err)
	}

	return nil
}

// Fail marks the job permanently failed and writes its dead letter.
func (r *Repository) Fail(ctx context.Context, job webhook.Job, entry webhook.DeadLetter) error {
	if err := r.client.ZRem(ctx, ProcessingKey, job.ID).Err(); err != nil {
		return fmt.Errorf("removing job from processing set: %w", err)
	}

	job.Status = webhook.Failed
	if err := r.writeJob(ctx, job); err != nil {
		return err
	}
	if err := r.client.Expire(ctx, jobKey(job.ID), failedJobTTL).Err(); err != nil {
		return fmt.Errorf("setting TTL on failed job: %w", err)
	}

	errorsJSON, err := json.Marshal(entry.Errors)
	if err != nil {
		return fmt.Errorf("marshaling dead letter errors: %w", err)
	}

	err = r.client.HSet(ctx, deadLetterKey(entry.ID), map[string]interface{}{
		"id":              entry.ID,
		"original_job_id": entry.OriginalJobID,
		"webhook_type":    entry.WebhookType,
		"event_type":      entry.EventType,
		"url":             entry.URL,
		"payload":         entry.Payload,
		"secret":          entry.SigningSecret,
		"retry_count":     entry.RetryCount,
		"errors":          string(errorsJSON),
		"created_at":      entry.CreatedAt.Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("storing dead letter: %w", err)
	}

	err = r.client.ZAdd(ctx, DeadLetterIndex, redis.Z{
		Score:  float64(entry.CreatedAt.Unix()),
		Member: entry.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("indexing dead letter: %w", err)
	}

	r.client.Incr(ctx, FailedCounter)
	return nil
}

// ReleaseStuck reverts processing jobs claimed before deadline to pending.
func (r *Repository) ReleaseStuck(ctx context.Context, deadline time.Time) (int, error) {
	ids, err := r.client.ZRangeByScore(ctx, ProcessingKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", deadline.Unix()),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("selecting stuck jobs: %w", err)
	}

	released := 0
	now := time.Now()
	for _, id := range ids {
		// Hash first, index move last: a crash in between leaves the id
		// in the processing set, where the next sweep picks it up again.
		err = r.client.HSet(ctx, jobKey(id), map[string]interface{}{
			"status":        webhook.Pending.String(),
			"next_retry_at": now.Unix(),
			"updated_at":    now.Unix(),
		}).Err()
		if err != nil {
			return released, fmt.Errorf("marking job %s pending: %w", id, err)
		}
		r.client.HDel(ctx, jobKey(id), "claimed_at")

		moved, err := moveJob.Run(ctx, r.client, []string{ProcessingKey, DueKey}, id, now.Unix()).Int()
		if err != nil {
			return released, fmt.Errorf("releasing job %s: %w", id, err)
		}
		if moved == 0 {
			// Another sweeper got there first.
			continue
		}

		released++
	}

	return released, nil
}

// Get retrieves a job by ID from its Redis hash
func (r *Repository) Get(ctx context.Context, id string) (webhook.Job, error) {
	data, err := r.client.HGetAll(ctx, jobKey(id)).Result()
	if err != nil {
		return webhook.Job{}, fmt.Errorf("getting job: %w", err)
	}
	if len(data) == 0 {
		return webhook.Job{}, fmt.Errorf("%w: %s", webhook.ErrJobNotFound, id)
	}

	var deliveryErrors []webhook.DeliveryError
	if errorsStr, ok := data["errors"]; ok && errorsStr != "" {
		if err := json.Unmarshal([]byte(errorsStr), &deliveryErrors); err != nil {
			return webhook.Job{}, fmt.Errorf("unmarshaling delivery errors: %w", err)
		}
	}

	job := webhook.Job{
		ID:            data["id"],
		WebhookType:   data["webhook_type"],
		EventType:     data["event_type"],
		URL:           data["url"],
		Payload:       []byte(data["payload"]),
		Status:        webhook.NewStatus(data["status"]),
		RetryCount:    int(parseInt64(data["retry_count"])),
		MaxRetries:    int(parseInt64(data["max_retries"])),
		NextRetryAt:   time.Unix(parseInt64(data["next_retry_at"]), 0),
		LastError:     data["last_error"],
		SigningSecret: data["secret"],
		Errors:        deliveryErrors,
		CreatedAt:     time.Unix(parseInt64(data["created_at"]), 0),
		UpdatedAt:     time.Unix(parseInt64(data["updated_at"]), 0),
	}

	if claimedStr, ok := data["claimed_at"]; ok && claimedStr != "" {
		claimedAt := time.Unix(parseInt64(claimedStr), 0)
		job.ClaimedAt = &claimedAt
	}

	return job, nil
}

// GetDeadLetter retrieves a dead-letter entry by ID
func (r *Repository) GetDeadLetter(ctx context.Context, id string) (webhook.DeadLetter, error) {
	data, err := r.client.HGetAll(ctx, deadLetterKey(id)).Result()
	if err != nil {
		return webhook.DeadLetter{}, fmt.Errorf("getting dead letter: %w", err)
	}
	if len(data) == 0 {
		return webhook.DeadLetter{}, fmt.Errorf("dead letter not found: %s", id)
	}

	return parseDeadLetter(data)
}

// ListDeadLetters returns the most recent entries, newest first
func (r *Repository) ListDeadLetters(ctx context.Context, limit int) ([]webhook.DeadLetter, error) {
	ids, err := r.client.ZRevRange(ctx, DeadLetterIndex, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing dead letters: %w", err)
	}

	var entries []webhook.DeadLetter
	for _, id := range ids {
		entry, err := r.GetDeadLetter(ctx, id)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// MarkReplayed stamps a dead letter with the replay time
func (r *Repository) MarkReplayed(ctx context.Context, id string, at time.Time) error {
	exists, err := r.client.Exists(ctx, deadLetterKey(id)).Result()
	if err != nil {
		return fmt.Errorf("checking dead letter: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("dead letter not found: %s", id)
	}

	err = r.client.HSet(ctx, deadLetterKey(id), "replayed_at", at.Unix()).Err()
	if err != nil {
		return fmt.Errorf("marking dead letter replayed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

// Helper functions

func (r *Repository) writeJob(ctx context.Context, job webhook.Job) error {
	errorsJSON, err := json.Marshal(job.Errors)
	if err != nil {
		return fmt.Errorf("marshaling delivery errors: %w", err)
	}

	err = r.client.HSet(ctx, jobKey(job.ID), map[string]interface{}{
		"id":            job.ID,
		"webhook_type":  job.WebhookType,
		"event_type":    job.EventType,
		"url":           job.URL,
		"payload":       job.Payload,
		"status":        job.Status.String(),
		"retry_count":   job.RetryCount,
		"max_retries":   job.MaxRetries,
		"next_retry_at": job.NextRetryAt.Unix(),
		"last_error":    job.LastError,
		"secret":        job.SigningSecret,
		"errors":        string(errorsJSON),
		"created_at":    job.CreatedAt.Unix(),
		"updated_at":    job.UpdatedAt.Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("storing job metadata: %w", err)
	}
	return nil
}

func parseDeadLetter(data map[string]string) (webhook.DeadLetter, error) {
	var deliveryErrors []webhook.DeliveryError
	if errorsStr, ok := data["errors"]; ok && errorsStr != "" {
		if err := json.Unmarshal([]byte(errorsStr), &deliveryErrors); err != nil {
			return webhook.DeadLetter{}, fmt.Errorf("unmarshaling dead letter errors: %w", err)
		}
	}

	entry := webhook.DeadLetter{
		ID:            data["id"],
		OriginalJobID: data["original_job_id"],
		WebhookType:   data["webhook_type"],
		EventType:     data["event_type"],
		URL:           data["url"],
		Payload:       []byte(data["payload"]),
		SigningSecret: data["secret"],
		RetryCount:    int(parseInt64(data["retry_count"])),
		Errors:        deliveryErrors,
		CreatedAt:     time.Unix(parseInt64(data["created_at"]), 0),
	}

	if replayedStr, ok := data["replayed_at"]; ok && replayedStr != "" {
		replayedAt := time.Unix(parseInt64(replayedStr), 0)
		entry.ReplayedAt = &replayedAt
	}

	return entry, nil
}

func jobKey(id string) string {
	return fmt.Sprintf("%s:%s", jobPrefix, id)
}

func deadLetterKey(id string) string {
	return fmt.Sprintf("%s:%s", deadLetterPrefix, id)
}

func parseInt64(s string) int64 {
	var result int64
	fmt.Sscanf(s, "%d", &result)
	return result
}
