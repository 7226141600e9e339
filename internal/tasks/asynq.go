// Package tasks provides async comparison runs queued through Asynq/Redis
// or an in-memory fallback. Completed results are cached in Redis with TTL.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sudo-tiz/dns-compare-go/internal/models"
)

const (
	// TaskTypeCompare is the task type identifier for comparison tasks
	TaskTypeCompare = "dns:compare"
)

// ComparePayload is the JSON task payload carried through Asynq.
type ComparePayload struct {
	TaskID    string                `json:"task_id"`
	Request   models.CompareRequest `json:"request"`
	CreatedAt string                `json:"created_at"`
}

// Client wraps Asynq for task enqueueing and Redis for result caching.
type Client struct {
	asynqClient *asynq.Client
	inspector   *asynq.Inspector
	redisClient *redis.Client
	resultTTL   time.Duration
}

// ClientInterface allows swapping between Asynq and memory implementations.
type ClientInterface interface {
	EnqueueCompare(ctx context.Context, req models.CompareRequest) (string, error)
	GetTaskStatus(ctx context.Context, taskID string) (*models.TaskStatusResponse, error)
	Close() error
}

// NewClient creates Asynq client with Redis result backend.
func NewClient(redisAddr string, resultTTL time.Duration) *Client {
	redisOpts := asynq.RedisClientOpt{Addr: redisAddr}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})

	return &Client{
		asynqClient: asynq.NewClient(redisOpts),
		inspector:   asynq.NewInspector(redisOpts),
		redisClient: rdb,
		resultTTL:   resultTTL,
	}
}

// ResultKey is the Redis key caching a completed run's results.
func ResultKey(taskID string) string {
	return fmt.Sprintf("dnscompare:result:%s", taskID)
}

// EnqueueCompare creates a task with a UUID and enqueues it. Task retry is
// disabled: queries have their own timeout semantics and a re-run would hide
// the Warning outcome the user needs to see.
func (c *Client) EnqueueCompare(ctx context.Context, req models.CompareRequest) (string, error) {
	id := uuid.NewString()

	payload := ComparePayload{
		TaskID:    id,
		Request:   req,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeCompare, data)
	opts := []asynq.Option{
		asynq.TaskID(id),
		asynq.MaxRetry(0),
		asynq.Retention(c.resultTTL),
	}

	if _, err := c.asynqClient.EnqueueContext(ctx, task, opts...); err != nil {
		return "", fmt.Errorf("enqueue failed: %w", err)
	}

	return id, nil
}

// Close shuts down all connections.
func (c *Client) Close() error {
	var errs []error

	if err := c.inspector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("inspector: %w", err))
	}

	if err := c.redisClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis: %w", err))
	}

	if err := c.asynqClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("asynq: %w", err))
	}

	return errors.Join(errs...)
}

// HasActiveWorkers checks Asynq inspector for connected workers.
func (c *Client) HasActiveWorkers(_ context.Context) bool {
	servers, err := c.inspector.Servers()
	if err != nil {
		return false
	}

	return len(servers) > 0
}

// CacheResult stores a completed run in Redis so GetTaskStatus can serve it
// without touching the Asynq queue. Called by the worker.
func (c *Client) CacheResult(ctx context.Context, taskID string, results *models.CompareResults) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	return c.redisClient.Set(ctx, ResultKey(taskID), data, c.resultTTL).Err()
}

// GetTaskStatus checks Redis cache first, falls back to Asynq inspector.
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*models.TaskStatusResponse, error) {
	resultJSON, err := c.redisClient.Get(ctx, ResultKey(taskID)).Result()

	if err == nil {
		// Result cached - task completed
		var res models.CompareResults
		if json.Unmarshal([]byte(resultJSON), &res) == nil {
			return &models.TaskStatusResponse{
				TaskID: taskID,
				Status: "SUCCESS",
				Result: &res,
			}, nil
		}
	}

	// Not cached - check Asynq queue
	taskInfo, err := c.inspector.GetTaskInfo("default", taskID)
	if err != nil {
		return nil, fmt.Errorf("not found")
	}

	response := &models.TaskStatusResponse{
		TaskID:      taskID,
		CreatedAt:   taskInfo.NextProcessAt,
		CompletedAt: taskInfo.CompletedAt,
	}

	switch taskInfo.State {
	case asynq.TaskStateActive:
		response.Status = "ACTIVE"
	case asynq.TaskStateArchived:
		response.Status = "FAILURE"
		if taskInfo.LastErr != "" {
			errMsg := taskInfo.LastErr
			response.Error = &errMsg
		}
	default:
		response.Status = "PENDING"
	}

	return response, nil
}
