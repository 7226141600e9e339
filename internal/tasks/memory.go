package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sudo-tiz/dns-compare-go/internal/config"
	"github.com/sudo-tiz/dns-compare-go/internal/models"
	"github.com/sudo-tiz/dns-compare-go/internal/resolver"
	"github.com/sudo-tiz/dns-compare-go/internal/runner"
)

type memoryTask struct {
	result *models.CompareResults
	err    string
}

type memoryClient struct {
	mu      sync.Mutex
	tasks   map[string]*memoryTask
	timeout time.Duration
	// newQuerier is swappable for tests; defaults to the real resolver.
	newQuerier func(insecure bool) runner.Querier
}

// NewMemoryClient creates an in-memory task backend for running without
// Redis. Comparison runs execute on a background goroutine with an
// independent context so an HTTP timeout cannot cancel them midway.
func NewMemoryClient(cfg *config.Config) ClientInterface {
	timeout := time.Duration(cfg.GetDNSTimeout()) * time.Second
	return &memoryClient{
		tasks:   make(map[string]*memoryTask),
		timeout: timeout,
		newQuerier: func(insecure bool) runner.Querier {
			return resolver.New(timeout, insecure)
		},
	}
}

// EnqueueCompare starts the run in a goroutine and returns immediately.
func (m *memoryClient) EnqueueCompare(_ context.Context, req models.CompareRequest) (string, error) {
	id := "mem-" + time.Now().Format("20060102150405.000000000")

	m.mu.Lock()
	m.tasks[id] = &memoryTask{}
	m.mu.Unlock()

	go func() {
		results, err := ExecuteCompare(context.Background(), req, m.newQuerier(req.TLSInsecureSkipVerify))

		m.mu.Lock()
		defer m.mu.Unlock()
		if err != nil {
			m.tasks[id].err = err.Error()
			return
		}
		m.tasks[id].result = results
	}()

	return id, nil
}

func (m *memoryClient) Close() error {
	return nil
}

// GetTaskStatus returns PENDING while executing, SUCCESS or FAILURE when done.
func (m *memoryClient) GetTaskStatus(_ context.Context, taskID string) (*models.TaskStatusResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("not found")
	}

	switch {
	case task.err != "":
		errMsg := task.err
		return &models.TaskStatusResponse{
			TaskID: taskID,
			Status: "FAILURE",
			Error:  &errMsg,
		}, nil
	case task.result == nil:
		return &models.TaskStatusResponse{
			TaskID: taskID,
			Status: "PENDING",
		}, nil
	default:
		return &models.TaskStatusResponse{
			TaskID: taskID,
			Status: "SUCCESS",
			Result: task.result,
		}, nil
	}
}
