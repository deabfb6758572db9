package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskGLIntegrity re-verifies that every posted journal entry balances.
	TaskGLIntegrity = "gl:integrity"
	// TaskInventoryRecost replays the movement stream against cached balances.
	TaskInventoryRecost = "inventory:recost"
	// TaskCoARebuild recomputes the nested-set bounds of the account tree.
	TaskCoARebuild = "coa:rebuild"
)

// GLIntegrityPayload bounds the scan window; a zero Since scans everything.
type GLIntegrityPayload struct {
	Since time.Time `json:"since"`
}

// InventoryRecostPayload limits the replay to one variant; zero means all.
type InventoryRecostPayload struct {
	VariantID int64 `json:"variant_id"`
}

// NewGLIntegrityTask constructs the integrity-scan task.
func NewGLIntegrityTask(payload GLIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGLIntegrity, data), nil
}

// NewInventoryRecostTask constructs the recost task.
func NewInventoryRecostTask(payload InventoryRecostPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryRecost, data), nil
}

// NewCoARebuildTask constructs the tree-rebuild task.
func NewCoARebuildTask() *asynq.Task {
	return asynq.NewTask(TaskCoARebuild, nil)
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// EnqueueGLIntegrity enqueues an integrity scan.
func (c *Client) EnqueueGLIntegrity(ctx context.Context, payload GLIntegrityPayload) (*asynq.TaskInfo, error) {
	task, err := NewGLIntegrityTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// EnqueueInventoryRecost enqueues a balance-replay check.
func (c *Client) EnqueueInventoryRecost(ctx context.Context, payload InventoryRecostPayload) (*asynq.TaskInfo, error) {
	task, err := NewInventoryRecostTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// EnqueueCoARebuild enqueues a nested-set rebuild.
func (c *Client) EnqueueCoARebuild(ctx context.Context) (*asynq.TaskInfo, error) {
	return c.client.EnqueueContext(ctx, NewCoARebuildTask(), asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
