package activities

import (
	"cloudsync/internal/store"
	"cloudsync/internal/task"
	"context"

	"go.temporal.io/sdk/activity"
)

type GetTaskActivityInput struct {
	TaskID int64 `json:"task_id"`
}

// GetTaskActivityOutput carries the task only. Credentials never leave the worker.
type GetTaskActivityOutput struct {
	Task     *task.Task    `json:"task"`
	Provider task.Provider `json:"provider"`
}

func (a *Activities) GetTaskActivity(ctx context.Context, input GetTaskActivityInput) (*GetTaskActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("GetTaskActivity called", "taskId", input.TaskID)

	t, cred, err := store.Resolve(ctx, a.Store, input.TaskID)
	if err != nil {
		logger.Error("Failed to resolve task", "taskId", input.TaskID, "error", err)
		return nil, nonRetryable(err)
	}

	logger.Info("Task found", "taskId", t.ID, "bucket", t.Attributes.Bucket, "provider", cred.Provider.String())
	return &GetTaskActivityOutput{Task: t, Provider: cred.Provider}, nil
}
