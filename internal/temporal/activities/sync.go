package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
)

type SyncActivityInput struct {
	TaskID int64 `json:"task_id"`
}

type SyncActivityOutput struct {
	Status bool `json:"status"`
}

// SyncActivity mirrors the task's local path to its bucket. Progress is
// reported through heartbeats.
func (a *Activities) SyncActivity(ctx context.Context, input SyncActivityInput) (*SyncActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("SyncActivity started", "taskId", input.TaskID)

	heartbeat := startHeartbeat(ctx)
	defer heartbeat.Stop()
	status, err := a.Backup.Sync(ctx, input.TaskID, heartbeat)
	if err != nil {
		logger.Error("Sync failed", "taskId", input.TaskID, "error", err)
		return nil, nonRetryable(err)
	}

	logger.Info("SyncActivity completed", "taskId", input.TaskID)
	return &SyncActivityOutput{Status: status}, nil
}
