package workflows

import (
	"cloudsync/internal/temporal/activities"
	"cloudsync/pkg/names"

	"go.temporal.io/sdk/workflow"
)

type SyncWorkflowOutput struct {
	Status bool `json:"status"`
}

// SyncWorkflow mirrors a task's local path to its bucket. Callers start it with
// the task's lock key as workflow id so only one runs per task.
func SyncWorkflow(ctx workflow.Context, input SyncWorkflowInput) (*SyncWorkflowOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("SyncWorkflow started", "taskId", input.TaskID)

	////////////////////////////////////////
	// 1. Resolve the task and its credential
	////////////////////////////////////////
	GetTaskActivityOutput := new(activities.GetTaskActivityOutput)
	err := workflow.ExecuteActivity(
		lookupOptions(ctx),
		names.ActivityNameGetTask,
		activities.GetTaskActivityInput{TaskID: input.TaskID},
	).Get(ctx, GetTaskActivityOutput)
	if err != nil {
		logger.Error("Failed to get task", "error", err)
		return nil, err
	}

	logger.Info("Task resolved", "taskId", input.TaskID, "bucket", GetTaskActivityOutput.Task.Attributes.Bucket)

	////////////////////////////////////////
	// 2. Run the tree sync
	////////////////////////////////////////
	SyncActivityOutput := new(activities.SyncActivityOutput)
	err = workflow.ExecuteActivity(
		transferOptions(ctx),
		names.ActivityNameSync,
		activities.SyncActivityInput{TaskID: input.TaskID},
	).Get(ctx, SyncActivityOutput)
	if err != nil {
		logger.Error("Sync failed", "error", err)
		return nil, err
	}

	logger.Info("SyncWorkflow completed", "taskId", input.TaskID)
	return &SyncWorkflowOutput{Status: SyncActivityOutput.Status}, nil
}
