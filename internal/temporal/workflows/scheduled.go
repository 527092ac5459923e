package workflows

import (
	"cloudsync/internal/task"
	"cloudsync/pkg/names"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ScheduledSyncWorkflow is the action of a task schedule. Scheduled workflow
// ids carry a timestamp suffix, so the sync runs as a child under the task's
// lock key where it conflicts with manual sync and put runs.
func ScheduledSyncWorkflow(ctx workflow.Context, input SyncWorkflowInput) (*SyncWorkflowOutput, error) {
	logger := workflow.GetLogger(ctx)
	lockKey := task.LockKey(input.TaskID)

	childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
		WorkflowID:            lockKey,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	})
	child := workflow.ExecuteChildWorkflow(childCtx, names.WorkflowNameSync, input)

	// the child only fails to start while its id is taken
	if err := child.GetChildWorkflowExecution().Get(ctx, nil); err != nil {
		logger.Warn("Sync already running, skipping scheduled run", "lockKey", lockKey, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("%s: job already running", lockKey), names.ErrorTypeJobRunning, err)
	}

	out := new(SyncWorkflowOutput)
	if err := child.Get(ctx, out); err != nil {
		logger.Error("Scheduled sync failed", "lockKey", lockKey, "error", err)
		return nil, err
	}
	return out, nil
}
