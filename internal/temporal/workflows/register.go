package workflows

import (
	"cloudsync/internal/temporal/activities"
	"cloudsync/pkg/names"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

// Register adds the workflows and activities under their public names
func Register(r worker.Registry, acts *activities.Activities) {
	r.RegisterWorkflowWithOptions(SyncWorkflow, workflow.RegisterOptions{Name: names.WorkflowNameSync})
	r.RegisterWorkflowWithOptions(PutWorkflow, workflow.RegisterOptions{Name: names.WorkflowNamePut})
	r.RegisterWorkflowWithOptions(ScheduledSyncWorkflow, workflow.RegisterOptions{Name: names.WorkflowNameScheduledSync})

	r.RegisterActivityWithOptions(acts.GetTaskActivity, activity.RegisterOptions{Name: names.ActivityNameGetTask})
	r.RegisterActivityWithOptions(acts.SyncActivity, activity.RegisterOptions{Name: names.ActivityNameSync})
	r.RegisterActivityWithOptions(acts.PutActivity, activity.RegisterOptions{Name: names.ActivityNamePut})
	r.RegisterActivityWithOptions(acts.GetActivity, activity.RegisterOptions{Name: names.ActivityNameGet})
	r.RegisterActivityWithOptions(acts.ListBucketsActivity, activity.RegisterOptions{Name: names.ActivityNameListBuckets})
	r.RegisterActivityWithOptions(acts.BucketLocationActivity, activity.RegisterOptions{Name: names.ActivityNameBucketLocation})
	r.RegisterActivityWithOptions(acts.CleanupActivity, activity.RegisterOptions{Name: names.ActivityNameCleanup})
}
