package workflows

import (
	"cloudsync/internal/task"
	"cloudsync/internal/temporal/activities"
	"cloudsync/pkg/names"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"
)

func newEnv() *testsuite.TestWorkflowEnvironment {
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestWorkflowEnvironment()

	a := &activities.Activities{}
	env.RegisterActivityWithOptions(a.GetTaskActivity, activity.RegisterOptions{Name: names.ActivityNameGetTask})
	env.RegisterActivityWithOptions(a.SyncActivity, activity.RegisterOptions{Name: names.ActivityNameSync})
	env.RegisterActivityWithOptions(a.PutActivity, activity.RegisterOptions{Name: names.ActivityNamePut})
	env.RegisterActivityWithOptions(a.CleanupActivity, activity.RegisterOptions{Name: names.ActivityNameCleanup})
	return env
}

func photosTask() *activities.GetTaskActivityOutput {
	return &activities.GetTaskActivityOutput{
		Task: &task.Task{
			ID:           7,
			Path:         "/mnt/tank/photos",
			CredentialID: 3,
			Attributes:   task.Attributes{Bucket: "photos"},
		},
		Provider: task.ProviderAmazon,
	}
}

func TestSyncWorkflow(t *testing.T) {
	env := newEnv()
	env.OnActivity(names.ActivityNameGetTask, mock.Anything, activities.GetTaskActivityInput{TaskID: 7}).
		Return(photosTask(), nil)
	env.OnActivity(names.ActivityNameSync, mock.Anything, activities.SyncActivityInput{TaskID: 7}).
		Return(&activities.SyncActivityOutput{Status: true}, nil)

	env.ExecuteWorkflow(SyncWorkflow, SyncWorkflowInput{TaskID: 7})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out SyncWorkflowOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.True(t, out.Status)
	env.AssertExpectations(t)
}

func TestSyncWorkflow_TaskNotFound(t *testing.T) {
	env := newEnv()
	env.OnActivity(names.ActivityNameGetTask, mock.Anything, mock.Anything).
		Return(nil, temporal.NewNonRetryableApplicationError("task 7: not found", names.ErrorTypeNotFound, nil))

	env.ExecuteWorkflow(SyncWorkflow, SyncWorkflowInput{TaskID: 7})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, names.ErrorTypeNotFound, appErr.Type())
	env.AssertActivityNumberOfCalls(t, names.ActivityNameGetTask, 1)
	env.AssertActivityNotCalled(t, names.ActivityNameSync, mock.Anything, mock.Anything)
}

func TestSyncWorkflow_SyncIsNotRetried(t *testing.T) {
	env := newEnv()
	env.OnActivity(names.ActivityNameGetTask, mock.Anything, mock.Anything).Return(photosTask(), nil)
	env.OnActivity(names.ActivityNameSync, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset by peer"))

	env.ExecuteWorkflow(SyncWorkflow, SyncWorkflowInput{TaskID: 7})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertActivityNumberOfCalls(t, names.ActivityNameSync, 1)
}

func TestPutWorkflow(t *testing.T) {
	env := newEnv()
	env.OnActivity(names.ActivityNameGetTask, mock.Anything, mock.Anything).Return(photosTask(), nil)
	env.OnActivity(names.ActivityNamePut, mock.Anything, activities.PutActivityInput{TaskID: 7, FilePath: "/data/dump.sql"}).
		Return(&activities.PutActivityOutput{Filename: "dump.sql", Size: 42, Checksum: "abc"}, nil)
	env.OnActivity(names.ActivityNameCleanup, mock.Anything, activities.CleanupActivityInput{Paths: []string{"/data/dump.sql"}}).
		Return(&activities.CleanupActivityOutput{Removed: 1}, nil)

	env.ExecuteWorkflow(PutWorkflow, PutWorkflowInput{TaskID: 7, FilePath: "/data/dump.sql", RemoveSource: true})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out PutWorkflowOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.Equal(t, PutWorkflowOutput{Filename: "dump.sql", Size: 42, Checksum: "abc"}, out)
	env.AssertExpectations(t)
}

func TestPutWorkflow_KeepsSource(t *testing.T) {
	env := newEnv()
	env.OnActivity(names.ActivityNameGetTask, mock.Anything, mock.Anything).Return(photosTask(), nil)
	env.OnActivity(names.ActivityNamePut, mock.Anything, mock.Anything).
		Return(&activities.PutActivityOutput{Filename: "dump.sql"}, nil)

	env.ExecuteWorkflow(PutWorkflow, PutWorkflowInput{TaskID: 7, FilePath: "/data/dump.sql"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertActivityNotCalled(t, names.ActivityNameCleanup, mock.Anything, mock.Anything)
}

func TestPutWorkflow_CleanupFailureIsNotFatal(t *testing.T) {
	env := newEnv()
	env.OnActivity(names.ActivityNameGetTask, mock.Anything, mock.Anything).Return(photosTask(), nil)
	env.OnActivity(names.ActivityNamePut, mock.Anything, mock.Anything).
		Return(&activities.PutActivityOutput{Filename: "dump.sql"}, nil)
	env.OnActivity(names.ActivityNameCleanup, mock.Anything, mock.Anything).
		Return(nil, temporal.NewNonRetryableApplicationError("permission denied", "Cleanup", nil))

	env.ExecuteWorkflow(PutWorkflow, PutWorkflowInput{TaskID: 7, FilePath: "/data/dump.sql", RemoveSource: true})

	require.True(t, env.IsWorkflowCompleted())
	assert.NoError(t, env.GetWorkflowError())
}

func TestScheduledSyncWorkflow_RunsUnderLockKey(t *testing.T) {
	env := newEnv()
	env.RegisterWorkflowWithOptions(SyncWorkflow, workflow.RegisterOptions{Name: names.WorkflowNameSync})

	var childID string
	env.OnWorkflow(names.WorkflowNameSync, mock.Anything, SyncWorkflowInput{TaskID: 7}).Return(
		func(ctx workflow.Context, input SyncWorkflowInput) (*SyncWorkflowOutput, error) {
			childID = workflow.GetInfo(ctx).WorkflowExecution.ID
			return &SyncWorkflowOutput{Status: true}, nil
		})

	env.ExecuteWorkflow(ScheduledSyncWorkflow, SyncWorkflowInput{TaskID: 7})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, "backup:7", childID)

	var out SyncWorkflowOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.True(t, out.Status)
}

func TestScheduledSyncWorkflow_ChildFailure(t *testing.T) {
	env := newEnv()
	env.RegisterWorkflowWithOptions(SyncWorkflow, workflow.RegisterOptions{Name: names.WorkflowNameSync})
	env.OnWorkflow(names.WorkflowNameSync, mock.Anything, mock.Anything).
		Return(nil, temporal.NewNonRetryableApplicationError("rclone exited with code 3", names.ErrorTypeSyncFailed, nil))

	env.ExecuteWorkflow(ScheduledSyncWorkflow, SyncWorkflowInput{TaskID: 7})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, names.ErrorTypeSyncFailed, appErr.Type())
}
