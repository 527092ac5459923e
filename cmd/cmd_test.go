package main

import (
	"bytes"
	"cloudsync/internal/job"
	"cloudsync/internal/store"
	"cloudsync/internal/task"
	"cloudsync/internal/temporal/workflows"
	"cloudsync/pkg/names"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"

	temporalclient "go.temporal.io/sdk/client"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	rclonePath := filepath.Join(dir, "rclone")
	script := "#!/bin/sh\necho 'Transferred:   1 KiB / 1 KiB, 100%, 1 KiB/s, ETA 0s' >&2\nexit 0\n"
	require.NoError(t, os.WriteFile(rclonePath, []byte(script), 0o755))

	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
temp_dir: %s
log:
  level: error
path:
  rclone: %s
tasks:
  - id: 1
    path: %s
    credential: 10
    attributes:
      bucket: photos
  - id: 2
    path: %s
    credential: 20
    attributes:
      bucket: music
credentials:
  - id: 10
    name: aws-main
    provider: AMAZON
    attributes:
      access_key: AKIA
      secret_key: secret
  - id: 20
    name: other
    provider: BACKBLAZE
    attributes:
      access_key: a
      secret_key: b
`, filepath.Join(dir, "tmp"), rclonePath, dir, dir)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSyncCmd_Local(t *testing.T) {
	configPath := writeConfig(t)

	stdout, stderr, err := execute(t, "--config", configPath, "sync", "1", "--local")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Task 1 synced.")
	assert.Contains(t, stderr, "[100.0%] 1 KiB / 1 KiB, 100%, 1 KiB/s, ETA 0s")
}

func TestSyncCmd_LocalErrors(t *testing.T) {
	configPath := writeConfig(t)

	_, _, err := execute(t, "--config", configPath, "sync", "404", "--local")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = execute(t, "--config", configPath, "sync", "2", "--local")
	assert.ErrorContains(t, err, `unsupported provider: "BACKBLAZE"`)

	_, _, err = execute(t, "--config", configPath, "sync", "abc", "--local")
	assert.ErrorContains(t, err, `invalid task id "abc"`)
}

func TestLocationCmd_UnsupportedProvider(t *testing.T) {
	configPath := writeConfig(t)

	_, _, err := execute(t, "--config", configPath, "location", "20", "music")
	assert.ErrorContains(t, err, "unsupported provider")
}

func TestStartOptions(t *testing.T) {
	opts := startOptions(task.LockKey(7), "cloudsync")

	assert.Equal(t, "backup:7", opts.ID)
	assert.Equal(t, "cloudsync", opts.TaskQueue)
	assert.Equal(t, enumspb.WORKFLOW_ID_CONFLICT_POLICY_FAIL, opts.WorkflowIDConflictPolicy)
	assert.True(t, opts.WorkflowExecutionErrorWhenAlreadyStarted)
}

func TestStartError(t *testing.T) {
	err := startError("backup:7", &serviceerror.WorkflowExecutionAlreadyStarted{Message: "workflow execution already started"})
	assert.ErrorIs(t, err, job.ErrJobRunning)
	assert.ErrorContains(t, err, "backup:7")

	err = startError("backup:7", errors.New("deadline exceeded"))
	assert.NotErrorIs(t, err, job.ErrJobRunning)
	assert.EqualError(t, err, "failed to start workflow: deadline exceeded")
}

func TestScheduleOptions(t *testing.T) {
	opts := scheduleOptions(&task.Task{ID: 3, Schedule: "0 3 * * *"}, "cloudsync")

	assert.Equal(t, "schedule-backup:3", opts.ID)
	assert.Equal(t, []string{"0 3 * * *"}, opts.Spec.CronExpressions)
	assert.Equal(t, enumspb.SCHEDULE_OVERLAP_POLICY_SKIP, opts.Overlap)

	action, ok := opts.Action.(*temporalclient.ScheduleWorkflowAction)
	require.True(t, ok)
	assert.Equal(t, "schedule-backup:3", action.ID)
	assert.Equal(t, names.WorkflowNameScheduledSync, action.Workflow)
	assert.Equal(t, "cloudsync", action.TaskQueue)
	assert.Equal(t, []interface{}{workflows.SyncWorkflowInput{TaskID: 3}}, action.Args)
}

func TestScheduleUpdate(t *testing.T) {
	paused := &temporalclient.ScheduleState{Paused: true, Note: "maintenance"}
	input := temporalclient.ScheduleUpdateInput{
		Description: temporalclient.ScheduleDescription{
			Schedule: temporalclient.Schedule{
				Spec: &temporalclient.ScheduleSpec{CronExpressions: []string{"0 1 * * *"}},
				Action: &temporalclient.ScheduleWorkflowAction{
					ID:       "backup:3",
					Workflow: names.WorkflowNameSync,
				},
				State: paused,
			},
		},
	}

	update, err := scheduleUpdate(&task.Task{ID: 3, Schedule: "30 4 * * *"}, "cloudsync")(input)
	require.NoError(t, err)
	require.NotNil(t, update.Schedule)

	assert.Equal(t, []string{"30 4 * * *"}, update.Schedule.Spec.CronExpressions)
	assert.Equal(t, paused, update.Schedule.State)
	require.NotNil(t, update.Schedule.Policy)
	assert.Equal(t, enumspb.SCHEDULE_OVERLAP_POLICY_SKIP, update.Schedule.Policy.Overlap)

	action, ok := update.Schedule.Action.(*temporalclient.ScheduleWorkflowAction)
	require.True(t, ok)
	assert.Equal(t, names.WorkflowNameScheduledSync, action.Workflow)
	assert.Equal(t, "cloudsync", action.TaskQueue)
}

func TestLocalFlagsDocumentLockScope(t *testing.T) {
	flags := &rootFlags{}
	for _, c := range []*cobra.Command{newSyncCmd(flags), newPutCmd(flags)} {
		local := c.Flags().Lookup("local")
		require.NotNil(t, local, c.Name())
		assert.Contains(t, local.Usage, "not coordinated with worker runs", c.Name())
		assert.Contains(t, c.Long, "not against workflows on the worker", c.Name())
	}
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)

	pct := 42.0
	p.Sink().Publish(job.Progress{Percent: &pct, Message: "42%"})
	p.Sink().Publish(job.Progress{Message: "checking"})
	p.Stop()

	assert.Equal(t, "[ 42.0%] 42%\nchecking\n", buf.String())
}

func TestParseID(t *testing.T) {
	id, err := parseID("task", "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = parseID("task", "0")
	assert.Error(t, err)
	_, err = parseID("credential", "-1")
	assert.EqualError(t, err, `invalid credential id "-1"`)
}
