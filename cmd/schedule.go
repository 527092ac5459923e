package main

import (
	"cloudsync/internal/task"
	"cloudsync/internal/temporal/workflows"
	"cloudsync/pkg/names"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/temporal"

	temporalclient "go.temporal.io/sdk/client"
)

func scheduleAction(t *task.Task, taskQueue string) *temporalclient.ScheduleWorkflowAction {
	return &temporalclient.ScheduleWorkflowAction{
		ID:        names.ScheduleID(t.LockKey()),
		Workflow:  names.WorkflowNameScheduledSync,
		Args:      []interface{}{workflows.SyncWorkflowInput{TaskID: t.ID}},
		TaskQueue: taskQueue,
	}
}

// scheduleOptions runs the scheduled sync workflow of t on its cron
// expression. A run that is due while the previous one is still going is
// skipped.
func scheduleOptions(t *task.Task, taskQueue string) temporalclient.ScheduleOptions {
	return temporalclient.ScheduleOptions{
		ID: names.ScheduleID(t.LockKey()),
		Spec: temporalclient.ScheduleSpec{
			CronExpressions: []string{t.Schedule},
		},
		Action:  scheduleAction(t, taskQueue),
		Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_SKIP,
	}
}

// scheduleUpdate replaces the cron expressions and action of an existing schedule with the
// ones derived from t. Its paused state and notes are kept.
func scheduleUpdate(t *task.Task, taskQueue string) func(temporalclient.ScheduleUpdateInput) (*temporalclient.ScheduleUpdate, error) {
	return func(input temporalclient.ScheduleUpdateInput) (*temporalclient.ScheduleUpdate, error) {
		schedule := input.Description.Schedule
		schedule.Spec = &temporalclient.ScheduleSpec{
			CronExpressions: []string{t.Schedule},
		}
		schedule.Action = scheduleAction(t, taskQueue)
		if schedule.Policy == nil {
			schedule.Policy = &temporalclient.SchedulePolicies{}
		}
		schedule.Policy.Overlap = enumspb.SCHEDULE_OVERLAP_POLICY_SKIP
		return &temporalclient.ScheduleUpdate{Schedule: &schedule}, nil
	}
}

func newScheduleCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Register Temporal schedules for tasks with a cron schedule",
		Long: `Creates one schedule per task that declares a cron expression. Each schedule
starts a sync under the task's lock key, so a scheduled run never overlaps a manual
sync or put of the same task. Existing schedules are updated to the task's current cron expression.`,
		Args: cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *appContainer) error {
			tasks, err := app.Store.Tasks(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			c, err := dialTemporal(cmd.Context(), app.Config.Temporal, app.Logger)
			if err != nil {
				return err
			}
			defer c.Close()

			created, updated := 0, 0
			for _, t := range tasks {
				if t.Schedule == "" {
					continue
				}
				opts := scheduleOptions(t, app.Config.Temporal.TaskQueue)
				_, err := c.ScheduleClient().Create(cmd.Context(), opts)
				if errors.Is(err, temporal.ErrScheduleAlreadyRunning) {
					handle := c.ScheduleClient().GetHandle(cmd.Context(), opts.ID)
					err = handle.Update(cmd.Context(), temporalclient.ScheduleUpdateOptions{
						DoUpdate: scheduleUpdate(t, app.Config.Temporal.TaskQueue),
					})
					if err != nil {
						return fmt.Errorf("failed to update schedule for task %d: %w", t.ID, err)
					}
					app.Logger.Info().Str("schedule", opts.ID).Str("cron", t.Schedule).Msg("schedule updated")
					updated++
					fmt.Fprintf(cmd.OutOrStdout(), "Updated schedule %s of task %d (%s).\n", opts.ID, t.ID, t.Schedule)
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to create schedule for task %d: %w", t.ID, err)
				}
				created++
				fmt.Fprintf(cmd.OutOrStdout(), "Scheduled task %d (%s) as %s.\n", t.ID, t.Schedule, opts.ID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d schedule(s) created, %d updated.\n", created, updated)
			return nil
		}),
	}
}
