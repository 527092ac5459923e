package main

import (
	"cloudsync/internal/task"
	"cloudsync/internal/temporal/workflows"
	"cloudsync/pkg/names"
	"fmt"

	"github.com/spf13/cobra"
)

type syncFlags struct {
	local bool
	wait  bool
}

func newSyncCmd(flags *rootFlags) *cobra.Command {
	cmdFlags := syncFlags{}

	syncCmd := &cobra.Command{
		Use:   "sync [task-id]",
		Short: "Mirror a task's local path to its bucket",
		Long: `Starts a sync workflow for the task on the Temporal worker. Only one sync per task
runs at a time. Use --local to run rclone in this process and print its progress; a local
sync is only guarded against other runs in this process, not against workflows on the worker.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *appContainer) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}

			if cmdFlags.local {
				app.Logger.Warn().Int64("task", taskID).Msg("local sync is not coordinated with worker runs")
				printer := newProgressPrinter(cmd.ErrOrStderr())
				_, err := app.Backup.Sync(cmd.Context(), taskID, printer.Sink())
				printer.Stop()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d synced.\n", taskID)
				return nil
			}

			c, err := dialTemporal(cmd.Context(), app.Config.Temporal, app.Logger)
			if err != nil {
				return err
			}
			defer c.Close()

			lockKey := task.LockKey(taskID)
			run, err := c.ExecuteWorkflow(cmd.Context(), startOptions(lockKey, app.Config.Temporal.TaskQueue),
				names.WorkflowNameSync, workflows.SyncWorkflowInput{TaskID: taskID})
			if err != nil {
				return startError(lockKey, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started workflow %s (run %s).\n", run.GetID(), run.GetRunID())

			if !cmdFlags.wait {
				return nil
			}
			var out workflows.SyncWorkflowOutput
			if err := run.Get(cmd.Context(), &out); err != nil {
				return fmt.Errorf("sync of task %d failed: %w", taskID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d synced.\n", taskID)
			return nil
		}),
	}
	syncCmd.Flags().BoolVar(&cmdFlags.local, "local", false, "Run the sync in this process instead of on the worker (not coordinated with worker runs)")
	syncCmd.Flags().BoolVarP(&cmdFlags.wait, "wait", "w", false, "Wait for the workflow to complete")

	return syncCmd
}
