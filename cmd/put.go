package main

import (
	"cloudsync/internal/task"
	"cloudsync/internal/temporal/workflows"
	"cloudsync/pkg/names"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type putFlags struct {
	name         string
	local        bool
	removeSource bool
}

func newPutCmd(flags *rootFlags) *cobra.Command {
	cmdFlags := putFlags{}

	putCmd := &cobra.Command{
		Use:   "put [task-id] [file]",
		Short: "Upload a file into a task's bucket folder",
		Long: `Uploads one file as a multipart upload into the task's bucket folder. Without --local
the file is uploaded by the worker and must exist on the worker host. A --local upload is
only guarded against other runs in this process, not against workflows on the worker.`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *appContainer) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			filePath := args[1]
			filename := cmdFlags.name
			if filename == "" {
				filename = filepath.Base(filePath)
			}

			if cmdFlags.local {
				app.Logger.Warn().Int64("task", taskID).Msg("local upload is not coordinated with worker runs")
				file, err := os.Open(filePath)
				if err != nil {
					return fmt.Errorf("failed to open file: %w", err)
				}
				defer file.Close()

				fi, err := file.Stat()
				if err != nil {
					return fmt.Errorf("failed to stat file: %w", err)
				}

				printer := newProgressPrinter(cmd.ErrOrStderr())
				err = app.Backup.Put(cmd.Context(), taskID, filename, file, fi.Size(), printer.Sink())
				printer.Stop()
				if err != nil {
					return err
				}
				if cmdFlags.removeSource {
					if err := os.Remove(filePath); err != nil {
						app.Logger.Warn().Err(err).Str("path", filePath).Msg("failed to remove source file")
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes).\n", filename, fi.Size())
				return nil
			}

			c, err := dialTemporal(cmd.Context(), app.Config.Temporal, app.Logger)
			if err != nil {
				return err
			}
			defer c.Close()

			lockKey := task.LockKey(taskID)
			run, err := c.ExecuteWorkflow(cmd.Context(), startOptions(lockKey, app.Config.Temporal.TaskQueue),
				names.WorkflowNamePut, workflows.PutWorkflowInput{
					TaskID:       taskID,
					FilePath:     filePath,
					Filename:     filename,
					RemoveSource: cmdFlags.removeSource,
				})
			if err != nil {
				return startError(lockKey, err)
			}

			var out workflows.PutWorkflowOutput
			if err := run.Get(cmd.Context(), &out); err != nil {
				return fmt.Errorf("upload of %s failed: %w", filename, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes, sha256 %s).\n", out.Filename, out.Size, out.Checksum)
			return nil
		}),
	}
	putCmd.Flags().StringVarP(&cmdFlags.name, "name", "n", "", "Object name under the task folder (default: file base name)")
	putCmd.Flags().BoolVar(&cmdFlags.local, "local", false, "Upload from this process instead of the worker (not coordinated with worker runs)")
	putCmd.Flags().BoolVar(&cmdFlags.removeSource, "remove-source", false, "Delete the file after a successful upload")

	return putCmd
}
