package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type getFlags struct {
	output string
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	cmdFlags := getFlags{}

	getCmd := &cobra.Command{
		Use:   "get [task-id] [filename]",
		Short: "Download an object from a task's bucket folder",
		Long:  `Downloads an object from the task's bucket folder to a file, or to stdout when --output is "-".`,
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *appContainer) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			filename := args[1]

			output := cmdFlags.output
			if output == "" {
				output = filename
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			printer := newProgressPrinter(cmd.ErrOrStderr())
			n, err := app.Backup.Get(cmd.Context(), taskID, filename, w, printer.Sink())
			printer.Stop()
			if err != nil {
				if output != "-" {
					os.Remove(output)
				}
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s to %s (%d bytes).\n", filename, output, n)
			}
			return nil
		}),
	}
	getCmd.Flags().StringVarP(&cmdFlags.output, "output", "o", "", `Destination path, "-" for stdout (default: the object name)`)

	return getCmd
}
