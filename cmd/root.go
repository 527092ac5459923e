package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "cloudsync",
		Short: "cloudsync mirrors local paths to object storage buckets.",
		Long: `cloudsync runs backup tasks that mirror a local directory to an S3 bucket,
and uploads or downloads single objects for a task. Tasks can run directly from
the command line or on a Temporal worker, where schedules trigger them periodically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the config file (default ./config.yaml)")

	rootCmd.AddCommand(
		newWorkerCmd(flags),
		newSyncCmd(flags),
		newPutCmd(flags),
		newGetCmd(flags),
		newBucketsCmd(flags),
		newLocationCmd(flags),
		newScheduleCmd(flags),
	)
	return rootCmd
}

// withApp builds the app container for a command and closes it afterwards
func withApp(flags *rootFlags, run func(cmd *cobra.Command, args []string, app *appContainer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context(), flags.configPath)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, args, app)
	}
}
