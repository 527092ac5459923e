package main

import (
	"cloudsync/internal/temporal/activities"
	"cloudsync/internal/temporal/workflows"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/worker"
)

func newWorkerCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the Temporal worker",
		Long:  `Connects to Temporal and executes sync and put workflows from the configured task queue until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *appContainer) error {
			c, err := dialTemporal(cmd.Context(), app.Config.Temporal, app.Logger)
			if err != nil {
				return err
			}
			defer c.Close()

			w := worker.New(c, app.Config.Temporal.TaskQueue, worker.Options{})
			workflows.Register(w, activities.NewActivities(app.Config, app.Store, app.Backup))

			app.Logger.Info().
				Str("queue", app.Config.Temporal.TaskQueue).
				Str("store", app.Config.Store.Driver).
				Msg("worker started")

			// Start listening to the Task Queue.
			stop := make(chan interface{})
			go func() {
				<-cmd.Context().Done()
				close(stop)
			}()
			return w.Run(stop)
		}),
	}
}
