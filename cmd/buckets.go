package main

import (
	"cloudsync/pkg/s3"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newBucketsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "buckets [credential-id]",
		Short: "List the buckets visible to a credential",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *appContainer) error {
			credentialID, err := parseID("credential", args[0])
			if err != nil {
				return err
			}

			buckets, err := app.Backup.Buckets(cmd.Context(), credentialID)
			if err != nil {
				return err
			}
			if len(buckets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No buckets found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCREATED")
			for _, b := range buckets {
				fmt.Fprintf(tw, "%s\t%s\n", b.Name, b.CreationDate.Format(time.RFC3339))
			}
			return tw.Flush()
		}),
	}
}

func newLocationCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "location [credential-id] [bucket]",
		Short: "Show the region of a bucket",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *appContainer) error {
			credentialID, err := parseID("credential", args[0])
			if err != nil {
				return err
			}

			location, err := app.Backup.BucketLocation(cmd.Context(), credentialID, args[1])
			if err != nil {
				return err
			}
			if location == "" {
				// S3 reports no constraint for the default region
				location = s3.DefaultRegion
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		}),
	}
}
