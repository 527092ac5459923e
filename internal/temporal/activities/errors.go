package activities

import (
	"cloudsync/internal/backup"
	"cloudsync/internal/job"
	"cloudsync/internal/rclone"
	"cloudsync/internal/store"
	"cloudsync/pkg/names"
	"errors"

	"go.temporal.io/sdk/temporal"
)

// nonRetryable marks errors that a retry cannot fix
func nonRetryable(err error) error {
	if err == nil {
		return nil
	}

	var errType string
	switch {
	case errors.Is(err, store.ErrNotFound):
		errType = names.ErrorTypeNotFound
	case errors.Is(err, backup.ErrUnsupportedProvider):
		errType = names.ErrorTypeUnsupportedProvider
	case errors.Is(err, rclone.ErrSyncFailed):
		errType = names.ErrorTypeSyncFailed
	case errors.Is(err, job.ErrJobRunning):
		errType = names.ErrorTypeJobRunning
	default:
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errType, err)
}
