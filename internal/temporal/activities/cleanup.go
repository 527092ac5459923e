package activities

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.temporal.io/sdk/activity"
)

type CleanupActivityInput struct {
	Paths []string `json:"paths"`
}

type CleanupActivityOutput struct {
	Removed int `json:"removed"`
}

// CleanupActivity removes files left behind by put and get. Every path is
// attempted; failures are returned together.
func (a *Activities) CleanupActivity(ctx context.Context, input CleanupActivityInput) (*CleanupActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("CleanupActivity called", "paths", len(input.Paths))

	var (
		result = new(CleanupActivityOutput)
		errs   []error
	)
	for _, path := range input.Paths {
		if path == "" {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			logger.Error("Failed to remove path", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", path, err))
			continue
		}
		result.Removed++
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	logger.Info("CleanupActivity completed", "removed", result.Removed)
	return result, nil
}
