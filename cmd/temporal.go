package main

import (
	"cloudsync/internal/config"
	"cloudsync/internal/job"
	"cloudsync/pkg/log"
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/contrib/envconfig"

	temporalclient "go.temporal.io/sdk/client"
)

// dialTemporal connects to the Temporal frontend. Environment configuration
// (TEMPORAL_* variables and profiles) is loaded first; the config file wins.
func dialTemporal(ctx context.Context, cfg config.TemporalConfig, logger zerolog.Logger) (temporalclient.Client, error) {
	clientOptions := envconfig.MustLoadDefaultClientOptions()

	if cfg.TLS {
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS12,
			NextProtos: []string{"h2"},
		}

		clientOptions.ConnectionOptions = temporalclient.ConnectionOptions{
			TLS: tlsConfig,
		}
	}

	if cfg.HostPort != "" {
		clientOptions.HostPort = cfg.HostPort
	}
	if cfg.Namespace != "" {
		clientOptions.Namespace = cfg.Namespace
	}
	if cfg.APIKey != "" {
		clientOptions.Credentials = temporalclient.NewAPIKeyStaticCredentials(cfg.APIKey)
	}
	clientOptions.Logger = log.NewTemporalAdapter(logger)

	c, err := temporalclient.DialContext(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to create Temporal client: %w", err)
	}
	logger.Info().Str("host", clientOptions.HostPort).Str("namespace", clientOptions.Namespace).Msg("connected to Temporal")
	return c, nil
}

// startOptions start a workflow under the task's lock key. A second start for
// the same task fails while the first is still running.
func startOptions(lockKey, taskQueue string) temporalclient.StartWorkflowOptions {
	return temporalclient.StartWorkflowOptions{
		ID:                                       lockKey,
		TaskQueue:                                taskQueue,
		WorkflowIDConflictPolicy:                 enumspb.WORKFLOW_ID_CONFLICT_POLICY_FAIL,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
}

// startError maps an already running workflow to job.ErrJobRunning
func startError(lockKey string, err error) error {
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return fmt.Errorf("%w: %s", job.ErrJobRunning, lockKey)
	}
	return fmt.Errorf("failed to start workflow: %w", err)
}
