package activities

import (
	"cloudsync/internal/backup"
	"cloudsync/internal/config"
	"cloudsync/internal/job"
	"cloudsync/internal/rclone"
	"cloudsync/internal/store"
	"cloudsync/internal/task"
	"cloudsync/internal/transfer"
	"cloudsync/internal/transfer/transfertest"
	"cloudsync/pkg/names"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
)

type fakeSyncer struct {
	calls []rclone.SyncRequest
	err   error
	// quiet syncs report nothing and take duration
	quiet    bool
	duration time.Duration
}

func (f *fakeSyncer) Sync(ctx context.Context, req rclone.SyncRequest, report rclone.ReportFunc) error {
	f.calls = append(f.calls, req)
	if f.quiet {
		time.Sleep(f.duration)
		return f.err
	}
	pct := 100.0
	report(&pct, "3 MiB / 3 MiB, 100%")
	return f.err
}

type fixture struct {
	acts   *Activities
	syncer *fakeSyncer
	client *transfertest.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		TempDir: t.TempDir(),
		Tasks: []config.Task{
			{ID: 1, Path: "/mnt/tank/photos", Credential: 10, Attributes: map[string]interface{}{"bucket": "photos", "folder": "nightly"}},
			{ID: 2, Path: "/mnt/tank/music", Credential: 20, Attributes: map[string]interface{}{"bucket": "music"}},
		},
		Credentials: []config.Credential{
			{ID: 10, Name: "aws-main", Provider: "AMAZON", Attributes: map[string]interface{}{"access_key": "AKIA", "secret_key": "secret"}},
			{ID: 20, Name: "azure", Provider: "AZURE", Attributes: map[string]interface{}{"access_key": "a", "secret_key": "b"}},
		},
	}

	f := &fixture{
		syncer: &fakeSyncer{},
		client: transfertest.NewClient(),
	}
	provider := backup.NewS3Provider(f.syncer,
		backup.WithClientFactory(func(ctx context.Context, cred *task.Credential, region string) (backup.S3API, error) {
			return f.client, nil
		}),
		backup.WithEngineOptions(transfer.WithChunkSize(4)),
	)
	st := store.NewConfigStore(cfg)
	svc := backup.NewService(st, job.NewTracker(zerolog.Nop()), backup.Providers{S3: provider}, zerolog.Nop())
	f.acts = NewActivities(cfg, st, svc)
	return f
}

// requireAppError asserts err is a non-retryable application error of errType
func requireAppError(t *testing.T, err error, errType string) {
	t.Helper()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr), "expected application error, got %T: %v", err, err)
	require.Equal(t, errType, appErr.Type())
	require.True(t, appErr.NonRetryable())
}

func TestNonRetryable(t *testing.T) {
	require.NoError(t, nonRetryable(nil))

	plain := errors.New("connection reset")
	require.Equal(t, plain, nonRetryable(plain))

	requireAppError(t, nonRetryable(job.ErrJobRunning), names.ErrorTypeJobRunning)
	requireAppError(t, nonRetryable(&rclone.SyncFailedError{ExitCode: 1}), names.ErrorTypeSyncFailed)
	requireAppError(t, nonRetryable(&backup.UnsupportedProviderError{Provider: "AZURE"}), names.ErrorTypeUnsupportedProvider)
}
