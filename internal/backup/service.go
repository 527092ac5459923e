// Package backup dispatches sync, put and get requests for backup tasks to the
// implementation matching the task credential's provider.
package backup

import (
	"cloudsync/internal/job"
	"cloudsync/internal/store"
	"cloudsync/internal/task"
	"context"
	"io"

	"github.com/rs/zerolog"
)

// Service runs backup operations. Every operation on a task runs as a tracked
// job under the task's lock key, so only one of them is in flight per task.
type Service struct {
	store     store.Store
	tracker   *job.Tracker
	providers Providers
	logger    zerolog.Logger
}

func NewService(st store.Store, tracker *job.Tracker, providers Providers, logger zerolog.Logger) *Service {
	return &Service{
		store:     st,
		tracker:   tracker,
		providers: providers,
		logger:    logger,
	}
}

// Tracker exposes the job tracker so callers can observe running jobs
func (s *Service) Tracker() *job.Tracker {
	return s.tracker
}

func (s *Service) provider(cred *task.Credential) (Provider, error) {
	switch cred.Provider {
	case task.ProviderAmazon:
		if s.providers.S3 != nil {
			return s.providers.S3, nil
		}
	}
	return nil, &UnsupportedProviderError{Provider: cred.Provider}
}

// run executes fn as a tracked job for taskID after resolving the task and its provider
func (s *Service) run(ctx context.Context, taskID int64, sinks []job.Sink, fn func(*job.Job, Provider, *task.Task, *task.Credential) error) error {
	lockKey := task.LockKey(taskID)
	sinks = append(sinks[:len(sinks):len(sinks)], job.LogSink{Logger: s.logger.With().Str("lock", lockKey).Logger()})
	j, err := s.tracker.Start(lockKey, sinks...)
	if err != nil {
		return err
	}

	err = func() error {
		t, cred, err := store.Resolve(ctx, s.store, taskID)
		if err != nil {
			return err
		}
		p, err := s.provider(cred)
		if err != nil {
			return err
		}
		return fn(j, p, t, cred)
	}()

	s.tracker.Finish(j, err)
	return err
}

// Sync mirrors the task's local path to its bucket. It fails fast with
// job.ErrJobRunning when another operation holds the task's lock.
func (s *Service) Sync(ctx context.Context, taskID int64, sinks ...job.Sink) (bool, error) {
	err := s.run(ctx, taskID, sinks, func(j *job.Job, p Provider, t *task.Task, cred *task.Credential) error {
		s.logger.Info().Int64("task", t.ID).Str("job", j.ID.String()).Str("provider", cred.Provider.String()).Msg("sync started")
		return p.Sync(ctx, j, t, cred)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("task", taskID).Msg("sync failed")
		return false, err
	}
	s.logger.Info().Int64("task", taskID).Msg("sync completed")
	return true, nil
}

// Put uploads r as filename into the task's bucket folder
func (s *Service) Put(ctx context.Context, taskID int64, filename string, r io.Reader, size int64, sinks ...job.Sink) error {
	return s.run(ctx, taskID, sinks, func(j *job.Job, p Provider, t *task.Task, cred *task.Credential) error {
		return p.Put(ctx, j, t, cred, filename, r, size)
	})
}

// Get downloads filename from the task's bucket folder into w
func (s *Service) Get(ctx context.Context, taskID int64, filename string, w io.Writer, sinks ...job.Sink) (int64, error) {
	var n int64
	err := s.run(ctx, taskID, sinks, func(j *job.Job, p Provider, t *task.Task, cred *task.Credential) error {
		var err error
		n, err = p.Get(ctx, j, t, cred, filename, w)
		return err
	})
	return n, err
}

func (s *Service) credentialProvider(ctx context.Context, credentialID int64) (*task.Credential, Provider, error) {
	cred, err := s.store.Credential(ctx, credentialID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.provider(cred)
	if err != nil {
		return nil, nil, err
	}
	return cred, p, nil
}

// Buckets lists the buckets visible to a credential
func (s *Service) Buckets(ctx context.Context, credentialID int64) ([]Bucket, error) {
	cred, p, err := s.credentialProvider(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	return p.Buckets(ctx, cred)
}

// BucketLocation returns the region constraint of bucket as reported by the
// provider. AWS reports an empty constraint for us-east-1.
func (s *Service) BucketLocation(ctx context.Context, credentialID int64, bucket string) (string, error) {
	cred, p, err := s.credentialProvider(ctx, credentialID)
	if err != nil {
		return "", err
	}
	return p.BucketLocation(ctx, cred, bucket)
}
