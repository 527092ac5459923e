package main

import (
	"cloudsync/internal/backup"
	"cloudsync/internal/config"
	"cloudsync/internal/job"
	"cloudsync/internal/rclone"
	"cloudsync/internal/store"
	"cloudsync/pkg/log"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// recordStore is what the commands need from the task and credential records
type recordStore interface {
	store.Store
	store.Lister
}

// appContainer holds the shared dependencies of every command
type appContainer struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  recordStore
	Backup *backup.Service

	closers []func() error
}

func newApp(ctx context.Context, configPath string) (*appContainer, error) {
	cfg, err := config.NewConfig(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := log.New(cfg.Log)

	app := &appContainer{Config: cfg, Logger: logger}
	if err := app.openStore(ctx); err != nil {
		return nil, err
	}

	runner := &rclone.Runner{
		Path:          cfg.Path.Rclone,
		TempDir:       cfg.TempDir,
		Stats:         cfg.Rclone.Stats,
		StatsLogLevel: cfg.Rclone.StatsLogLevel,
		ExtraArgs:     cfg.Rclone.ExtraArgs,
		Logger:        logger.With().Str("component", "rclone").Logger(),
	}
	s3Provider := backup.NewS3Provider(runner, backup.WithS3Logger(logger.With().Str("component", "transfer").Logger()))

	app.Backup = backup.NewService(
		app.Store,
		job.NewTracker(logger),
		backup.Providers{S3: s3Provider},
		logger.With().Str("component", "backup").Logger(),
	)
	return app, nil
}

func (a *appContainer) openStore(ctx context.Context) error {
	switch a.Config.Store.Driver {
	case config.StoreDriverMySQL:
		s, err := store.OpenMySQL(ctx, a.Config.Store.DSN)
		if err != nil {
			return err
		}
		a.Store = s
		a.closers = append(a.closers, s.Close)
	default:
		a.Store = store.NewConfigStore(a.Config)
	}
	a.Logger.Debug().Str("driver", a.Config.Store.Driver).Msg("record store opened")
	return nil
}

func (a *appContainer) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.Logger.Warn().Err(err).Msg("failed to close resource")
		}
	}
}
