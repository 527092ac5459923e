// Package store resolves backup tasks and cloud credentials from the record store.
package store

import (
	"cloudsync/internal/task"
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a task or credential id does not exist
var ErrNotFound = errors.New("not found")

// Store is a read-only view of the task and credential records
type Store interface {
	Task(ctx context.Context, id int64) (*task.Task, error)
	Credential(ctx context.Context, id int64) (*task.Credential, error)
}

// Lister enumerates every task, used to register schedules
type Lister interface {
	Tasks(ctx context.Context) ([]*task.Task, error)
}

// Resolve looks up the task and then its credential, validating both.
// The credential is never queried when the task does not exist.
func Resolve(ctx context.Context, s Store, taskID int64) (*task.Task, *task.Credential, error) {
	t, err := s.Task(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}

	cred, err := s.Credential(ctx, t.CredentialID)
	if err != nil {
		return nil, nil, fmt.Errorf("backup credential: %w", err)
	}
	if err := cred.Validate(); err != nil {
		return nil, nil, err
	}
	if err := task.CheckPair(t, cred); err != nil {
		return nil, nil, err
	}

	return t, cred, nil
}

func taskNotFound(id int64) error {
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}

func credentialNotFound(id int64) error {
	return fmt.Errorf("credential %d: %w", id, ErrNotFound)
}
