package store

import (
	"cloudsync/internal/config"
	"cloudsync/internal/task"
	"context"
	"fmt"
)

// ConfigStore serves the tasks and credentials declared in the agent config file
type ConfigStore struct {
	tasks       []config.Task
	credentials []config.Credential
}

var _ Store = (*ConfigStore)(nil)

// NewConfigStore creates a store backed by cfg.Tasks and cfg.Credentials
func NewConfigStore(cfg *config.Config) *ConfigStore {
	return &ConfigStore{
		tasks:       cfg.Tasks,
		credentials: cfg.Credentials,
	}
}

func (s *ConfigStore) Task(ctx context.Context, id int64) (*task.Task, error) {
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		raw := s.tasks[i]
		t := &task.Task{
			ID:           raw.ID,
			Path:         raw.Path,
			CredentialID: raw.Credential,
			Schedule:     raw.Schedule,
		}
		if err := task.DecodeAttributes(raw.Attributes, &t.Attributes); err != nil {
			return nil, fmt.Errorf("task %d: %w", id, err)
		}
		return t, nil
	}
	return nil, taskNotFound(id)
}

func (s *ConfigStore) Credential(ctx context.Context, id int64) (*task.Credential, error) {
	for i := range s.credentials {
		if s.credentials[i].ID != id {
			continue
		}
		raw := s.credentials[i]
		c := &task.Credential{
			ID:       raw.ID,
			Name:     raw.Name,
			Provider: task.Provider(raw.Provider),
		}
		if err := task.DecodeAttributes(raw.Attributes, &c.Attributes); err != nil {
			return nil, fmt.Errorf("credential %d: %w", id, err)
		}
		return c, nil
	}
	return nil, credentialNotFound(id)
}

// Tasks lists every declared task
func (s *ConfigStore) Tasks(ctx context.Context) ([]*task.Task, error) {
	out := make([]*task.Task, 0, len(s.tasks))
	for i := range s.tasks {
		t, err := s.Task(ctx, s.tasks[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
