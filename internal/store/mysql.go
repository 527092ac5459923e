package store

import (
	"cloudsync/internal/task"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	queryTask = `SELECT id, path, credential_id, schedule, attributes
		FROM tasks_cloudsync WHERE id = ?`
	queryCredential = `SELECT id, name, provider, attributes
		FROM system_cloudcredentials WHERE id = ?`
	queryTaskIDs = `SELECT id FROM tasks_cloudsync ORDER BY id`
)

// MySQLStore reads task and credential records from MySQL.
// Attributes are stored as JSON documents.
type MySQLStore struct {
	db *sql.DB
}

var _ Store = (*MySQLStore)(nil)

// OpenMySQL connects to the record database described by dsn
func OpenMySQL(ctx context.Context, dsn string) (*MySQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	return NewMySQLStore(db), nil
}

// NewMySQLStore wraps an existing connection pool
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Task(ctx context.Context, id int64) (*task.Task, error) {
	var (
		t        task.Task
		schedule sql.NullString
		attrs    []byte
	)
	err := s.db.QueryRowContext(ctx, queryTask, id).Scan(&t.ID, &t.Path, &t.CredentialID, &schedule, &attrs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, taskNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task %d: %w", id, err)
	}
	t.Schedule = schedule.String

	if err := decodeJSON(attrs, &t.Attributes); err != nil {
		return nil, fmt.Errorf("task %d: %w", id, err)
	}
	return &t, nil
}

func (s *MySQLStore) Credential(ctx context.Context, id int64) (*task.Credential, error) {
	var (
		c        task.Credential
		provider string
		attrs    []byte
	)
	err := s.db.QueryRowContext(ctx, queryCredential, id).Scan(&c.ID, &c.Name, &provider, &attrs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, credentialNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential %d: %w", id, err)
	}
	c.Provider = task.Provider(provider)

	if err := decodeJSON(attrs, &c.Attributes); err != nil {
		return nil, fmt.Errorf("credential %d: %w", id, err)
	}
	return &c, nil
}

// Tasks lists every task in the table
func (s *MySQLStore) Tasks(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, queryTaskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]*task.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Task(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Close releases the connection pool
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func decodeJSON(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal attributes: %w", err)
	}
	return nil
}
