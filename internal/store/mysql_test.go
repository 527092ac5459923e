package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMySQL_InvalidDSN(t *testing.T) {
	_, err := OpenMySQL(context.Background(), "not a dsn")
	assert.ErrorContains(t, err, "failed to parse mysql dsn")
}

// TestMySQLStore runs against a live database when CLOUDSYNC_TEST_MYSQL_DSN is set
func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("CLOUDSYNC_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("CLOUDSYNC_TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()

	s, err := OpenMySQL(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()
	// temporary tables are per connection
	s.db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TEMPORARY TABLE tasks_cloudsync (
			id BIGINT PRIMARY KEY, path TEXT NOT NULL, credential_id BIGINT NOT NULL,
			schedule VARCHAR(255) NULL, attributes JSON NULL)`,
		`CREATE TEMPORARY TABLE system_cloudcredentials (
			id BIGINT PRIMARY KEY, name VARCHAR(255) NOT NULL, provider VARCHAR(64) NOT NULL, attributes JSON NULL)`,
		`INSERT INTO tasks_cloudsync VALUES (1, '/mnt/tank/photos', 10, NULL, '{"bucket":"photos","folder":"nightly"}')`,
		`INSERT INTO system_cloudcredentials VALUES (10, 'aws-main', 'AMAZON', '{"access_key":"AKIA","secret_key":"secret"}')`,
	} {
		_, err := s.db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	tk, cred, err := Resolve(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, "nightly", tk.Attributes.Folder)
	assert.Empty(t, tk.Schedule)
	assert.Equal(t, "AKIA", cred.Attributes.AccessKey)

	tasks, err := s.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = s.Task(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
