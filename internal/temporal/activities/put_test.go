package activities

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestPutAndGetActivity(t *testing.T) {
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestActivityEnvironment()
	f := newFixture(t)
	env.RegisterActivity(f.acts)

	content := []byte("hello world")
	source := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(source, content, 0o600))

	future, err := env.ExecuteActivity(f.acts.PutActivity, PutActivityInput{TaskID: 1, FilePath: source})
	require.NoError(t, err)

	var put PutActivityOutput
	require.NoError(t, future.Get(&put))
	assert.Equal(t, "report.txt", put.Filename)
	assert.Equal(t, int64(len(content)), put.Size)
	assert.Equal(t, checksum(content), put.Checksum)

	stored, ok := f.client.Object("photos", "nightly/report.txt")
	require.True(t, ok)
	assert.Equal(t, content, stored)
	assert.Equal(t, []int64{4, 4, 3}, f.client.PartSizes())

	future, err = env.ExecuteActivity(f.acts.GetActivity, GetActivityInput{TaskID: 1, Filename: "report.txt"})
	require.NoError(t, err)

	var got GetActivityOutput
	require.NoError(t, future.Get(&got))
	assert.Equal(t, f.acts.Config.TempDir, filepath.Dir(got.FilePath))
	assert.Equal(t, int64(len(content)), got.Size)
	assert.Equal(t, put.Checksum, got.Checksum)

	downloaded, err := os.ReadFile(got.FilePath)
	require.NoError(t, err)
	assert.Equal(t, content, downloaded)
}

func TestPutActivity_Filename(t *testing.T) {
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestActivityEnvironment()
	f := newFixture(t)
	env.RegisterActivity(f.acts)

	source := filepath.Join(t.TempDir(), "tmp-123")
	require.NoError(t, os.WriteFile(source, nil, 0o600))

	_, err := env.ExecuteActivity(f.acts.PutActivity, PutActivityInput{TaskID: 1, FilePath: source, Filename: "empty.txt"})
	require.NoError(t, err)

	stored, ok := f.client.Object("photos", "nightly/empty.txt")
	require.True(t, ok)
	assert.Empty(t, stored)
}

func TestPutActivity_MissingFile(t *testing.T) {
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestActivityEnvironment()
	f := newFixture(t)
	env.RegisterActivity(f.acts)

	_, err := env.ExecuteActivity(f.acts.PutActivity, PutActivityInput{TaskID: 1, FilePath: "/nonexistent/file"})
	assert.ErrorContains(t, err, "failed to open file")
	assert.Empty(t, f.client.Calls())
}

func TestGetActivity_MissingObject(t *testing.T) {
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestActivityEnvironment()
	f := newFixture(t)
	env.RegisterActivity(f.acts)

	_, err := env.ExecuteActivity(f.acts.GetActivity, GetActivityInput{TaskID: 1, Filename: "missing.txt"})
	require.Error(t, err)

	entries, err := os.ReadDir(f.acts.Config.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
