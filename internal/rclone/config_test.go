package rclone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "private")

	path, cleanup, err := WriteConfig(dir, Remote{
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "s3cr3t",
		Region:          "",
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, dir, filepath.Dir(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[remote]\n"+
		"type = s3\n"+
		"env_auth = false\n"+
		"access_key_id = AKIAEXAMPLE\n"+
		"secret_access_key = s3cr3t\n"+
		"region = \n", string(content))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteConfig_Endpoint(t *testing.T) {
	path, cleanup, err := WriteConfig(t.TempDir(), Remote{
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
	})
	require.NoError(t, err)
	defer cleanup()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "provider = Other\n")
	assert.Contains(t, string(content), "region = us-east-1\n")
	assert.Contains(t, string(content), "endpoint = http://localhost:9000\n")
}

func TestWriteConfig_RejectsLineBreaks(t *testing.T) {
	dir := t.TempDir()
	_, _, err := WriteConfig(dir, Remote{AccessKeyID: "a\n[evil]", SecretAccessKey: "b"})
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
