package activities

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.temporal.io/sdk/activity"
)

type PutActivityInput struct {
	TaskID   int64  `json:"task_id"`
	FilePath string `json:"file_path"`
	// Filename defaults to the base name of FilePath
	Filename string `json:"filename,omitempty"`
}

type PutActivityOutput struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// PutActivity uploads a local file into the task's bucket folder
func (a *Activities) PutActivity(ctx context.Context, input PutActivityInput) (*PutActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("PutActivity called", "taskId", input.TaskID, "filePath", input.FilePath)

	filename := input.Filename
	if filename == "" {
		filename = filepath.Base(input.FilePath)
	}

	file, err := os.Open(input.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hash := sha256.New()
	source := io.TeeReader(file, hash)

	heartbeat := startHeartbeat(ctx)
	defer heartbeat.Stop()
	if err := a.Backup.Put(ctx, input.TaskID, filename, source, fi.Size(), heartbeat); err != nil {
		logger.Error("Upload failed", "taskId", input.TaskID, "filename", filename, "error", err)
		return nil, nonRetryable(err)
	}

	result := &PutActivityOutput{
		Filename: filename,
		Size:     fi.Size(),
		Checksum: fmt.Sprintf("%x", hash.Sum(nil)),
	}

	logger.Info("Upload completed", "filename", result.Filename, "size", result.Size, "checksum", result.Checksum)
	return result, nil
}
