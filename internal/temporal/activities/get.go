package activities

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
)

type GetActivityInput struct {
	TaskID   int64  `json:"task_id"`
	Filename string `json:"filename"`
}

type GetActivityOutput struct {
	FilePath string `json:"file_path"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// GetActivity downloads an object of the task's bucket folder into the temp dir
func (a *Activities) GetActivity(ctx context.Context, input GetActivityInput) (*GetActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("GetActivity called", "taskId", input.TaskID, "filename", input.Filename)

	if err := os.MkdirAll(a.Config.TempDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	tempFile := filepath.Join(a.Config.TempDir, fmt.Sprintf("%s-%s", uuid.NewString(), filepath.Base(input.Filename)))
	file, err := os.Create(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	multiWriter := io.MultiWriter(file, hash)

	heartbeat := startHeartbeat(ctx)
	defer heartbeat.Stop()
	size, err := a.Backup.Get(ctx, input.TaskID, input.Filename, multiWriter, heartbeat)
	if err != nil {
		file.Close()
		os.Remove(tempFile)
		logger.Error("Download failed", "taskId", input.TaskID, "filename", input.Filename, "error", err)
		return nil, nonRetryable(err)
	}

	result := &GetActivityOutput{
		FilePath: tempFile,
		Size:     size,
		Checksum: fmt.Sprintf("%x", hash.Sum(nil)),
	}

	logger.Info("Download completed", "filePath", result.FilePath, "size", result.Size)
	return result, nil
}
