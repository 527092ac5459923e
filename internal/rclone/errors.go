package rclone

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyncFailed matches every non-zero rclone exit
var ErrSyncFailed = errors.New("rclone sync failed")

// SyncFailedError carries the exit code and the captured stderr of a failed run
type SyncFailedError struct {
	ExitCode int
	Stderr   string
}

func (e *SyncFailedError) Error() string {
	return fmt.Sprintf("rclone failed (exit %d): %s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

func (e *SyncFailedError) Is(target error) bool {
	return target == ErrSyncFailed
}
