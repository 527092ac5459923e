package backup

import (
	"cloudsync/internal/job"
	"cloudsync/internal/task"
	"context"
	"io"
	"time"
)

// Bucket is a bucket visible to a credential
type Bucket struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creation_date"`
}

// Provider implements backup operations for one cloud backend
type Provider interface {
	// Sync mirrors t.Path to the task's bucket, reporting progress on j
	Sync(ctx context.Context, j *job.Job, t *task.Task, cred *task.Credential) error
	// Put uploads r as filename under the task's folder. size is used for
	// progress only and may be <= 0 when unknown.
	Put(ctx context.Context, j *job.Job, t *task.Task, cred *task.Credential, filename string, r io.Reader, size int64) error
	// Get downloads filename from the task's folder into w
	Get(ctx context.Context, j *job.Job, t *task.Task, cred *task.Credential, filename string, w io.Writer) (int64, error)
	Buckets(ctx context.Context, cred *task.Credential) ([]Bucket, error)
	BucketLocation(ctx context.Context, cred *task.Credential, bucket string) (string, error)
}

// Providers holds one implementation per supported provider tag
type Providers struct {
	S3 Provider
}
