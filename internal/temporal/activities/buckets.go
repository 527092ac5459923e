package activities

import (
	"cloudsync/internal/backup"
	"context"

	"go.temporal.io/sdk/activity"
)

type ListBucketsActivityInput struct {
	CredentialID int64 `json:"credential_id"`
}

type ListBucketsActivityOutput struct {
	Buckets []backup.Bucket `json:"buckets"`
}

func (a *Activities) ListBucketsActivity(ctx context.Context, input ListBucketsActivityInput) (*ListBucketsActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("ListBucketsActivity called", "credentialId", input.CredentialID)

	buckets, err := a.Backup.Buckets(ctx, input.CredentialID)
	if err != nil {
		return nil, nonRetryable(err)
	}
	return &ListBucketsActivityOutput{Buckets: buckets}, nil
}

type BucketLocationActivityInput struct {
	CredentialID int64  `json:"credential_id"`
	Bucket       string `json:"bucket"`
}

type BucketLocationActivityOutput struct {
	Location string `json:"location"`
}

func (a *Activities) BucketLocationActivity(ctx context.Context, input BucketLocationActivityInput) (*BucketLocationActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("BucketLocationActivity called", "credentialId", input.CredentialID, "bucket", input.Bucket)

	location, err := a.Backup.BucketLocation(ctx, input.CredentialID, input.Bucket)
	if err != nil {
		return nil, nonRetryable(err)
	}
	return &BucketLocationActivityOutput{Location: location}, nil
}
