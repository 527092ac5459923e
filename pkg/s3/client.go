package s3

import (
  "context"
  "fmt"

  "github.com/aws/aws-sdk-go-v2/aws"
  "github.com/aws/aws-sdk-go-v2/config"
  "github.com/aws/aws-sdk-go-v2/credentials"
  "github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when a task does not name a region. The SDK rejects an
// empty region, unlike rclone which substitutes its own default.
const DefaultRegion = "us-east-1"

// Options describes how to reach a bucket with a static key pair
type Options struct {
  Region          string
  Endpoint        string
  AccessKeyID     string
  SecretAccessKey string
}

// NewClient creates a new S3 client with the provided configuration
func NewClient(ctx context.Context, opts Options) (*s3.Client, error) {
  region := opts.Region
  if region == "" {
    region = DefaultRegion
  }

  // 1. Load the default config with static credentials only
  cfg, err := config.LoadDefaultConfig(
    ctx,
    config.WithRegion(region),
    config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
  )
  if err != nil {
    return nil, fmt.Errorf("failed to load AWS config: %w", err)
  }

  // 2. Pass the endpoint configuration to the client constructor
  return s3.NewFromConfig(cfg, func(o *s3.Options) {
    if opts.Endpoint != "" {
      o.BaseEndpoint = aws.String(opts.Endpoint)
      // 3rd party S3 providers (MinIO, etc.) expect path-style addressing
      o.UsePathStyle = true
    }
  }), nil
}
