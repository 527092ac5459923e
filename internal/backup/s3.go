package backup

import (
	"cloudsync/internal/job"
	"cloudsync/internal/rclone"
	"cloudsync/internal/task"
	"cloudsync/internal/transfer"
	pkgs3 "cloudsync/pkg/s3"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3API is the object-store capability the S3 provider needs
type S3API interface {
	transfer.Client
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// ClientFactory builds a client for a credential in region. An empty region
// falls back to the SDK default.
type ClientFactory func(ctx context.Context, cred *task.Credential, region string) (S3API, error)

// DefaultClientFactory builds aws-sdk-go-v2 clients with static credentials
func DefaultClientFactory(ctx context.Context, cred *task.Credential, region string) (S3API, error) {
	client, err := pkgs3.NewClient(ctx, pkgs3.Options{
		Region:          region,
		Endpoint:        cred.Attributes.Endpoint,
		AccessKeyID:     cred.Attributes.AccessKey,
		SecretAccessKey: cred.Attributes.SecretKey,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Syncer mirrors a directory tree to a bucket
type Syncer interface {
	Sync(ctx context.Context, req rclone.SyncRequest, report rclone.ReportFunc) error
}

// S3Provider serves AMAZON credentials: tree sync through rclone, object
// put/get through the chunked transfer engine.
type S3Provider struct {
	syncer     Syncer
	newClient  ClientFactory
	engineOpts []transfer.Option
	logger     zerolog.Logger
}

type S3Option func(*S3Provider)

func WithClientFactory(f ClientFactory) S3Option {
	return func(p *S3Provider) { p.newClient = f }
}

// WithEngineOptions passes options to every transfer engine the provider creates
func WithEngineOptions(opts ...transfer.Option) S3Option {
	return func(p *S3Provider) { p.engineOpts = append(p.engineOpts, opts...) }
}

func WithS3Logger(logger zerolog.Logger) S3Option {
	return func(p *S3Provider) { p.logger = logger }
}

func NewS3Provider(syncer Syncer, opts ...S3Option) *S3Provider {
	p := &S3Provider{
		syncer:    syncer,
		newClient: DefaultClientFactory,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *S3Provider) Sync(ctx context.Context, j *job.Job, t *task.Task, cred *task.Credential) error {
	if err := cred.RequireKeys(); err != nil {
		return err
	}

	req := rclone.SyncRequest{
		Source: t.Path,
		Bucket: t.Attributes.Bucket,
		Folder: t.Attributes.Folder,
		Remote: rclone.Remote{
			AccessKeyID:     cred.Attributes.AccessKey,
			SecretAccessKey: cred.Attributes.SecretKey,
			Region:          t.Attributes.Region,
			Endpoint:        cred.Attributes.Endpoint,
		},
	}
	return p.syncer.Sync(ctx, req, j.SetProgress)
}

func (p *S3Provider) engine(ctx context.Context, j *job.Job, t *task.Task, cred *task.Credential, size int64) (*transfer.Engine, error) {
	if err := cred.RequireKeys(); err != nil {
		return nil, err
	}
	client, err := p.newClient(ctx, cred, t.Attributes.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	opts := []transfer.Option{transfer.WithLogger(p.logger)}
	opts = append(opts, p.engineOpts...)
	opts = append(opts, transfer.WithProgress(progressReporter(j, size)))
	return transfer.NewEngine(client, opts...), nil
}

func (p *S3Provider) Put(ctx context.Context, j *job.Job, t *task.Task, cred *task.Credential, filename string, r io.Reader, size int64) error {
	e, err := p.engine(ctx, j, t, cred, size)
	if err != nil {
		return err
	}
	if err := e.CheckSize(size); err != nil {
		return err
	}
	return e.Put(ctx, t.Attributes.Bucket, transfer.Key(t.Attributes.Folder, filename), r)
}

func (p *S3Provider) Get(ctx context.Context, j *job.Job, t *task.Task, cred *task.Credential, filename string, w io.Writer) (int64, error) {
	e, err := p.engine(ctx, j, t, cred, 0)
	if err != nil {
		return 0, err
	}
	return e.Get(ctx, t.Attributes.Bucket, transfer.Key(t.Attributes.Folder, filename), w)
}

func (p *S3Provider) Buckets(ctx context.Context, cred *task.Credential) ([]Bucket, error) {
	if err := cred.RequireKeys(); err != nil {
		return nil, err
	}
	client, err := p.newClient(ctx, cred, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, Bucket{
			Name:         aws.ToString(b.Name),
			CreationDate: aws.ToTime(b.CreationDate),
		})
	}
	return buckets, nil
}

func (p *S3Provider) BucketLocation(ctx context.Context, cred *task.Credential, bucket string) (string, error) {
	if err := cred.RequireKeys(); err != nil {
		return "", err
	}
	client, err := p.newClient(ctx, cred, "")
	if err != nil {
		return "", fmt.Errorf("failed to create s3 client: %w", err)
	}

	out, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", fmt.Errorf("failed to get location of bucket %s: %w", bucket, err)
	}
	return string(out.LocationConstraint), nil
}

// progressReporter turns engine totals into job progress. size <= 0 leaves the
// percent unset.
func progressReporter(j *job.Job, size int64) transfer.ProgressFunc {
	return func(chunks int, bytes int64) {
		var percent *float64
		if size > 0 {
			v := float64(bytes) * 100 / float64(size)
			if v > 100 {
				v = 100
			}
			percent = &v
		}
		j.SetProgress(percent, fmt.Sprintf("%d chunks, %d bytes", chunks, bytes))
	}
}
