package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ProgressFunc is called after every uploaded part or written chunk with the
// running totals
type ProgressFunc func(chunks int, bytes int64)

// Engine performs chunked object transfers against a single client
type Engine struct {
	client    Client
	chunkSize int
	progress  ProgressFunc
	logger    zerolog.Logger
}

type Option func(*Engine)

// WithChunkSize overrides ChunkSize. Only tests should need this.
func WithChunkSize(n int) Option {
	return func(e *Engine) { e.chunkSize = n }
}

func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func NewEngine(client Client, opts ...Option) *Engine {
	e := &Engine{
		client:    client,
		chunkSize: ChunkSize,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSize is the largest object Put can store with the configured chunk size
func (e *Engine) MaxSize() int64 {
	return int64(e.chunkSize) * MaxParts
}

// CheckSize fails when an object of size bytes cannot fit in MaxParts parts.
// Unknown sizes (<= 0) pass.
func (e *Engine) CheckSize(size int64) error {
	if limit := e.MaxSize(); size > limit {
		return fmt.Errorf("%w: %d bytes, at most %d with %d byte chunks", ErrTooManyParts, size, limit, e.chunkSize)
	}
	return nil
}

// Put streams r to bucket/key as a multipart upload. Parts are numbered from 1
// without gaps and completed in ascending order. On failure the upload is
// aborted so no orphaned parts remain.
func (e *Engine) Put(ctx context.Context, bucket, key string, r io.Reader) error {
	mp, err := e.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: create multipart upload for %s: %w", ErrChunkUpload, key, err)
	}
	uploadID := aws.ToString(mp.UploadId)

	completed := false
	defer func() {
		if completed {
			return
		}
		e.abort(ctx, bucket, key, uploadID)
	}()

	var (
		parts []types.CompletedPart
		total int64
		buf   = make([]byte, e.chunkSize)
	)
	for partNumber := int32(1); ; partNumber++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrChunkUpload, key, err)
		}
		n, readErr := readChunk(r, buf)
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read source: %w", readErr)
		}
		if partNumber > MaxParts {
			return fmt.Errorf("%w: %s has more than %d parts", ErrTooManyParts, key, MaxParts)
		}

		resp, err := e.client.UploadPart(ctx, &s3.UploadPartInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			PartNumber:    aws.Int32(partNumber),
			UploadId:      aws.String(uploadID),
			ContentLength: aws.Int64(int64(n)),
			Body:          bytes.NewReader(buf[:n]),
		})
		if err != nil {
			return fmt.Errorf("%w: part %d of %s: %w", ErrChunkUpload, partNumber, key, err)
		}

		parts = append(parts, types.CompletedPart{
			ETag:       resp.ETag,
			PartNumber: aws.Int32(partNumber),
		})
		total += int64(n)
		e.logger.Debug().Str("key", key).Int32("part", partNumber).Int("size", n).Msg("part uploaded")
		if e.progress != nil {
			e.progress(len(parts), total)
		}
	}

	if len(parts) == 0 {
		// S3 refuses to complete an upload without parts; store the empty object directly
		e.abort(ctx, bucket, key, uploadID)
		completed = true
		if _, err := e.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			ContentLength: aws.Int64(0),
			Body:          bytes.NewReader(nil),
		}); err != nil {
			return fmt.Errorf("%w: put empty object %s: %w", ErrChunkUpload, key, err)
		}
		return nil
	}

	if _, err := e.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: parts},
	}); err != nil {
		return fmt.Errorf("%w: complete multipart upload for %s: %w", ErrChunkUpload, key, err)
	}
	completed = true

	e.logger.Info().Str("bucket", bucket).Str("key", key).Int("parts", len(parts)).Int64("bytes", total).Msg("object uploaded")
	return nil
}

func (e *Engine) abort(ctx context.Context, bucket, key, uploadID string) {
	// the caller's context may already be cancelled
	_, err := e.client.AbortMultipartUpload(context.WithoutCancel(ctx), &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("key", key).Str("upload_id", uploadID).Msg("failed to abort multipart upload")
	}
}

// Get writes the object at bucket/key to w, reading the body one chunk at a time.
// It returns the number of bytes written.
func (e *Engine) Get(ctx context.Context, bucket, key string, w io.Writer) (int64, error) {
	obj, err := e.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: get %s: %w", ErrObjectFetch, key, err)
	}
	defer obj.Body.Close()

	var (
		total  int64
		chunks int
		buf    = make([]byte, e.chunkSize)
	)
	for {
		n, readErr := readChunk(obj.Body, buf)
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return total, fmt.Errorf("%w: read %s: %w", ErrObjectFetch, key, readErr)
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return total, fmt.Errorf("failed to write destination: %w", err)
		}
		total += int64(n)
		chunks++
		if e.progress != nil {
			e.progress(chunks, total)
		}
	}

	e.logger.Info().Str("bucket", bucket).Str("key", key).Int64("bytes", total).Msg("object downloaded")
	return total, nil
}
