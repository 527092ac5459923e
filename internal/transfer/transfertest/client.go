// Package transfertest provides an in-memory S3 stand-in for transfer tests.
package transfertest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client implements the multipart, object and bucket calls used by the agent
// on top of maps. It enforces the same part-list rules as S3: parts must be
// listed in ascending order, start at 1, have no gaps, and carry the ETag
// returned at upload time.
type Client struct {
	mu sync.Mutex

	objects   map[string][]byte
	uploads   map[string]*upload
	nextID    int
	calls     []string
	partSizes []int64
	aborted   []string

	// FailPart makes UploadPart fail for that part number
	FailPart int32
	// FailGet makes GetObject fail
	FailGet error
	// FailReadAfter makes object bodies fail after that many bytes (0 disables)
	FailReadAfter int

	Buckets   []types.Bucket
	Locations map[string]types.BucketLocationConstraint
}

type upload struct {
	bucket string
	key    string
	parts  map[int32][]byte
	etags  map[int32]string
}

func NewClient() *Client {
	return &Client{
		objects:   make(map[string][]byte),
		uploads:   make(map[string]*upload),
		Locations: make(map[string]types.BucketLocationConstraint),
	}
}

func objectKey(bucket, key string) string { return bucket + "/" + key }

func (c *Client) record(call string) {
	c.calls = append(c.calls, call)
}

// Calls returns the API calls issued so far, in order
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// PartSizes returns the size of every uploaded part, in upload order
func (c *Client) PartSizes() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.partSizes...)
}

// Aborted returns the upload ids that were aborted
func (c *Client) Aborted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.aborted...)
}

// PendingUploads returns the number of uploads neither completed nor aborted
func (c *Client) PendingUploads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.uploads)
}

// Object returns the stored content of bucket/key
func (c *Client) Object(bucket, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.objects[objectKey(bucket, key)]
	return data, ok
}

// SetObject stores content at bucket/key
func (c *Client) SetObject(bucket, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[objectKey(bucket, key)] = append([]byte(nil), data...)
}

func (c *Client) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CreateMultipartUpload")

	c.nextID++
	id := fmt.Sprintf("upload-%d", c.nextID)
	c.uploads[id] = &upload{
		bucket: aws.ToString(params.Bucket),
		key:    aws.ToString(params.Key),
		parts:  make(map[int32][]byte),
		etags:  make(map[int32]string),
	}
	return &s3.CreateMultipartUploadOutput{
		Bucket:   params.Bucket,
		Key:      params.Key,
		UploadId: aws.String(id),
	}, nil
}

func (c *Client) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("UploadPart")

	u, ok := c.uploads[aws.ToString(params.UploadId)]
	if !ok {
		return nil, &types.NoSuchUpload{}
	}
	n := aws.ToInt32(params.PartNumber)
	if c.FailPart != 0 && n == c.FailPart {
		return nil, fmt.Errorf("injected failure for part %d", n)
	}
	if params.ContentLength != nil && *params.ContentLength != int64(len(data)) {
		return nil, fmt.Errorf("content length %d does not match body size %d", *params.ContentLength, len(data))
	}

	etag := fmt.Sprintf("\"etag-%d-%d\"", n, len(data))
	u.parts[n] = data
	u.etags[n] = etag
	c.partSizes = append(c.partSizes, int64(len(data)))
	return &s3.UploadPartOutput{ETag: aws.String(etag)}, nil
}

func (c *Client) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CompleteMultipartUpload")

	id := aws.ToString(params.UploadId)
	u, ok := c.uploads[id]
	if !ok {
		return nil, &types.NoSuchUpload{}
	}
	if params.MultipartUpload == nil || len(params.MultipartUpload.Parts) == 0 {
		return nil, errors.New("MalformedXML: at least one part is required")
	}

	var buf bytes.Buffer
	for i, p := range params.MultipartUpload.Parts {
		want := int32(i + 1)
		if aws.ToInt32(p.PartNumber) != want {
			return nil, fmt.Errorf("InvalidPartOrder: got part %d at position %d", aws.ToInt32(p.PartNumber), i)
		}
		if aws.ToString(p.ETag) != u.etags[want] {
			return nil, fmt.Errorf("InvalidPart: etag mismatch for part %d", want)
		}
		buf.Write(u.parts[want])
	}

	c.objects[objectKey(u.bucket, u.key)] = buf.Bytes()
	delete(c.uploads, id)
	return &s3.CompleteMultipartUploadOutput{Bucket: params.Bucket, Key: params.Key}, nil
}

func (c *Client) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("AbortMultipartUpload")

	id := aws.ToString(params.UploadId)
	if _, ok := c.uploads[id]; !ok {
		return nil, &types.NoSuchUpload{}
	}
	delete(c.uploads, id)
	c.aborted = append(c.aborted, id)
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (c *Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	var data []byte
	if params.Body != nil {
		var err error
		if data, err = io.ReadAll(params.Body); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("PutObject")

	c.objects[objectKey(aws.ToString(params.Bucket), aws.ToString(params.Key))] = data
	return &s3.PutObjectOutput{}, nil
}

func (c *Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetObject")

	if c.FailGet != nil {
		return nil, c.FailGet
	}
	data, ok := c.objects[objectKey(aws.ToString(params.Bucket), aws.ToString(params.Key))]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}

	var body io.Reader = bytes.NewReader(append([]byte(nil), data...))
	if c.FailReadAfter > 0 {
		body = &failingReader{r: body, left: c.FailReadAfter}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(body),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (c *Client) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ListBuckets")

	buckets := append([]types.Bucket(nil), c.Buckets...)
	sort.Slice(buckets, func(i, j int) bool {
		return aws.ToString(buckets[i].Name) < aws.ToString(buckets[j].Name)
	})
	return &s3.ListBucketsOutput{Buckets: buckets}, nil
}

func (c *Client) GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetBucketLocation")

	name := aws.ToString(params.Bucket)
	for _, b := range c.Buckets {
		if aws.ToString(b.Name) == name {
			return &s3.GetBucketLocationOutput{LocationConstraint: c.Locations[name]}, nil
		}
	}
	return nil, &types.NoSuchBucket{}
}

type failingReader struct {
	r    io.Reader
	left int
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.left <= 0 {
		return 0, errors.New("connection reset by peer")
	}
	if len(p) > f.left {
		p = p[:f.left]
	}
	n, err := f.r.Read(p)
	f.left -= n
	return n, err
}
