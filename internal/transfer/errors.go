package transfer

import "errors"

var (
	// ErrChunkUpload wraps failures while opening, uploading or completing a multipart upload
	ErrChunkUpload = errors.New("chunk upload failed")
	// ErrObjectFetch wraps failures while requesting or reading an object
	ErrObjectFetch = errors.New("object fetch failed")
	// ErrTooManyParts is returned when an upload would need more than MaxParts parts
	ErrTooManyParts = errors.New("object exceeds multipart part limit")
)
