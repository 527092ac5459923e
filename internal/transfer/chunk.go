package transfer

import (
	"errors"
	"io"
	"path"
)

// ChunkSize is the size of every multipart part and read buffer
const ChunkSize = 5 * 1024 * 1024

// MaxParts is the S3 limit on parts in one multipart upload
const MaxParts = 10000

// Key builds the object key for filename under folder. An empty folder puts
// the object at the bucket root.
func Key(folder, filename string) string {
	return path.Join(folder, filename)
}

// readChunk fills buf from r. It returns the number of bytes read and io.EOF
// once the stream is exhausted; a short final chunk is returned without error.
// Chunks are always filled: S3 rejects non-final parts under 5 MiB, and a
// stream of L bytes must map to exactly ceil(L/C) parts.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return n, nil
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	default:
		return n, err
	}
}
