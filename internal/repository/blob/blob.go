// Package blob stores whole tabular files as opaque byte blobs.
//
// Every write replaces the blob entirely; there is no incremental append.
package blob

import "context"

// Reader reads the full blob. Implementations return domain.ErrNotFound when it is absent.
type Reader interface {
	Read(ctx context.Context) ([]byte, error)
}

// Writer replaces the full blob.
type Writer interface {
	Write(ctx context.Context, data []byte) error
}

// ReadWriter is a readable and writable blob.
type ReadWriter interface {
	Reader
	Writer
	// Location describes where the blob lives, for logs.
	Location() string
}
