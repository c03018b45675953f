// Package storage persists binary attachment content outside the message
// log, addressed by generated keys.
package storage

import (
	"context"
	"io"
)

// Store is the interface for attachment blob storage. Blobs are written
// once and retained indefinitely.
type Store interface {
	// Write stores content under the given key.
	Write(ctx context.Context, key string, r io.Reader) error

	// Read retrieves content for the given key. The caller is responsible
	// for closing the returned ReadCloser.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if content with the given key exists.
	Exists(ctx context.Context, key string) (bool, error)
}
