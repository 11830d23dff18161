package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no blob exists for the key.
// It is distinct from other I/O failures so callers can self-heal
// dangling metadata instead of reporting a storage error.
var ErrNotFound = errors.New("blob not found")

// PutResult describes one persisted blob payload.
type PutResult struct {
	Key       string
	SizeBytes int64
}

// BlobStore is the byte-storage abstraction used by the upload and
// deletion services. Keys are namespaced per owner.
type BlobStore interface {
	Put(ctx context.Context, ownerID string, r io.Reader, suggestedName string) (PutResult, error)
	Exists(ctx context.Context, key string) (bool, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
