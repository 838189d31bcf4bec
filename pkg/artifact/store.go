// Package artifact provides immutable blob storage for calculation
// payloads, customer images and model weights using S3-compatible
// storage.
package artifact

import (
	"context"
	"io"
	"time"
)

// Artifact describes a stored blob.
type Artifact struct {
	Key          string    `json:"key"`           // object key (e.g. "calculations/calc-abc.json")
	Bucket       string    `json:"bucket"`        // bucket name
	Size         int64     `json:"size"`          // size in bytes
	ContentType  string    `json:"content_type"`  // MIME type
	LastModified time.Time `json:"last_modified"` // last modification time
}

// Store defines the interface for artifact storage operations.
// A write either fully succeeds or returns an error; partial writes are
// never exposed. No retries happen at this layer.
type Store interface {
	// Upload writes a payload under the given key. size may be -1 when
	// unknown (streaming upload).
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*Artifact, error)

	// Download retrieves an artifact by key. Returns ErrNotFound if the
	// key does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// PresignedGetURL generates a time-limited download URL for a key.
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// List lists all artifacts under the given prefix.
	List(ctx context.Context, prefix string) ([]*Artifact, error)

	// CheckBucket verifies the bucket is reachable without modifying it.
	// Returns ErrBucketMissing if the bucket does not exist.
	CheckBucket(ctx context.Context) error

	// EnsureBucket ensures the bucket exists, creating it if necessary.
	EnsureBucket(ctx context.Context) error
}
