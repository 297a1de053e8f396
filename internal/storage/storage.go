// Package storage wraps the object-storage collaborator used for audit
// copies of run output and synthesized audio artifacts.
package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// PutOptions control how an object is written.
type PutOptions struct {
	ContentType string
	Public      bool
}

// Uploader is the object-storage collaborator interface.
type Uploader interface {
	Put(ctx context.Context, path string, data []byte, opts PutOptions) error
}

// GCS implements Uploader on a Google Cloud Storage bucket.
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS creates an Uploader writing into the named bucket.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket not configured")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &GCS{client: client, bucket: bucket}, nil
}

// Put writes data to path in the bucket.
func (g *GCS) Put(ctx context.Context, path string, data []byte, opts PutOptions) error {
	w := g.client.Bucket(g.bucket).Object(path).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if opts.Public {
		w.PredefinedACL = "publicRead"
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
