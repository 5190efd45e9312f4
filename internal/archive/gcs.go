package archive

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSProvider stores snapshots in a Google Cloud Storage bucket.
type GCSProvider struct {
	client *storage.Client
	bucket string
	log    *zap.Logger
}

// NewGCSProvider builds a GCS client and verifies the bucket is reachable,
// so a misconfigured bucket fails at startup rather than mid-scrape.
// Authentication uses Application Default Credentials.
func NewGCSProvider(ctx context.Context, bucketName string, log *zap.Logger) (*GCSProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("closing GCS client after bucket check failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("get GCS bucket %q attributes: %w", bucketName, err)
	}
	return &GCSProvider{client: client, bucket: bucketName, log: log}, nil
}

// Save uploads the blob to the bucket. Close finalizes the upload, so its
// error is the upload error.
func (g *GCSProvider) Save(ctx context.Context, objectName string, data []byte) error {
	wc := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		if closeErr := wc.Close(); closeErr != nil {
			g.log.Warn("closing GCS writer after write failure", zap.Error(closeErr))
		}
		return fmt.Errorf("write GCS object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("finalize GCS object %s: %w", objectName, err)
	}
	return nil
}

// Close releases the underlying GCS client.
func (g *GCSProvider) Close() error {
	return g.client.Close()
}
