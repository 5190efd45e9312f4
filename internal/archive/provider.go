// Package archive persists JSON snapshots of extracted jobs so a scrape run
// leaves an auditable record alongside the database rows. The blob provider
// is abstracted so snapshots can land on the local filesystem or in Google
// Cloud Storage.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Provider writes one named blob to backing storage.
type Provider interface {
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider discards every snapshot. Used for dry runs and tests.
type NoOpProvider struct{}

// Save does nothing and always returns nil.
func (NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}

// FileSystemProvider writes snapshots under a root directory.
type FileSystemProvider struct {
	root string
}

// NewFileSystemProvider returns a provider rooted at dir.
func NewFileSystemProvider(root string) (*FileSystemProvider, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", root, err)
	}
	return &FileSystemProvider{root: root}, nil
}

// Save writes the blob to root/objectName, creating parent directories.
func (p *FileSystemProvider) Save(ctx context.Context, objectName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	target := filepath.Join(p.root, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("creating archive dir for %s: %w", target, err)
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("writing archive %s: %w", target, err)
	}
	return nil
}
