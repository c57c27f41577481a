// Package storage provides object storage implementations for product
// attachment uploads.
package storage

import "context"

// AttachmentStore stores product attachment files and serves them back
// over a public URL.
type AttachmentStore interface {
	// Upload stores the file under the given key and returns its
	// public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes a previously uploaded file.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a file is present under the key.
	Exists(ctx context.Context, key string) (bool, error)
}
