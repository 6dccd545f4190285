// Package filestorage stores graduate documents and certificates and hands
// out time-limited download links for them.
package filestorage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrInvalidPath is returned for object paths that are empty or escape the bucket
	ErrInvalidPath = errors.New("invalid object path")
	// ErrObjectNotFound is returned when the object does not exist
	ErrObjectNotFound = errors.New("object not found")
)

// ObjectStore is the object storage used for documents and certificates.
// Paths are bucket-relative, for example "graduados/12/acta.pdf".
type ObjectStore interface {
	// Upload writes r under path
	Upload(ctx context.Context, path string, r io.Reader, contentType string) error

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// SignedURL returns a download URL valid for ttl
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
