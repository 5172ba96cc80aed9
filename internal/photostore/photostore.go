package photostore

import (
	"context"
	"io"
)

// PhotoStore keeps uploaded photo files and hands out permanent public URLs
// for them. The URL, not the storage key, is what goes into a project's
// before-photo collection.
type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
	// URL returns the public URL for storageKey.
	URL(storageKey string) string
	// KeyFromURL reports the storage key behind a URL produced by URL, or
	// false if the URL points somewhere else.
	KeyFromURL(url string) (string, bool)
}
