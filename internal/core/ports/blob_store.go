package ports

import (
	"context"
	"io"
)

// Blob is an opened stored file. Callers must close Body.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// BlobStore persists uploaded files and hands back the URL they are served at.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	// Open returns domain.ErrBlobNotFound when nothing is stored under name.
	Open(ctx context.Context, name string) (*Blob, error)
}
