package ports

import (
	"context"
	"io"
)

// UploadInput is a single file received from a client.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UploadService stores proof photos and design images.
type UploadService interface {
	Upload(ctx context.Context, input UploadInput) (string, error)
	Open(ctx context.Context, name string) (*Blob, error)
}
