package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

const (
	defaultBucket  = "uploads"
	gridfsDeadline = 30 * time.Second
)

// GridFSStore keeps uploads in a MongoDB GridFS bucket, keyed by file name.
type GridFSStore struct {
	db      *mongo.Database
	bucket  string
	baseURL string
}

func NewGridFSStore(db *mongo.Database, bucket, baseURL string) *GridFSStore {
	if bucket == "" {
		bucket = defaultBucket
	}
	return &GridFSStore{db: db, bucket: bucket, baseURL: baseURL}
}

// open returns a bucket whose deadlines follow ctx. Buckets are cheap and
// carry deadline state, so each call gets its own.
func (s *GridFSStore) open(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(gridfsDeadline)
	}
	if err := b.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := b.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *GridFSStore) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	b, err := s.open(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: gridfs bucket: %v", domain.ErrStorage, err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	if _, err := b.UploadFromStream(name, body, opts); err != nil {
		return "", fmt.Errorf("%w: gridfs upload %s: %v", domain.ErrStorage, name, err)
	}
	return PublicURL(s.baseURL, name), nil
}

func (s *GridFSStore) Open(ctx context.Context, name string) (*ports.Blob, error) {
	b, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: gridfs bucket: %v", domain.ErrStorage, err)
	}

	stream, err := b.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("%w: gridfs open %s: %v", domain.ErrStorage, name, err)
	}

	file := stream.GetFile()
	contentType := "application/octet-stream"
	if file.Metadata != nil {
		if v, err := file.Metadata.LookupErr("contentType"); err == nil {
			if ct, ok := v.StringValueOK(); ok && ct != "" {
				contentType = ct
			}
		}
	}

	return &ports.Blob{Body: stream, ContentType: contentType, Size: file.Length}, nil
}
