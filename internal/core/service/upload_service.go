package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

const defaultMaxUploadBytes = 10 << 20

// UploadService names, sniffs and stores uploaded files.
type UploadService struct {
	store    ports.BlobStore
	maxBytes int64
	logger   zerolog.Logger
}

func NewUploadService(store ports.BlobStore, maxBytes int64, logger zerolog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &UploadService{store: store, maxBytes: maxBytes, logger: logger}
}

// Upload stores the file under a fresh collision-resistant name that keeps
// the original extension, and returns its public URL.
func (s *UploadService) Upload(ctx context.Context, input ports.UploadInput) (string, error) {
	if input.Body == nil {
		return "", domain.Invalidf("file is required")
	}
	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", domain.Invalidf("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return "", domain.Invalidf("file exceeds %d bytes", s.maxBytes)
	}

	name := uuid.NewString() + extensionOf(input.Filename)
	contentType := input.ContentType
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = mimetype.Detect(data).String()
	}

	url, err := s.store.Put(ctx, name, contentType, bytes.NewReader(data))
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to store upload")
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	s.logger.Info().Str("name", name).Str("content_type", contentType).Int("bytes", len(data)).Msg("file uploaded")
	return url, nil
}

// Open returns a stored file for serving. Names that are not plain file names
// are reported as missing.
func (s *UploadService) Open(ctx context.Context, name string) (*ports.Blob, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil, domain.ErrBlobNotFound
	}
	blob, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return blob, nil
}

// extensionOf returns the extension of a client-supplied file name, or ""
// when it is not a plain extension.
func extensionOf(filename string) string {
	ext := filepath.Ext(path.Base(filename))
	if len(ext) > 16 || strings.ContainsAny(ext, "\\/ \x00") {
		return ""
	}
	return ext
}
