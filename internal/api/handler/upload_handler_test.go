package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

type stubUploadService struct {
	uploadFn func(ctx context.Context, input ports.UploadInput) (string, error)
	openFn   func(ctx context.Context, name string) (*ports.Blob, error)
}

func (s *stubUploadService) Upload(ctx context.Context, input ports.UploadInput) (string, error) {
	return s.uploadFn(ctx, input)
}

func (s *stubUploadService) Open(ctx context.Context, name string) (*ports.Blob, error) {
	return s.openFn(ctx, name)
}

func newMultipartContext(t *testing.T, e *echo.Echo, field, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadHandler_Upload(t *testing.T) {
	e := newTestEcho()
	stub := &stubUploadService{
		uploadFn: func(ctx context.Context, input ports.UploadInput) (string, error) {
			if input.Filename != "ring.png" {
				t.Fatalf("unexpected filename %q", input.Filename)
			}
			data, _ := io.ReadAll(input.Body)
			if string(data) != "fake image" {
				t.Fatalf("unexpected body %q", data)
			}
			return "/api/uploads/0b7c.png", nil
		},
	}
	h := NewUploadHandler(stub)

	c, rec := newMultipartContext(t, e, "file", "ring.png", []byte("fake image"))
	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["url"] != "/api/uploads/0b7c.png" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUploadHandler_Upload_MissingFileField(t *testing.T) {
	e := newTestEcho()
	h := NewUploadHandler(&stubUploadService{})

	c, _ := newMultipartContext(t, e, "photo", "ring.png", []byte("x"))
	requireValidationError(t, h.Upload(c))
}

func TestUploadHandler_Upload_StoreFailure(t *testing.T) {
	e := newTestEcho()
	stub := &stubUploadService{
		uploadFn: func(ctx context.Context, input ports.UploadInput) (string, error) {
			return "", domain.ErrStorage
		},
	}
	h := NewUploadHandler(stub)

	c, _ := newMultipartContext(t, e, "file", "ring.png", []byte("x"))
	if err := h.Upload(c); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestUploadHandler_Serve(t *testing.T) {
	e := newTestEcho()
	stub := &stubUploadService{
		openFn: func(ctx context.Context, name string) (*ports.Blob, error) {
			if name != "0b7c.png" {
				t.Fatalf("unexpected name %q", name)
			}
			return &ports.Blob{
				Body:        io.NopCloser(bytes.NewReader([]byte("png-bytes"))),
				ContentType: "image/png",
				Size:        9,
			}, nil
		},
	}
	h := NewUploadHandler(stub)

	c, rec := newJSONContext(e, http.MethodGet, "/api/uploads/0b7c.png", "", "name", "0b7c.png")
	if err := h.Serve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "image/png" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get(echo.HeaderContentLength); got != "9" {
		t.Fatalf("unexpected content length %q", got)
	}
	if rec.Body.String() != "png-bytes" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestUploadHandler_Serve_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubUploadService{
		openFn: func(ctx context.Context, name string) (*ports.Blob, error) {
			return nil, domain.ErrBlobNotFound
		},
	}
	h := NewUploadHandler(stub)

	c, _ := newJSONContext(e, http.MethodGet, "/api/uploads/none.png", "", "name", "none.png")
	if err := h.Serve(c); !errors.Is(err, domain.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}
