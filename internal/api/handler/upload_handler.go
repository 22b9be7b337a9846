package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/api/metrics"
	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// UploadHandler accepts proof photos and design images and serves them back.
type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /api/upload (multipart field "file").
//
// @Summary      Upload a file
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to store"
// @Success      200   {object}  uploadResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return domain.Invalidf("multipart field \"file\" is required")
	}
	src, err := fh.Open()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return domain.Invalidf("unreadable file")
	}
	defer src.Close()

	url, err := h.service.Upload(c.Request().Context(), ports.UploadInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        src,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.UploadsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.UploadBytes.Observe(float64(fh.Size))
	return c.JSON(http.StatusOK, uploadResponse{URL: url})
}

// Serve handles GET /api/uploads/:name.
//
// @Summary      Download an uploaded file
// @Tags         uploads
// @Produce      octet-stream
// @Param        name  path  string  true  "Stored file name"
// @Success      200
// @Failure      404   {object}  map[string]string
// @Router       /api/uploads/{name} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	blob, err := h.service.Open(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	defer blob.Body.Close()

	header := c.Response().Header()
	if blob.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(blob.Size, 10))
	}
	// Stored names are never reused.
	header.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Stream(http.StatusOK, blob.ContentType, blob.Body)
}
