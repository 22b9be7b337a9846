package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/goldline/production-tracker/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", fmt.Errorf("update job: %w", domain.Invalidf("stageName is required")), http.StatusBadRequest, "validation failed: stageName is required"},
		{"job not found", fmt.Errorf("get job: %w", domain.ErrJobNotFound), http.StatusNotFound, "job not found"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"daily log not found", domain.ErrDailyLogNotFound, http.StatusNotFound, "daily log not found"},
		{"blob not found", domain.ErrBlobNotFound, http.StatusNotFound, "file not found"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "username already taken"},
		{"user id taken", fmt.Errorf("create user: %w", domain.ErrUserIDTaken), http.StatusConflict, "user id already taken"},
		{"duplicate job", domain.ErrDuplicateJob, http.StatusConflict, "job already exists"},
		{"history conflict", domain.ErrHistoryConflict, http.StatusConflict, "job history changed concurrently, retry the update"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"storage", fmt.Errorf("put: %w", domain.ErrStorage), http.StatusInternalServerError, "storage failure"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests, "rate limit exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/jobs/X", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.msg {
				t.Fatalf("expected %q, got %q", tt.msg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_LogsUnexpectedErrors(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.New(&buf))(errors.New("disk full"), c)

	if !bytes.Contains(buf.Bytes(), []byte("disk full")) {
		t.Fatalf("expected cause in log, got %q", buf.String())
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/api/uploads/x.png", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrBlobNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}
