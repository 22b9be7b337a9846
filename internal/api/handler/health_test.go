package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/health", "")

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	e := newTestEcho()
	h := NewReadinessHandler(map[string]DependencyCheck{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return nil },
	})

	c, rec := newJSONContext(e, http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	deps, _ := resp["dependencies"].(map[string]any)
	if resp["status"] != "ok" || len(deps) != 2 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	e := newTestEcho()
	h := NewReadinessHandler(map[string]DependencyCheck{
		"mongo":   func(context.Context) error { return nil },
		"storage": func(context.Context) error { return errors.New("circuit open") },
	})

	c, rec := newJSONContext(e, http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["status"] != "degraded" {
		t.Fatalf("unexpected status %v", resp["status"])
	}
	deps := resp["dependencies"].(map[string]any)
	storage := deps["storage"].(map[string]any)
	if storage["status"] != "unhealthy" || storage["error"] != "circuit open" {
		t.Fatalf("unexpected storage status: %+v", storage)
	}
	if mongo := deps["mongo"].(map[string]any); mongo["status"] != "ok" {
		t.Fatalf("unexpected mongo status: %+v", mongo)
	}
}

func TestReadinessHandler_NoChecks(t *testing.T) {
	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/health/ready", "")

	if err := NewReadinessHandler(nil).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
