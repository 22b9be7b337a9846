package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/goldline/production-tracker/internal/api/handler"
	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

const testSecret = "router-test-secret"

type fakeJobs struct{ ports.JobService }

func (fakeJobs) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return nil, domain.ErrJobNotFound
}

func (fakeJobs) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
	return &ports.JobUpdateResult{Job: &domain.Job{ID: id, CurrentStage: domain.DefaultStage, History: []domain.JobLog{}}}, nil
}

type fakeUsers struct{ ports.UserService }

func (fakeUsers) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return &domain.User{ID: "u1", Name: input.Name, Role: domain.RoleWorker}, nil
}

func (fakeUsers) Seed(ctx context.Context, users []ports.CreateUserInput) (int, error) {
	return len(users), nil
}

type fakeDailyLogs struct{ ports.DailyLogService }

func (fakeDailyLogs) ListDailyLogs(ctx context.Context, filter ports.DailyLogFilter) ([]*domain.DailyLog, error) {
	return []*domain.DailyLog{{ID: "d1", WorkerName: filter.WorkerName, Type: domain.DailyLogStart}}, nil
}

func newTestRouter(t *testing.T, jwtSecret string) *echo.Echo {
	t.Helper()
	return NewRouter(Services{
		Jobs:      fakeJobs{},
		Users:     fakeUsers{},
		DailyLogs: fakeDailyLogs{},
	}, Options{
		JWTSecret:         jwtSecret,
		PinLoginPerMinute: 2,
		ReadinessChecks: map[string]handler.DependencyCheck{
			"mongo": func(context.Context) error { return nil },
		},
		Registry: prometheus.NewRegistry(),
		Logger:   zerolog.Nop(),
	})
}

func do(e *echo.Echo, method, target, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u0",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestRouter_Probes(t *testing.T) {
	e := newTestRouter(t, "")

	if rec := do(e, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
}

func TestRouter_DomainErrorsGoThroughErrorHandler(t *testing.T) {
	e := newTestRouter(t, "")

	rec := do(e, http.MethodGet, "/api/jobs/NOPE", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "job not found") {
		t.Fatalf("expected 404 job not found, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPut, "/api/jobs/J", `{"currentStage":"QC","notes":"x"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "validation failed") {
		t.Fatalf("expected 400 validation failed, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(e, http.MethodPut, "/api/jobs/J", `{"currentStage":"QC"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_DailyLogAlias(t *testing.T) {
	e := newTestRouter(t, "")

	for _, path := range []string{"/api/daily-logs?workerName=Ana", "/api/logs?workerName=Ana"} {
		rec := do(e, http.MethodGet, path, "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"workerName":"Ana"`) {
			t.Fatalf("%s: unexpected response %d %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_UserAdministrationOpenWithoutSecret(t *testing.T) {
	e := newTestRouter(t, "")

	if rec := do(e, http.MethodPost, "/api/users", `{"name":"Ana"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UserAdministrationRequiresAdmin(t *testing.T) {
	e := newTestRouter(t, testSecret)

	if rec := do(e, http.MethodPost, "/api/users", `{"name":"Ana"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}

	worker := "Bearer " + signToken(t, domain.RoleWorker)
	if rec := do(e, http.MethodPost, "/api/users", `{"name":"Ana"}`, echo.HeaderAuthorization, worker); rec.Code != http.StatusForbidden {
		t.Fatalf("worker token: expected 403, got %d", rec.Code)
	}

	admin := "Bearer " + signToken(t, domain.RoleAdmin)
	if rec := do(e, http.MethodPost, "/api/users", `{"name":"Ana"}`, echo.HeaderAuthorization, admin); rec.Code != http.StatusCreated {
		t.Fatalf("admin token: expected 201, got %d %s", rec.Code, rec.Body.String())
	}

	// Seeding stays reachable on a fresh install.
	if rec := do(e, http.MethodPost, "/api/init", `{"users":[{"name":"Admin"}]}`); rec.Code != http.StatusOK {
		t.Fatalf("init: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	e := newTestRouter(t, "")

	if rec := do(e, http.MethodGet, "/api/nothing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
