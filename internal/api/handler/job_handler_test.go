package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

type stubJobService struct {
	createFn func(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error)
	appendFn func(ctx context.Context, input ports.AppendLogInput) (*domain.JobLog, error)
	updateFn func(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error)
	getFn    func(ctx context.Context, jobID string) (*domain.Job, error)
	listFn   func(ctx context.Context) ([]*domain.Job, error)
}

func (s *stubJobService) CreateJob(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error) {
	return s.createFn(ctx, input)
}

func (s *stubJobService) AppendLog(ctx context.Context, input ports.AppendLogInput) (*domain.JobLog, error) {
	return s.appendFn(ctx, input)
}

func (s *stubJobService) UpdateJob(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
	return s.updateFn(ctx, jobID, patch)
}

func (s *stubJobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.getFn(ctx, jobID)
}

func (s *stubJobService) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	return s.listFn(ctx)
}

func TestJobHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		createFn: func(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error) {
			if input.Priority != "Urgent" || input.DesignImageURL != "/api/uploads/a.png" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Job{
				ID: "7A8B9C2D", Priority: input.Priority, DesignImageURL: input.DesignImageURL,
				CurrentStage: domain.DefaultStage, History: []domain.JobLog{},
			}, nil
		},
	}
	h := NewJobHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/jobs", `{"priority":"Urgent","designImageUrl":"/api/uploads/a.png"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["id"] != "7A8B9C2D" || resp["currentStage"] != domain.DefaultStage {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if history, ok := resp["history"].([]any); !ok || len(history) != 0 {
		t.Fatalf("expected empty history array, got %v", resp["history"])
	}
}

func TestJobHandler_Create_RequiresPriority(t *testing.T) {
	e := newTestEcho()
	h := NewJobHandler(&stubJobService{})

	c, _ := newJSONContext(e, http.MethodPost, "/api/jobs", `{"designImageUrl":"x"}`)
	requireValidationError(t, h.Create(c))
}

func TestJobHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		getFn: func(ctx context.Context, jobID string) (*domain.Job, error) {
			if jobID != "DEADBEEF" {
				t.Fatalf("unexpected id %q", jobID)
			}
			return nil, domain.ErrJobNotFound
		},
	}
	h := NewJobHandler(stub)

	c, _ := newJSONContext(e, http.MethodGet, "/api/jobs/DEADBEEF", "", "id", "DEADBEEF")
	if err := h.Get(c); err != domain.ErrJobNotFound {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestJobHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		listFn: func(ctx context.Context) ([]*domain.Job, error) {
			return []*domain.Job{{ID: "A"}, {ID: "B"}}, nil
		},
	}
	h := NewJobHandler(stub)

	c, rec := newJSONContext(e, http.MethodGet, "/api/jobs", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJobHandler_AppendLog(t *testing.T) {
	e := newTestEcho()
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	stub := &stubJobService{
		appendFn: func(ctx context.Context, input ports.AppendLogInput) (*domain.JobLog, error) {
			if input.JobID != "7A8B9C2D" || input.LogID != "L1" || input.StageName != "Casting" || input.WorkerName != "Maria" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if !input.Timestamp.Equal(ts) {
				t.Fatalf("unexpected timestamp %v", input.Timestamp)
			}
			return &domain.JobLog{
				ID: input.LogID, JobID: input.JobID, StageName: input.StageName,
				WorkerName: input.WorkerName, Timestamp: input.Timestamp,
			}, nil
		},
	}
	h := NewJobHandler(stub)

	body := `{"id":"L1","stageName":"Casting","workerName":"Maria","timestamp":"2024-03-01T09:30:00Z"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/jobs/7A8B9C2D/log", body, "id", "7A8B9C2D")
	if err := h.AppendLog(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["status"] != "success" {
		t.Fatalf("expected status success, got %v", resp["status"])
	}
	log, ok := resp["log"].(map[string]any)
	if !ok || log["id"] != "L1" || log["jobId"] != "7A8B9C2D" {
		t.Fatalf("unexpected log payload: %+v", resp["log"])
	}
}

func TestJobHandler_AppendLog_EmptyTimestampIsZero(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		appendFn: func(ctx context.Context, input ports.AppendLogInput) (*domain.JobLog, error) {
			if !input.Timestamp.IsZero() {
				t.Fatalf("expected zero timestamp, got %v", input.Timestamp)
			}
			return &domain.JobLog{ID: "gen", JobID: input.JobID, StageName: input.StageName}, nil
		},
	}
	h := NewJobHandler(stub)

	c, _ := newJSONContext(e, http.MethodPost, "/api/jobs/J/log", `{"stageName":"Polish","workerName":"Ana","timestamp":""}`, "id", "J")
	if err := h.AppendLog(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestJobHandler_AppendLog_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewJobHandler(&stubJobService{})

	c, _ := newJSONContext(e, http.MethodPost, "/api/jobs/J/log", `{"stageName":"Polish"}`, "id", "J")
	requireValidationError(t, h.AppendLog(c))
}

func TestJobHandler_Update_MergesHistory(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		updateFn: func(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
			if jobID != "J" {
				t.Fatalf("unexpected id %q", jobID)
			}
			if patch.CurrentStage == nil || *patch.CurrentStage != "Setting" {
				t.Fatalf("unexpected stage %v", patch.CurrentStage)
			}
			if len(patch.History) != 2 || patch.History[0].ID != "L1" || patch.History[1].ID != "L2" {
				t.Fatalf("unexpected history %+v", patch.History)
			}
			if want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC); !patch.History[1].Timestamp.Equal(want) {
				t.Fatalf("offsetless timestamp should parse as UTC, got %v", patch.History[1].Timestamp)
			}
			return &ports.JobUpdateResult{Job: &domain.Job{ID: jobID, CurrentStage: "Setting"}, Appended: 1, Skipped: 1}, nil
		},
	}
	h := NewJobHandler(stub)

	body := `{"currentStage":"Setting","history":[
		{"id":"L1","stageName":"Casting","workerName":"Maria","timestamp":"2024-03-01T09:00:00Z"},
		{"id":"L2","stageName":"Setting","workerName":"Luis","timestamp":"2024-03-01T10:00:00"}
	]}`
	c, rec := newJSONContext(e, http.MethodPut, "/api/jobs/J", body, "id", "J")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["currentStage"] != "Setting" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestJobHandler_Update_StageOnly(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		updateFn: func(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
			if patch.History != nil {
				t.Fatalf("expected no history, got %+v", patch.History)
			}
			return &ports.JobUpdateResult{Job: &domain.Job{ID: jobID, CurrentStage: *patch.CurrentStage}}, nil
		},
	}
	h := NewJobHandler(stub)

	c, _ := newJSONContext(e, http.MethodPut, "/api/jobs/J", `{"currentStage":"QC"}`, "id", "J")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestJobHandler_Update_EmptyHistoryIsKept(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		updateFn: func(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
			if patch.History == nil || len(patch.History) != 0 {
				t.Fatalf("expected empty non-nil history, got %#v", patch.History)
			}
			return &ports.JobUpdateResult{Job: &domain.Job{ID: jobID, CurrentStage: "Casting"}}, nil
		},
	}
	h := NewJobHandler(stub)

	c, _ := newJSONContext(e, http.MethodPut, "/api/jobs/J", `{"currentStage":"QC","history":[]}`, "id", "J")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestJobHandler_Update_RejectsUnknownKeys(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		updateFn: func(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewJobHandler(stub)

	bodies := []string{
		`{"priority":"Low"}`,
		`{"currentStage":"QC","id":"OTHER"}`,
		`{"history":[{"id":"L1","stageName":"Casting","color":"red"}]}`,
		`{"history":[{"id":"L1","timestamp":"yesterday"}]}`,
		``,
		`{"currentStage":"QC"} {}`,
	}
	for _, body := range bodies {
		c, _ := newJSONContext(e, http.MethodPut, "/api/jobs/J", body, "id", "J")
		requireValidationError(t, h.Update(c))
	}
}

func TestJobHandler_Update_Conflict(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		updateFn: func(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
			return nil, domain.ErrHistoryConflict
		},
	}
	h := NewJobHandler(stub)

	c, _ := newJSONContext(e, http.MethodPut, "/api/jobs/J", `{"history":[]}`, "id", "J")
	if err := h.Update(c); err != domain.ErrHistoryConflict {
		t.Fatalf("expected ErrHistoryConflict, got %v", err)
	}
}
