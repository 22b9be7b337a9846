package ports

import (
	"context"
	"time"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// CreateJobInput carries the fields accepted when opening a job.
type CreateJobInput struct {
	Priority       string
	DesignImageURL string
	// CurrentStage optionally overrides domain.DefaultStage.
	CurrentStage string
}

// AppendLogInput describes one stage transition. LogID and Timestamp are
// optional; the service fills them in when zero.
type AppendLogInput struct {
	JobID         string
	LogID         string
	StageName     string
	WorkerName    string
	ProofPhotoURL string
	Timestamp     time.Time
}

// JobUpdateResult is returned by UpdateJob.
type JobUpdateResult struct {
	Job *domain.Job
	// Appended and Skipped count the incoming history entries that were
	// new and already known respectively.
	Appended int
	Skipped  int
}

// JobService is the job history engine.
type JobService interface {
	CreateJob(ctx context.Context, input CreateJobInput) (*domain.Job, error)
	AppendLog(ctx context.Context, input AppendLogInput) (*domain.JobLog, error)
	UpdateJob(ctx context.Context, jobID string, patch domain.JobPatch) (*JobUpdateResult, error)
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	ListJobs(ctx context.Context) ([]*domain.Job, error)
}
