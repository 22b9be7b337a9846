package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
	"github.com/goldline/production-tracker/pkg/idx"
)

const (
	maxJobIDAttempts = 5
	maxMergeAttempts = 3
)

// LogReplayGuard remembers recently appended log ids so a retried append can
// be answered without a write. It is an optimisation only: the repository's
// conditional update is what keeps the history free of duplicates.
type LogReplayGuard interface {
	Seen(ctx context.Context, jobID, logID string) (bool, error)
	Mark(ctx context.Context, jobID, logID string) error
}

type noopGuard struct{}

func (noopGuard) Seen(context.Context, string, string) (bool, error) { return false, nil }
func (noopGuard) Mark(context.Context, string, string) error         { return nil }

// JobService owns job creation and the append-only stage history.
type JobService struct {
	repo   ports.JobRepository
	guard  LogReplayGuard
	logger zerolog.Logger
	now    func() time.Time
}

// NewJobService returns a JobService. guard may be nil.
func NewJobService(repo ports.JobRepository, guard LogReplayGuard, logger zerolog.Logger) *JobService {
	if guard == nil {
		guard = noopGuard{}
	}
	return &JobService{repo: repo, guard: guard, logger: logger, now: time.Now}
}

// CreateJob opens a new job with an empty history.
func (s *JobService) CreateJob(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error) {
	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		return nil, domain.Invalidf("priority is required")
	}
	// A job without history sits at the default stage; later stages are
	// reached through AppendLog or UpdateJob.
	if stage := strings.TrimSpace(input.CurrentStage); stage != "" && stage != domain.DefaultStage {
		return nil, domain.Invalidf("currentStage of a new job must be %s", domain.DefaultStage)
	}

	for attempt := 1; attempt <= maxJobIDAttempts; attempt++ {
		job := &domain.Job{
			ID:             generateJobID(),
			DesignImageURL: strings.TrimSpace(input.DesignImageURL),
			Priority:       priority,
			CurrentStage:   domain.DefaultStage,
			CreatedAt:      s.now().UTC(),
			History:        []domain.JobLog{},
		}

		err := s.repo.Create(ctx, job)
		if errors.Is(err, domain.ErrDuplicateJob) {
			s.logger.Warn().Str("job_id", job.ID).Int("attempt", attempt).Msg("job id collision, regenerating")
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create job")
			return nil, fmt.Errorf("create job: %w", err)
		}

		s.logger.Info().Str("job_id", job.ID).Str("priority", priority).Msg("job created")
		return job, nil
	}
	return nil, fmt.Errorf("create job: %w", domain.ErrDuplicateJob)
}

// AppendLog records a stage transition. Appending an entry whose id is
// already in the history returns the stored entry and writes nothing.
func (s *JobService) AppendLog(ctx context.Context, input ports.AppendLogInput) (*domain.JobLog, error) {
	entry := domain.JobLog{
		ID:            strings.TrimSpace(input.LogID),
		JobID:         input.JobID,
		StageName:     strings.TrimSpace(input.StageName),
		WorkerName:    strings.TrimSpace(input.WorkerName),
		ProofPhotoURL: strings.TrimSpace(input.ProofPhotoURL),
		Timestamp:     input.Timestamp,
	}
	if entry.StageName == "" {
		return nil, domain.Invalidf("stageName is required")
	}
	if entry.WorkerName == "" {
		return nil, domain.Invalidf("workerName is required")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}

	if entry.ID == "" {
		entry.ID = idx.New()
	} else if stored, ok := s.replayed(ctx, input.JobID, entry.ID); ok {
		return stored, nil
	}

	appended, err := s.repo.AppendLog(ctx, input.JobID, entry)
	if err != nil {
		return nil, fmt.Errorf("append log to job %s: %w", input.JobID, err)
	}
	if !appended {
		job, err := s.repo.FindByID(ctx, input.JobID)
		if err != nil {
			return nil, fmt.Errorf("append log to job %s: %w", input.JobID, err)
		}
		stored, ok := job.FindLog(entry.ID)
		if !ok {
			return nil, fmt.Errorf("append log to job %s: %w", input.JobID, domain.ErrHistoryConflict)
		}
		s.logger.Debug().Str("job_id", input.JobID).Str("log_id", entry.ID).Msg("log already recorded")
		return &stored, nil
	}

	if err := s.guard.Mark(ctx, input.JobID, entry.ID); err != nil {
		s.logger.Warn().Err(err).Str("job_id", input.JobID).Msg("failed to mark log id")
	}

	s.logger.Info().
		Str("job_id", input.JobID).
		Str("stage", entry.StageName).
		Str("worker", entry.WorkerName).
		Msg("stage logged")

	return &entry, nil
}

// replayed consults the guard and, on a hit, loads the stored entry.
func (s *JobService) replayed(ctx context.Context, jobID, logID string) (*domain.JobLog, bool) {
	seen, err := s.guard.Seen(ctx, jobID, logID)
	if err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID).Msg("replay check failed, appending anyway")
		return nil, false
	}
	if !seen {
		return nil, false
	}
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, false
	}
	stored, ok := job.FindLog(logID)
	if !ok {
		return nil, false
	}
	s.logger.Debug().Str("job_id", jobID).Str("log_id", logID).Msg("replayed log skipped")
	return &stored, true
}

// UpdateJob reconciles a client's view of a job with the stored one. Incoming
// history entries are appended in their given order when their id is not yet
// known; known entries are never rewritten. When history is supplied the
// stage follows the history and currentStage is ignored, so a replayed patch
// leaves the job as the first call did. Only a currentStage sent without
// history overwrites the stored stage.
func (s *JobService) UpdateJob(ctx context.Context, jobID string, patch domain.JobPatch) (*ports.JobUpdateResult, error) {
	if patch.CurrentStage != nil && strings.TrimSpace(*patch.CurrentStage) == "" {
		return nil, domain.Invalidf("currentStage must not be empty")
	}
	incoming, err := s.normaliseHistory(jobID, patch.History)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxMergeAttempts; attempt++ {
		job, err := s.repo.FindByID(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("update job %s: %w", jobID, err)
		}

		fresh := job.NewEntries(incoming)
		if len(fresh) == 0 {
			if patch.CurrentStage != nil && patch.History == nil {
				stage := strings.TrimSpace(*patch.CurrentStage)
				if stage != job.CurrentStage {
					if err := s.repo.SetStage(ctx, jobID, stage); err != nil {
						return nil, fmt.Errorf("update job %s: %w", jobID, err)
					}
					job.CurrentStage = stage
				}
			}
			return &ports.JobUpdateResult{Job: job, Skipped: len(incoming)}, nil
		}

		job.Append(fresh...)
		err = s.repo.AppendHistory(ctx, jobID, fresh, job.CurrentStage)
		if errors.Is(err, domain.ErrHistoryConflict) {
			s.logger.Debug().Str("job_id", jobID).Int("attempt", attempt).Msg("history moved underneath merge, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update job %s: %w", jobID, err)
		}

		s.logger.Info().
			Str("job_id", jobID).
			Int("appended", len(fresh)).
			Int("skipped", len(incoming)-len(fresh)).
			Str("stage", job.CurrentStage).
			Msg("history merged")

		return &ports.JobUpdateResult{
			Job:      job,
			Appended: len(fresh),
			Skipped:  len(incoming) - len(fresh),
		}, nil
	}
	return nil, fmt.Errorf("update job %s: %w", jobID, domain.ErrHistoryConflict)
}

// normaliseHistory validates incoming entries and fills in defaults.
func (s *JobService) normaliseHistory(jobID string, history []domain.JobLog) ([]domain.JobLog, error) {
	out := make([]domain.JobLog, 0, len(history))
	for i, h := range history {
		h.ID = strings.TrimSpace(h.ID)
		h.StageName = strings.TrimSpace(h.StageName)
		if h.ID == "" {
			return nil, domain.Invalidf("history[%d]: id is required", i)
		}
		if h.StageName == "" {
			return nil, domain.Invalidf("history[%d]: stageName is required", i)
		}
		if h.JobID != "" && h.JobID != jobID {
			return nil, domain.Invalidf("history[%d]: belongs to job %s", i, h.JobID)
		}
		h.JobID = jobID
		if h.Timestamp.IsZero() {
			h.Timestamp = s.now().UTC()
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *JobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	jobs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// generateJobID returns a short job id made of 8 uppercase hex characters.
func generateJobID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%X", b)
}
