package ports

import (
	"context"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// JobRepository defines persistence operations for jobs and their embedded
// history. Every write touches a single job document in one call, so
// currentStage and history are never observed out of step.
type JobRepository interface {
	// Create inserts a new job. Returns domain.ErrDuplicateJob when the id is taken.
	Create(ctx context.Context, job *domain.Job) error
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context) ([]*domain.Job, error)

	// AppendLog pushes entry onto the history and sets currentStage to its
	// stage, unless an entry with the same id is already stored. The bool
	// reports whether the write happened.
	AppendLog(ctx context.Context, jobID string, entry domain.JobLog) (bool, error)

	// AppendHistory pushes entries (in order) and sets currentStage to stage.
	// Returns domain.ErrHistoryConflict when any of the entry ids is already
	// stored, in which case nothing is written.
	AppendHistory(ctx context.Context, jobID string, entries []domain.JobLog, stage string) error

	// SetStage overwrites currentStage without touching the history.
	SetStage(ctx context.Context, jobID, stage string) error
}
