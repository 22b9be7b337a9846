package ports

import (
	"context"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// DailyLogFilter narrows a daily log listing. Empty fields do not filter.
type DailyLogFilter struct {
	WorkerName string
}

// DailyLogRepository defines persistence operations for daily logs.
type DailyLogRepository interface {
	Create(ctx context.Context, log *domain.DailyLog) error
	FindByID(ctx context.Context, id string) (*domain.DailyLog, error)
	// List returns matching logs newest first.
	List(ctx context.Context, filter DailyLogFilter) ([]*domain.DailyLog, error)
	Delete(ctx context.Context, id string) error
}
