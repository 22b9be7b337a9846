package ports

import (
	"context"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// CreateDailyLogInput carries a worker's attendance or work report.
type CreateDailyLogInput struct {
	WorkerName string
	Type       string
	PhotoURL   string
}

// DailyLogService defines daily log use cases. Logs are immutable, so there
// is no update.
type DailyLogService interface {
	CreateDailyLog(ctx context.Context, input CreateDailyLogInput) (*domain.DailyLog, error)
	GetDailyLog(ctx context.Context, id string) (*domain.DailyLog, error)
	ListDailyLogs(ctx context.Context, filter DailyLogFilter) ([]*domain.DailyLog, error)
	DeleteDailyLog(ctx context.Context, id string) error
}
