package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
	"github.com/goldline/production-tracker/pkg/idx"
)

type DailyLogService struct {
	repo   ports.DailyLogRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewDailyLogService(repo ports.DailyLogRepository, logger zerolog.Logger) *DailyLogService {
	return &DailyLogService{repo: repo, logger: logger, now: time.Now}
}

// CreateDailyLog records an attendance or work event. Id and timestamp are
// always assigned here, never taken from the client.
func (s *DailyLogService) CreateDailyLog(ctx context.Context, input ports.CreateDailyLogInput) (*domain.DailyLog, error) {
	worker := strings.TrimSpace(input.WorkerName)
	if worker == "" {
		return nil, domain.Invalidf("workerName is required")
	}
	logType := domain.DailyLogType(strings.TrimSpace(input.Type))
	if !logType.Valid() {
		return nil, domain.Invalidf("type must be one of Start, End, StartWork, CompleteWork")
	}

	now := s.now().UTC()
	entry := &domain.DailyLog{
		ID:         idx.NewAt(now),
		WorkerName: worker,
		Type:       logType,
		PhotoURL:   strings.TrimSpace(input.PhotoURL),
		Timestamp:  now,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).Msg("failed to create daily log")
		return nil, fmt.Errorf("create daily log: %w", err)
	}

	s.logger.Info().Str("worker", worker).Str("type", string(logType)).Msg("daily log recorded")
	return entry, nil
}

func (s *DailyLogService) GetDailyLog(ctx context.Context, id string) (*domain.DailyLog, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get daily log %s: %w", id, err)
	}
	return entry, nil
}

// ListDailyLogs returns logs newest first.
func (s *DailyLogService) ListDailyLogs(ctx context.Context, filter ports.DailyLogFilter) ([]*domain.DailyLog, error) {
	filter.WorkerName = strings.TrimSpace(filter.WorkerName)
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	return logs, nil
}

func (s *DailyLogService) DeleteDailyLog(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete daily log %s: %w", id, err)
	}
	s.logger.Info().Str("daily_log_id", id).Msg("daily log deleted")
	return nil
}
