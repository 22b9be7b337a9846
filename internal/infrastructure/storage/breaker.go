package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// BreakerStore fails fast while the wrapped store keeps erroring.
type BreakerStore struct {
	next ports.BlobStore
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerStore(next ports.BlobStore, logger zerolog.Logger) *BreakerStore {
	st := gobreaker.Settings{
		Name:        "blob-store",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		// A missing file is an answer, not a store failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrBlobNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (s *BreakerStore) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	v, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Put(ctx, name, contentType, body)
	})
	if err != nil {
		return "", s.wrap(err)
	}
	return v.(string), nil
}

func (s *BreakerStore) Open(ctx context.Context, name string) (*ports.Blob, error) {
	v, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Open(ctx, name)
	})
	if err != nil {
		return nil, s.wrap(err)
	}
	return v.(*ports.Blob), nil
}

// State reports the breaker state for health checks.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerStore) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return err
}
