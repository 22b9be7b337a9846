package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const logGuardTTL = time.Hour

// LogGuard remembers recently appended job log ids.
// Key format: joblog:<job_id>:<log_id>
type LogGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewLogGuard(client redis.Cmdable) *LogGuard {
	return &LogGuard{client: client, ttl: logGuardTTL}
}

// Seen reports whether the log id was marked within the TTL.
func (g *LogGuard) Seen(ctx context.Context, jobID, logID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(jobID, logID)).Result()
	if err != nil {
		return false, fmt.Errorf("log guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records the log id as appended.
func (g *LogGuard) Mark(ctx context.Context, jobID, logID string) error {
	if err := g.client.Set(ctx, g.key(jobID, logID), "1", g.ttl).Err(); err != nil {
		return fmt.Errorf("log guard mark: %w", err)
	}
	return nil
}

func (g *LogGuard) key(jobID, logID string) string {
	return fmt.Sprintf("joblog:%s:%s", jobID, logID)
}
