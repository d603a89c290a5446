package session

import (
	"context"
	"time"

	"github.com/AlibekovAA/book-review/internal/common/constants"
	"github.com/AlibekovAA/book-review/internal/common/logger"
	"github.com/AlibekovAA/book-review/internal/observability/metrics"
)

type IdleDeleter interface {
	DeleteIdle(ctx context.Context, maxIdle time.Duration) (int64, error)
}

// StartCleanup removes idle sessions every interval until ctx is cancelled.
func StartCleanup(ctx context.Context, store IdleDeleter, maxIdle, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = constants.DefaultSessionCleanupEvery
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.DeleteIdle(ctx, maxIdle)
			if err != nil {
				log.Errorf("session cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				metrics.SessionsCleanupDeleted.Add(float64(deleted))
				log.Infof("session cleanup: deleted %d idle sessions", deleted)
			}
		}
	}
}
