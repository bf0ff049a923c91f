package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CleanupJob deletes read notifications past their retention.
type CleanupJob struct {
	repo          Repository
	retentionDays int
}

// NewCleanupJob creates a cleanup job
func NewCleanupJob(repo Repository, retentionDays int) *CleanupJob {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &CleanupJob{
		repo:          repo,
		retentionDays: retentionDays,
	}
}

// Start runs the job now and then every interval until ctx is done.
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Notification cleanup job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce runs cleanup once
func (j *CleanupJob) RunOnce(ctx context.Context) int64 {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)

	rows, err := j.repo.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old notifications")
		return 0
	}

	if rows > 0 {
		log.Info().
			Int64("deleted", rows).
			Int("retention_days", j.retentionDays).
			Msg("Cleaned up old notifications")
	}
	return rows
}
