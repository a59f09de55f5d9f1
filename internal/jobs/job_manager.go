package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	overduePostsJob *OverduePostsJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	overduePostsHandler overduePostsHandler,
	overdueSchedule string,
	clock func() time.Time,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		overduePostsJob: NewOverduePostsJob(overduePostsHandler, overdueSchedule, clock, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.overduePostsJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue posts job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overduePostsJob.Stop()
}
