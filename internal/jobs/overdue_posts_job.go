package jobs

import (
	"context"
	"log/slog"
	"time"

	"posttracker/internal/core/application/usecases/queries"
	"posttracker/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueSchedule runs the overdue scan every five minutes.
const DefaultOverdueSchedule = "0 */5 * * * *"

// overduePostsHandler is satisfied by queries.GetOverduePostsQueryHandler.
type overduePostsHandler interface {
	Handle(ctx context.Context, query queries.GetOverduePostsQuery) ([]queries.GetOverduePostsQueryResponse, error)
}

// OverduePostsJob periodically counts posts past their estimated delivery
// and publishes the count as the posts_overdue gauge.
type OverduePostsJob struct {
	handler  overduePostsHandler
	schedule string
	clock    func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOverduePostsJob creates the job. An empty schedule uses DefaultOverdueSchedule.
func NewOverduePostsJob(
	handler overduePostsHandler,
	schedule string,
	clock func() time.Time,
	logger *slog.Logger,
) *OverduePostsJob {
	if schedule == "" {
		schedule = DefaultOverdueSchedule
	}
	return &OverduePostsJob{
		handler:  handler,
		schedule: schedule,
		clock:    clock,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "overdue_posts_job"),
	}
}

// Start schedules the job.
func (j *OverduePostsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue posts job started", "schedule", j.schedule)
	return nil
}

// Run performs one scan. It returns the number of overdue posts, or -1 if
// the scan failed; failures are logged and leave the gauge unchanged.
func (j *OverduePostsJob) Run(ctx context.Context) int {
	query, err := queries.NewGetOverduePostsQuery(j.clock())
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue posts job failed", "error", err)
		return -1
	}

	overdue, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue posts job failed", "error", err)
		return -1
	}

	metrics.OverduePosts.Set(float64(len(overdue)))
	if len(overdue) > 0 {
		oldest := overdue[0]
		j.logger.WarnContext(ctx, "Posts past estimated delivery",
			"count", len(overdue),
			"oldest_tracking_code", oldest.TrackingCode.String(),
			"oldest_estimated_delivery", oldest.EstimatedDelivery,
		)
	}
	return len(overdue)
}

// Stop stops the job and waits for a running scan to finish.
func (j *OverduePostsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue posts job stopped")
}
