// Package jobs provides scheduled background tasks for the post tracking service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field) and
// are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(overdueHandler, cfg.OverdueSchedule, commands.SystemClock, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// OverduePostsJob scans for posts that are not delivered although their
// estimated delivery date has passed, sets the posts_overdue gauge and logs
// the oldest one. The default schedule is every five minutes.
//
// # Error Handling
//
// A failed scan is logged and leaves the gauge at its previous value; the
// next tick tries again.
package jobs
