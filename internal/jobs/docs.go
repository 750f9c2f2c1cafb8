// Package jobs provides scheduled background tasks for the pickup service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// PickupReminderJob finds orders that have been READY_FOR_PICKUP for longer than the
// configured wait and publishes a pickup reminder for each of them.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(remindHandler, jobs.PickupReminderConfig{
//		Schedule:   "@hourly",
//		WaitingFor: 24 * time.Hour,
//		Limit:      100,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the standard five-field cron syntax; descriptors like "@hourly" and
// "@every 30m" work as well. A run that is still in progress when the next one is due
// causes that next run to be skipped.
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. Invalid schedules and settings
// are reported by StartAll.
package jobs
