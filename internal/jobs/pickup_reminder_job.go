package jobs

import (
	"context"
	"log/slog"
	"time"

	"pickup/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReminderSchedule runs the reminder at the top of every hour.
const DefaultReminderSchedule = "0 * * * *"

// PickupReminderHandler sends reminders for orders waiting at their branch.
type PickupReminderHandler interface {
	Handle(ctx context.Context, cmd commands.RemindPendingPickupsCommand) (int, error)
}

// PickupReminderConfig controls when and how much the reminder job sends.
type PickupReminderConfig struct {
	// Schedule is a standard five-field cron expression or a descriptor such as "@hourly".
	Schedule string
	// WaitingFor is how long an order must have been READY_FOR_PICKUP to be reminded.
	WaitingFor time.Duration
	// Limit caps the reminders sent per run.
	Limit int
	// Timeout bounds a single run.
	Timeout time.Duration
}

// PickupReminderJob manages the scheduled reminders for uncollected orders.
// Overlapping runs are skipped, so a slow run never piles up behind itself.
type PickupReminderJob struct {
	handler PickupReminderHandler
	config  PickupReminderConfig
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewPickupReminderJob creates a new reminder job.
func NewPickupReminderJob(handler PickupReminderHandler, config PickupReminderConfig, logger *slog.Logger) *PickupReminderJob {
	if config.Schedule == "" {
		config.Schedule = DefaultReminderSchedule
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}

	return &PickupReminderJob{
		handler: handler,
		config:  config,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "pickup_reminder_job"),
	}
}

// Start schedules the job. Returns an error for an invalid schedule or command settings.
func (j *PickupReminderJob) Start() error {
	if _, err := commands.NewRemindPendingPickupsCommand(j.config.WaitingFor, j.config.Limit); err != nil {
		return err
	}

	if _, err := j.cron.AddFunc(j.config.Schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pickup reminder job started",
		"schedule", j.config.Schedule,
		"waiting_for", j.config.WaitingFor,
		"limit", j.config.Limit,
	)
	return nil
}

// Stop stops the scheduler and waits for a running reminder to finish.
func (j *PickupReminderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Pickup reminder job stopped")
}

// RunOnce sends one batch of reminders and returns how many were sent.
func (j *PickupReminderJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewRemindPendingPickupsCommand(j.config.WaitingFor, j.config.Limit)
	if err != nil {
		return 0, err
	}
	return j.handler.Handle(ctx, cmd)
}

func (j *PickupReminderJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.config.Timeout)
	defer cancel()

	sent, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pickup reminder job failed", "error", err)
		return
	}
	if sent > 0 {
		j.logger.InfoContext(ctx, "Pickup reminders sent", "count", sent)
	}
}
