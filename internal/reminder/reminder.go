// Package reminder periodically nudges debtors about outstanding transfers.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/arcwise/internal/events"
	"github.com/mmynk/arcwise/internal/models"
)

// DefaultSchedule runs once a day at 09:00.
const DefaultSchedule = "0 9 * * *"

// TransferSource computes what is still owed.
type TransferSource interface {
	OutstandingTransfers(ctx context.Context) ([]models.Transfer, error)
}

// Job publishes one debt.reminder event per outstanding transfer.
type Job struct {
	source    TransferSource
	publisher events.Publisher
	logger    *slog.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewJob(source TransferSource, publisher events.Publisher, logger *slog.Logger) *Job {
	return &Job{
		source:    source,
		publisher: publisher,
		logger:    logger,
		timeout:   30 * time.Second,
		now:       time.Now,
	}
}

// RunOnce publishes reminders for the current outstanding transfers and
// returns how many were sent. It keeps going past individual publish
// failures and reports them together.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	transfers, err := j.source.OutstandingTransfers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute outstanding transfers: %w", err)
	}

	at := j.now().UTC()
	sent := 0
	var errs []error
	for _, t := range transfers {
		if err := j.publisher.Publish(ctx, events.NewDebtReminder(t, at)); err != nil {
			errs = append(errs, fmt.Errorf("reminder for %s: %w", t.From, err))
			continue
		}
		sent++
	}

	j.logger.Info("Debt reminders sent", "outstanding", len(transfers), "sent", sent)
	return sent, errors.Join(errs...)
}

// Start schedules RunOnce on a cron spec and starts the scheduler. The
// caller stops it with Stop on the returned Cron.
func (j *Job) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("Reminder job failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule reminder job %q: %w", schedule, err)
	}

	c.Start()
	j.logger.Info("Reminder job started", "schedule", schedule)
	return c, nil
}
