package service

import (
	"context"
	"log/slog"
	"time"

	"meetreg/internal/domain"
)

// RegistrationWindowJob closes meets whose registration window has passed.
// Scheduled from main via robfig/cron; Run is also safe to call ad hoc.
type RegistrationWindowJob struct {
	meets  domain.MeetRepository
	logger *slog.Logger
}

func NewRegistrationWindowJob(meets domain.MeetRepository, logger *slog.Logger) *RegistrationWindowJob {
	return &RegistrationWindowJob{meets: meets, logger: logger}
}

// Run flips every ACTIVE meet whose registration_end is in the past to
// CLOSED. The write path re-checks the window per transaction, so the job is
// a tidy-up, not the enforcement point.
func (j *RegistrationWindowJob) Run(ctx context.Context) error {
	meets, err := j.meets.ListActive(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, meet := range meets {
		if meet.RegistrationEnd.IsZero() || now.Before(meet.RegistrationEnd) {
			continue
		}
		if err := j.meets.SetStatus(ctx, meet.ID, domain.MeetStatusClosed); err != nil {
			j.logger.Error("close meet failed", "meet_id", meet.ID, "error", err)
			continue
		}
		j.logger.Info("closed registration", "meet_id", meet.ID, "name", meet.Name)
	}
	return nil
}
