package workshop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
)

// ReleaseJob clears the technician so the job re-enters the queue. The
// equipment status is left as is.
func (s *Service) ReleaseJob(ctx context.Context, input ReleaseInput) (domain.Job, error) {
	if err := s.checkWriter(ctx); err != nil {
		return domain.Job{}, err
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return domain.Job{}, errJobIDRequired
	}
	actor := strings.TrimSpace(input.Actor)
	if actor == "" {
		return domain.Job{}, errActorRequired
	}

	var (
		released   domain.Job
		previous   string
		lastStatus domain.Status
	)
	if err := s.runSerialized(ctx, "release_job", func(ctx context.Context) error {
		return s.withLocks(ctx, []string{jobLockKey(jobID)}, func(ctx context.Context) error {
			return s.uow.WithTx(ctx, func(txCtx context.Context) error {
				job, err := s.loadJob(txCtx, jobID, true)
				if err != nil {
					return err
				}
				if !job.Claimed() {
					return fmt.Errorf("job %s: %w", jobID, domain.ErrNotClaimed)
				}

				status, err := s.statuses.GetStatus(txCtx, jobID)
				if err != nil {
					return mapRepoError(err, jobID)
				}
				if status.CurrentStatus.IsTerminal() {
					return fmt.Errorf("job %s is %s: %w", jobID, status.CurrentStatus, domain.ErrNotClaimable)
				}

				now := s.now()
				if err := s.jobs.ClearTechnician(txCtx, jobID, now); err != nil {
					return mapRepoError(err, jobID)
				}

				previous = job.TechnicianID
				lastStatus = status.CurrentStatus
				job.TechnicianID = ""
				job.UpdatedAt = now
				released = job
				return nil
			})
		})
	}); err != nil {
		return domain.Job{}, errs.Wrapf(err, "release job %s", jobID)
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
		"job released",
		slog.String("job_id", jobID),
		slog.String("technician_id", previous),
		slog.String("actor", actor),
		slog.String("notes", strings.TrimSpace(input.Notes)),
	)
	s.notifyAssignment(ctx, domain.EventReleased, released, previous, actor, lastStatus)
	return released, nil
}
