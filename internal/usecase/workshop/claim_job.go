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

// ClaimJob assigns an unclaimed job to technicianID. At most one concurrent
// caller wins; the others get ErrAlreadyClaimed. Equipment still waiting to
// be worked on moves to in_repair in the same transaction.
func (s *Service) ClaimJob(ctx context.Context, input ClaimInput) (domain.Job, error) {
	if err := s.checkWriter(ctx); err != nil {
		return domain.Job{}, err
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return domain.Job{}, errJobIDRequired
	}
	technicianID := strings.TrimSpace(input.TechnicianID)
	if technicianID == "" {
		return domain.Job{}, errTechnicianIDRequired
	}
	notes := strings.TrimSpace(input.Notes)

	var (
		claimed domain.Job
		applied *appliedTransition
	)
	if err := s.runSerialized(ctx, "claim_job", func(ctx context.Context) error {
		applied = nil
		return s.withLocks(ctx, []string{jobLockKey(jobID), s.admissionLockKey()}, func(ctx context.Context) error {
			return s.uow.WithTx(ctx, func(txCtx context.Context) error {
				job, err := s.loadJob(txCtx, jobID, true)
				if err != nil {
					return err
				}
				if job.Claimed() {
					return fmt.Errorf("job %s held by %s: %w", jobID, job.TechnicianID, domain.ErrAlreadyClaimed)
				}

				status, err := s.statuses.GetStatus(txCtx, jobID)
				if err != nil {
					return mapRepoError(err, jobID)
				}
				if status.CurrentStatus.IsTerminal() {
					return fmt.Errorf("job %s is %s: %w", jobID, status.CurrentStatus, domain.ErrNotClaimable)
				}

				if err := s.admitTx(txCtx, job, technicianID); err != nil {
					return err
				}

				now := s.now()
				ok, err := s.jobs.AssignTechnician(txCtx, jobID, technicianID, now)
				if err != nil {
					return fmt.Errorf("assign technician: %w", err)
				}
				if !ok {
					return fmt.Errorf("job %s: %w", jobID, domain.ErrAlreadyClaimed)
				}
				job.TechnicianID = technicianID
				job.UpdatedAt = now

				if status.CurrentStatus.IsPreWork() {
					moved, err := s.applyTransitionTx(txCtx, status, domain.StatusInRepair, technicianID, notes)
					if err != nil {
						return err
					}
					applied = &moved
				}

				claimed = job
				return nil
			})
		})
	}); err != nil {
		return domain.Job{}, errs.Wrapf(err, "claim job %s", jobID)
	}

	s.invalidateHistory(ctx, jobID)

	status := domain.Status("")
	if applied != nil {
		status = applied.status.CurrentStatus
	}
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
		"job claimed",
		slog.String("job_id", jobID),
		slog.String("technician_id", technicianID),
		slog.Bool("advanced", applied != nil),
	)
	s.notifyAssignment(ctx, domain.EventClaimed, claimed, technicianID, technicianID, status)
	if applied != nil {
		s.notifyTransition(ctx, claimed, applied.entry)
	}
	return claimed, nil
}
