package workshop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
)

// RecordTransition moves a job's equipment to input.ToStatus if the lifecycle
// allows it. A move into active work is checked against the capacity ceilings
// in the same transaction. Rejected requests write nothing.
func (s *Service) RecordTransition(ctx context.Context, input TransitionInput) (domain.EquipmentStatus, error) {
	if err := s.checkWriter(ctx); err != nil {
		return domain.EquipmentStatus{}, err
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return domain.EquipmentStatus{}, errJobIDRequired
	}
	to, err := domain.ParseStatus(string(input.ToStatus))
	if err != nil {
		return domain.EquipmentStatus{}, err
	}
	actor := strings.TrimSpace(input.Actor)
	if actor == "" {
		return domain.EquipmentStatus{}, errActorRequired
	}
	notes := strings.TrimSpace(input.Notes)

	// Moves that can admit the job into active work also serialize on the
	// admission key, taken after the job key like ClaimJob does.
	keys := []string{jobLockKey(jobID)}
	if domain.CanEnterActive(to) {
		keys = append(keys, s.admissionLockKey())
	}

	var (
		job     domain.Job
		applied appliedTransition
	)
	if err := s.runSerialized(ctx, "record_transition", func(ctx context.Context) error {
		return s.withLocks(ctx, keys, func(ctx context.Context) error {
			return s.uow.WithTx(ctx, func(txCtx context.Context) error {
				var err error
				job, err = s.loadJob(txCtx, jobID, false)
				if err != nil {
					return err
				}

				current, err := s.statuses.GetStatus(txCtx, jobID)
				if err != nil {
					return mapRepoError(err, jobID)
				}
				if err := domain.ValidateTransition(current.CurrentStatus, to); err != nil {
					return err
				}
				if domain.EntersActive(current.CurrentStatus, to) {
					if err := s.admitTx(txCtx, job, job.TechnicianID); err != nil {
						return err
					}
				}

				applied, err = s.applyTransitionTx(txCtx, current, to, actor, notes)
				return err
			})
		})
	}); err != nil {
		return domain.EquipmentStatus{}, errs.Wrapf(err, "record transition for job %s", jobID)
	}

	s.invalidateHistory(ctx, jobID)
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
		"status transition recorded",
		slog.String("job_id", jobID),
		slog.String("from", string(applied.entry.FromStatus)),
		slog.String("to", string(applied.entry.ToStatus)),
		slog.String("actor", actor),
	)
	s.notifyTransition(ctx, job, applied.entry)
	return applied.status, nil
}

type appliedTransition struct {
	status domain.EquipmentStatus
	entry  domain.HistoryEntry
}

// applyTransitionTx validates and persists one move on a snapshot read in the
// same transaction. The version guard turns a stale snapshot into a retryable conflict.
func (s *Service) applyTransitionTx(txCtx context.Context, current domain.EquipmentStatus, to domain.Status, actor string, notes string) (appliedTransition, error) {
	if err := domain.ValidateTransition(current.CurrentStatus, to); err != nil {
		return appliedTransition{}, err
	}

	changedAt := current.NextChangeTime(s.now())
	next := current.Advance(to, changedAt)
	if err := s.statuses.UpdateStatus(txCtx, next, current.Version); err != nil {
		return appliedTransition{}, mapRepoError(err, current.JobID)
	}

	entry := domain.HistoryEntry{
		ID:         uuid.NewString(),
		JobID:      current.JobID,
		FromStatus: current.CurrentStatus,
		ToStatus:   to,
		ChangedAt:  changedAt,
		ChangedBy:  actor,
		Notes:      notes,
	}
	if err := s.statuses.AppendHistory(txCtx, entry); err != nil {
		return appliedTransition{}, fmt.Errorf("append history: %w", err)
	}

	return appliedTransition{status: next, entry: entry}, nil
}

// AllowedTransitions lists the statuses the job can move to next.
func (s *Service) AllowedTransitions(ctx context.Context, jobID string) ([]domain.Status, error) {
	status, err := s.GetStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return domain.NextStatuses(status.CurrentStatus), nil
}
