package workshop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// CreateIntakeStatus opens the status record of a job's equipment. Intake
// straight into an active status is an admission and must pass capacity.
func (s *Service) CreateIntakeStatus(ctx context.Context, input IntakeInput) (domain.EquipmentStatus, error) {
	if err := s.checkWriter(ctx); err != nil {
		return domain.EquipmentStatus{}, err
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return domain.EquipmentStatus{}, errJobIDRequired
	}

	initial := input.InitialStatus
	if initial == "" {
		initial = domain.StatusReceived
	}
	initial, err := domain.ParseStatus(string(initial))
	if err != nil {
		return domain.EquipmentStatus{}, err
	}
	if !initial.IsIntake() {
		return domain.EquipmentStatus{}, &domain.TransitionError{To: initial}
	}

	actor := strings.TrimSpace(input.Actor)
	if actor == "" {
		return domain.EquipmentStatus{}, errActorRequired
	}
	notes := strings.TrimSpace(input.Notes)

	keys := []string{jobLockKey(jobID)}
	if initial.IsActive() {
		keys = append(keys, s.admissionLockKey())
	}

	var (
		job     domain.Job
		created domain.EquipmentStatus
	)
	if err := s.runSerialized(ctx, "create_intake_status", func(ctx context.Context) error {
		return s.withLocks(ctx, keys, func(ctx context.Context) error {
			return s.uow.WithTx(ctx, func(txCtx context.Context) error {
				var err error
				job, err = s.loadJob(txCtx, jobID, true)
				if err != nil {
					return err
				}

				if _, err := s.statuses.GetStatus(txCtx, jobID); err == nil {
					return fmt.Errorf("job %s: %w", jobID, domain.ErrAlreadyExists)
				} else if !errors.Is(err, ports.ErrStatusNotFound) {
					return fmt.Errorf("read equipment status: %w", err)
				}

				if initial.IsActive() {
					if err := s.admitTx(txCtx, job, job.TechnicianID); err != nil {
						return err
					}
				}

				now := s.now()
				status := domain.EquipmentStatus{
					JobID:         jobID,
					CurrentStatus: initial,
					Version:       1,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				status.Timestamps.MarkReached(initial, now)

				if err := s.statuses.CreateStatus(txCtx, status, domain.HistoryEntry{
					ID:        uuid.NewString(),
					JobID:     jobID,
					ToStatus:  initial,
					ChangedAt: now,
					ChangedBy: actor,
					Notes:     notes,
				}); err != nil {
					return mapRepoError(err, jobID)
				}
				if err := s.jobs.MarkEquipmentIntake(txCtx, jobID, now); err != nil {
					return fmt.Errorf("mark equipment intake: %w", err)
				}

				created = status
				job.EquipmentIntake = true
				return nil
			})
		})
	}); err != nil {
		return domain.EquipmentStatus{}, errs.Wrapf(err, "create intake status for job %s", jobID)
	}

	s.invalidateHistory(ctx, jobID)
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
		"equipment taken in",
		slog.String("job_id", jobID),
		slog.String("status", string(initial)),
		slog.String("actor", actor),
	)
	s.notifyIntake(ctx, job, created, actor)
	return created, nil
}
