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
)

// RegisterJob mirrors a job from the surrounding system so it can be taken in.
// An empty JobID gets a generated UUID.
func (s *Service) RegisterJob(ctx context.Context, input RegisterJobInput) (domain.Job, error) {
	if err := s.checkCore(ctx); err != nil {
		return domain.Job{}, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Job{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	priority, err := domain.ParsePriority(input.Priority)
	if err != nil {
		return domain.Job{}, err
	}

	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		jobID = uuid.NewString()
	}

	now := s.now()
	job := domain.Job{
		JobID:        jobID,
		CompanyID:    s.opts.CompanyID,
		Title:        title,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Priority:     priority,
		TechnicianID: strings.TrimSpace(input.TechnicianID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.EstimatedCompletionDate != nil {
		eta := input.EstimatedCompletionDate.UTC()
		job.EstimatedCompletionDate = &eta
	}

	created, err := s.jobs.CreateJob(ctx, job)
	if err != nil {
		return domain.Job{}, errs.Wrapf(err, "register job %s", jobID)
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
		"job registered",
		slog.String("job_id", created.JobID),
		slog.String("priority", string(created.Priority)),
	)
	return created, nil
}

// GetJob returns a job of this workshop.
func (s *Service) GetJob(ctx context.Context, jobID string) (domain.Job, error) {
	if err := s.checkCore(ctx); err != nil {
		return domain.Job{}, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return domain.Job{}, errJobIDRequired
	}
	return s.loadJob(ctx, jobID, false)
}

// RegisterTechnician records a display name used by metrics.
func (s *Service) RegisterTechnician(ctx context.Context, technicianID string, name string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if s.directory == nil {
		return errors.New("technician directory is required")
	}

	technicianID = strings.TrimSpace(technicianID)
	if technicianID == "" {
		return errTechnicianIDRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: technician name is required", domain.ErrInvalidInput)
	}

	if err := s.directory.SaveTechnician(ctx, s.opts.CompanyID, technicianID, name); err != nil {
		return errs.Wrapf(err, "save technician %s", technicianID)
	}
	return nil
}

// loadJob reads a job and hides jobs that belong to another workshop.
func (s *Service) loadJob(ctx context.Context, jobID string, forUpdate bool) (domain.Job, error) {
	var (
		job domain.Job
		err error
	)
	if forUpdate {
		job, err = s.jobs.GetJobForUpdate(ctx, jobID)
	} else {
		job, err = s.jobs.GetJob(ctx, jobID)
	}
	if err != nil {
		return domain.Job{}, mapRepoError(err, jobID)
	}
	if job.CompanyID != s.opts.CompanyID {
		return domain.Job{}, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	return job, nil
}
